package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetDataFolder() string
	GetEnv() string
	GetLogLevel() string
	GetAdminUsername() string
	GetAdminPassword() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// ClientConfig holds the knobs of the authenticated HTTP client.
type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Client
}

func New() Config {
	return mainConfig{}
}
