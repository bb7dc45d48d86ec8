package config

import "time"

type OAuthConfig interface {
	GetSecretKey() string
	GetRefreshTokenLength() int
	GetDefaultAccessTokenExpiry() time.Duration
	GetDefaultRefreshTokenExpiry() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetSecretKey() string {
	return GetEnv("SECRET_KEY", "dev-secret-key-change-in-production")
}

func (OAuth) GetRefreshTokenLength() int {
	return 48
}

func (OAuth) GetDefaultAccessTokenExpiry() time.Duration {
	return GetDurationEnv("ACCESS_TOKEN_EXPIRY", 480*time.Minute)
}

func (OAuth) GetDefaultRefreshTokenExpiry() time.Duration {
	return GetDurationEnv("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}
