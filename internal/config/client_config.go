package config

import "time"

const defaultRequestTimeout = 15 * time.Second

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	return GetDurationEnv("REQUEST_TIMEOUT", defaultRequestTimeout)
}

// GetRefreshTimeout bounds the refresh exchange. It is separate from the
// request timeout so a slow refresh never outlives the callers queued on it.
func (Client) GetRefreshTimeout() time.Duration {
	return GetDurationEnv("REFRESH_TIMEOUT", defaultRequestTimeout)
}
