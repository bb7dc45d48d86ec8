package lifecycle

import "time"

// HTTPTimeout reports the timeout of the Controller's own transport.
func (c *Controller) HTTPTimeout() time.Duration {
	return c.httpClient.Timeout
}
