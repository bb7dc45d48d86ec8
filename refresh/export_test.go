package refresh

import "time"

// HTTPTimeout reports the timeout of the refresher's own transport.
func (r *HTTPRefresher) HTTPTimeout() time.Duration {
	return r.httpClient.Timeout
}
