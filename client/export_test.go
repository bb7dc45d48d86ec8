package client

import "time"

// GateState exposes the refresh gate to the external tests.
func (c *Client) GateState() (refreshing bool, waiters int) {
	state, n := c.gate.current()
	return state == gateRefreshing, n
}

// HTTPTimeout reports the timeout of the Client's own transport.
func (c *Client) HTTPTimeout() time.Duration {
	return c.httpClient.Timeout
}
