package client

import (
	"context"
	"net/http"
)

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, path, nil))
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, path, nil))
}

func (c *Client) PostJSON(ctx context.Context, path string, v any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, v)
}

func (c *Client) PutJSON(ctx context.Context, path string, v any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPut, path, v)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, v any) (*Response, error) {
	req, err := NewJSONRequest(method, path, v)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}
