package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Request describes one call through the Client. Body is held as bytes so the
// request can be replayed after a refresh.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte

	// retried is set once the request has been replayed after a refresh; a
	// second credential rejection is then reported instead of refreshing again.
	retried bool
}

// NewRequest builds a Request for path, relative to the client's base URL.
func NewRequest(method, path string, body []byte) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: make(http.Header),
		Body:   body,
	}
}

// NewJSONRequest encodes v as the request body and sets the content type.
func NewJSONRequest(method, path string, v any) (*Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	req := NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (r *Request) clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	c.retried = false
	return &c
}

// Response is the final answer handed back to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
