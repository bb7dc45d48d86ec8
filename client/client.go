package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/refresh"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout  = 15 * time.Second
	requestIDHeader = "X-Request-ID"
)

// SessionStore is the part of *session.Store the Client depends on.
type SessionStore interface {
	Get() session.Session
	SetAccessToken(access string) error
	Clear() error
}

// ForceLogouter is invoked once a refresh has failed for good.
type ForceLogouter interface {
	ForceLogout(ctx context.Context)
}

// ForceLogoutFunc adapts a function to ForceLogouter.
type ForceLogoutFunc func(ctx context.Context)

func (f ForceLogoutFunc) ForceLogout(ctx context.Context) {
	f(ctx)
}

// Client attaches the session's access credential to every request and, when
// the credential is rejected, runs a single shared refresh before replaying.
type Client struct {
	baseURL     string
	store       SessionStore
	refresher   refresh.Refresher
	httpClient  *http.Client
	timeout     time.Duration
	forceLogout ForceLogouter
	logger      zerolog.Logger

	gate refreshGate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. The Client works on its own copy, so the
// supplied client is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the fixed per-call timeout, overriding the timeout of the
// client given to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// WithForceLogout sets the hook run on unrecoverable refresh failure. Without
// it the session store is simply cleared.
func WithForceLogout(f ForceLogouter) Option {
	return func(cl *Client) {
		cl.forceLogout = f
	}
}

// New returns a Client sending to baseURL. The refresher must use its own
// transport, never this Client.
func New(baseURL string, store SessionStore, refresher refresh.Refresher, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[client.New] session store is required")
	}
	if refresher == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[client.New] refresher is required")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		store:      store,
		refresher:  refresher,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[client.New] http client is nil")
	}
	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc

	if c.forceLogout == nil {
		c.forceLogout = ForceLogoutFunc(func(context.Context) {
			if err := store.Clear(); err != nil {
				c.logger.Err(err).Msg("failed to clear session")
			}
		})
	}
	return c, nil
}

// Do is the single entry point: attach, send, classify, and on a first
// credential rejection refresh once and replay.
//
// A final status other than 401 is returned with a nil error. A final 401 is
// returned together with an error wrapping ErrAuthRejected (and the refresh
// failure, if there was one). Transport failures return a nil Response and an
// error wrapping ErrTransport. A request queued behind a refresh that failed
// receives a nil Response and the refresh failure.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[Do] nil request")
	}
	r := req.clone()

	sentWith := c.store.Get().AccessToken
	resp, err := c.send(ctx, r, sentWith)
	if err != nil {
		return nil, err
	}
	if !refreshEligible(r, resp) {
		return classify(r, resp)
	}

	r.retried = true

	// A refresh settled while this request was in flight; reuse its result.
	if current := c.store.Get().AccessToken; current != "" && current != sentWith {
		return c.replay(ctx, r, current)
	}
	return c.refreshAndReplay(ctx, r, resp)
}

func (c *Client) refreshAndReplay(ctx context.Context, r *Request, rejected *Response) (*Response, error) {
	wait, leader := c.gate.enter()
	if !leader {
		select {
		case outcome := <-wait:
			if outcome.err != nil {
				return nil, outcome.err
			}
			return c.replay(ctx, r, outcome.accessToken)
		case <-ctx.Done():
			return nil, errors.Join(errors.ErrTransport, ctx.Err())
		}
	}

	settled := false
	defer func() {
		if !settled {
			c.gate.settle(refreshOutcome{err: errors.ErrRefreshRejected})
		}
	}()

	c.logger.Debug().Str("path", r.Path).Msg("access credential rejected, refreshing")
	accessToken, err := c.refresher.Refresh(context.WithoutCancel(ctx))
	if err == nil {
		if err = c.store.SetAccessToken(accessToken); errors.Is(err, errors.ErrStorage) {
			// in-memory session is already updated
			err = nil
		}
	}

	if err != nil {
		c.forceLogout.ForceLogout(context.WithoutCancel(ctx))
		settled = true
		n := c.gate.settle(refreshOutcome{err: err})
		c.logger.Warn().Err(err).Int("waiters", n).Msg("refresh failed, session ended")
		return rejected, errors.Join(errors.ErrAuthRejected, err)
	}

	settled = true
	n := c.gate.settle(refreshOutcome{accessToken: accessToken})
	c.logger.Debug().Int("waiters", n).Msg("refresh settled")
	return c.replay(ctx, r, accessToken)
}

func (c *Client) replay(ctx context.Context, r *Request, accessToken string) (*Response, error) {
	resp, err := c.send(ctx, r, accessToken)
	if err != nil {
		return nil, err
	}
	return classify(r, resp)
}

// send performs one round trip with accessToken attached as a bearer
// credential, or unauthenticated when accessToken is empty.
func (c *Client) send(ctx context.Context, r *Request, accessToken string) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "[send] build %s %s", r.Method, r.Path)
	}
	for k, v := range r.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}
	httpReq.Header.Del("Authorization")
	if tok := (session.Session{AccessToken: accessToken}).Token(); tok != nil {
		tok.SetAuthHeader(httpReq)
	}
	if httpReq.Header.Get(requestIDHeader) == "" {
		httpReq.Header.Set(requestIDHeader, uuid.NewString())
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Join(errors.ErrTransport, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Join(errors.ErrTransport, err)
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

func refreshEligible(r *Request, resp *Response) bool {
	return resp.StatusCode == http.StatusUnauthorized && !r.retried
}

func classify(r *Request, resp *Response) (*Response, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		return resp, errors.Wrapf(errors.ErrAuthRejected, "%s %s", r.Method, r.Path)
	}
	return resp, nil
}
