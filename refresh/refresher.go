package refresh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 15 * time.Second

// maxBodySize caps how much of a refresh response is read.
const maxBodySize = 1 << 20

// Refresher trades the current refresh credential for a new access credential.
// Implementations must not mutate the session.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (string, error)

func (f RefresherFunc) Refresh(ctx context.Context) (string, error) {
	return f(ctx)
}

// CredentialSource yields the session whose refresh credential is exchanged.
// *session.Store satisfies it.
type CredentialSource interface {
	Get() session.Session
}

// HTTPRefresher calls the refresh endpoint on its own *http.Client. That client
// must never be the intercepted one, otherwise a rejected refresh would
// re-enter the refresh protocol.
type HTTPRefresher struct {
	endpoint   string
	source     CredentialSource
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

var _ Refresher = (*HTTPRefresher)(nil)

// Option configures an HTTPRefresher.
type Option func(*HTTPRefresher)

// WithHTTPClient replaces the dedicated transport. The refresher works on its
// own copy of c; a nil c keeps the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(r *HTTPRefresher) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithTimeout sets the fixed timeout of the refresh exchange, overriding the
// timeout of the client given to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(r *HTTPRefresher) {
		r.timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *HTTPRefresher) {
		r.logger = logger
	}
}

// New returns a refresher posting to baseURL + authapi.RouteRefresh.
func New(baseURL string, source CredentialSource, options ...Option) *HTTPRefresher {
	r := &HTTPRefresher{
		endpoint:   baseURL + authapi.RouteRefresh,
		source:     source,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(r)
	}
	hc := *r.httpClient
	if r.timeout > 0 {
		hc.Timeout = r.timeout
	}
	r.httpClient = &hc
	return r
}

// Refresh fails with ErrMissingCredential, without touching the network, when
// no refresh credential is held. Any network failure, non-2xx answer or empty
// access credential fails with ErrRefreshRejected.
func (r *HTTPRefresher) Refresh(ctx context.Context) (string, error) {
	refreshToken := r.source.Get().RefreshToken
	if refreshToken == "" {
		return "", errors.ErrMissingCredential
	}

	body, err := json.Marshal(authapi.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", errors.Wrapf(err, "[Refresh] encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(err, "[Refresh] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(errors.ErrRefreshRejected, errors.Join(errors.ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", errors.Wrapf(errors.ErrRefreshRejected, "refresh endpoint returned %d", resp.StatusCode)
	}

	var payload authapi.RefreshResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return "", errors.Join(errors.ErrRefreshRejected, fmt.Errorf("decode refresh response: %w", err))
	}
	if payload.AccessToken == "" {
		return "", errors.Wrapf(errors.ErrRefreshRejected, "refresh response carried no access token")
	}

	r.logger.Debug().Msg("access credential refreshed")
	return payload.AccessToken, nil
}
