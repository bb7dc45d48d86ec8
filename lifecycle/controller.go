package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 1 << 20
)

// SessionStore is the part of *session.Store the Controller mutates.
type SessionStore interface {
	Get() session.Session
	SetTokens(access, refresh string) error
	SetUser(principal *session.Principal) error
	Clear() error
}

// Navigator is told when the session has been ended underneath the user and
// they must be sent back to the unauthenticated entry point.
type Navigator interface {
	OnForceLogout()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) OnForceLogout() {
	f()
}

// Controller runs login, logout and forced logout. Its HTTP calls go out on a
// plain client, never through the credential-attaching pipeline.
type Controller struct {
	baseURL    string
	store      SessionStore
	navigator  Navigator
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*Controller)

func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithHTTPClient sets the transport. The Controller works on its own copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the timeout of the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(baseURL string, store SessionStore, options ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewController] session store is required")
	}
	c := &Controller{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "[NewController] http client is nil")
	}
	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c, nil
}

// Login exchanges username and password for a session. On any failure the
// session is left as it was before the call; if the new session cannot be
// persisted the previous one is restored.
func (c *Controller) Login(ctx context.Context, username, password string) (session.Session, error) {
	resp, err := c.post(ctx, authapi.RouteLogin, authapi.LoginRequest{Username: username, Password: password}, "")
	if err != nil {
		return session.Session{}, errors.Wrapf(err, "[Login]")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return session.Session{}, errors.ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return session.Session{}, errors.Wrapf(errors.ErrUnexpectedStatus, "[Login] login returned %d", resp.StatusCode)
	}

	var payload authapi.LoginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return session.Session{}, errors.Join(errors.ErrUnexpectedStatus, err)
	}
	if payload.AccessToken == "" || payload.RefreshToken == "" {
		return session.Session{}, errors.Wrapf(errors.ErrUnexpectedStatus, "[Login] response carried no credentials")
	}

	previous := c.store.Get()
	if err := c.store.SetTokens(payload.AccessToken, payload.RefreshToken); err != nil {
		c.restore(previous)
		return session.Session{}, errors.Wrapf(err, "[Login] store tokens")
	}
	if err := c.store.SetUser(&payload.User); err != nil {
		c.restore(previous)
		return session.Session{}, errors.Wrapf(err, "[Login] store principal")
	}

	c.logger.Info().Str("username", payload.User.Username).Str("role", payload.User.Role).Msg("logged in")
	return c.store.Get(), nil
}

// Logout asks the server to invalidate the refresh credential and then clears
// the local session no matter how that call went. The only error returned is a
// failure to persist the cleared session.
func (c *Controller) Logout(ctx context.Context) error {
	current := c.store.Get()
	if current.RefreshToken != "" {
		resp, err := c.post(ctx, authapi.RouteLogout, authapi.LogoutRequest{RefreshToken: current.RefreshToken}, current.AccessToken)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("remote logout failed, clearing local session")
		default:
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
			resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				c.logger.Warn().Int("status", resp.StatusCode).Msg("remote logout rejected, clearing local session")
			}
		}
	}

	if err := c.store.Clear(); err != nil {
		return errors.Wrapf(err, "[Logout]")
	}
	c.logger.Info().Msg("logged out")
	return nil
}

// ForceLogout clears the session and signals the navigator. The dispatcher
// calls it when a refresh can no longer succeed.
func (c *Controller) ForceLogout(ctx context.Context) {
	if err := c.store.Clear(); err != nil {
		c.logger.Err(err).Msg("failed to persist forced logout")
	}
	c.logger.Warn().Msg("session ended, re-authentication required")
	if c.navigator != nil {
		c.navigator.OnForceLogout()
	}
}

// restore puts back the session held before a failed login. The store updates
// memory before persisting, so the in-memory session is restored even when
// storage keeps failing.
func (c *Controller) restore(previous session.Session) {
	var err error
	if previous.AccessToken == "" && previous.RefreshToken == "" {
		err = c.store.Clear()
	} else {
		err = errors.Combine(
			c.store.SetTokens(previous.AccessToken, previous.RefreshToken),
			c.store.SetUser(previous.Principal),
		)
	}
	if err != nil {
		c.logger.Err(err).Msg("failed to restore session after failed login")
	}
}

func (c *Controller) post(ctx context.Context, route string, body any, accessToken string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := (session.Session{AccessToken: accessToken}).Token(); tok != nil {
		tok.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(errors.ErrTransport, err)
	}
	return resp, nil
}
