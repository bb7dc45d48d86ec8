package session

import (
	"encoding/json"
	"sync"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is the single source of truth for the current session. Every mutation
// is applied in memory first and then persisted, so reads always observe the
// latest write from this process even when persistence fails.
type Store struct {
	storage Storage
	logger  zerolog.Logger

	mu      sync.RWMutex
	current Session
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore loads the persisted session from storage once and returns a Store
// serving it. A principal slot that cannot be decoded is dropped.
func NewStore(storage Storage, options ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, errors.Wrapf(errors.ErrStorage, "[NewStore] storage is required")
	}
	s := &Store{
		storage: storage,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	access, _, err := s.storage.Get(KeyAccessToken)
	if err != nil {
		return errors.Join(errors.ErrStorage, err)
	}
	refresh, _, err := s.storage.Get(KeyRefreshToken)
	if err != nil {
		return errors.Join(errors.ErrStorage, err)
	}
	rawPrincipal, ok, err := s.storage.Get(KeyPrincipal)
	if err != nil {
		return errors.Join(errors.ErrStorage, err)
	}

	loaded := Session{AccessToken: access, RefreshToken: refresh}
	if ok && access != "" && rawPrincipal != "" && rawPrincipal != "null" {
		var p Principal
		if err := json.Unmarshal([]byte(rawPrincipal), &p); err != nil {
			s.logger.Warn().Err(err).Msg("discarding unreadable principal slot")
		} else {
			loaded.Principal = &p
		}
	}
	s.current = loaded
	return nil
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// SetTokens overwrites both credentials. The principal is kept unless access
// is empty, in which case the session is no longer authenticated and the
// principal is dropped with it.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.AccessToken = access
	s.current.RefreshToken = refresh
	if access == "" {
		s.current.Principal = nil
	}

	return s.persist(func() error {
		if err := s.setOrRemove(KeyAccessToken, access); err != nil {
			return err
		}
		if err := s.setOrRemove(KeyRefreshToken, refresh); err != nil {
			return err
		}
		if access == "" {
			return s.storage.Remove(KeyPrincipal)
		}
		return nil
	})
}

// SetAccessToken replaces the access credential after a refresh. It fails with
// ErrMissingCredential when the session no longer holds a refresh credential,
// which means it was cleared while the refresh was outstanding.
func (s *Store) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.RefreshToken == "" {
		return errors.Wrapf(errors.ErrMissingCredential, "[SetAccessToken] session cleared during refresh")
	}
	if access == "" {
		return errors.Wrapf(errors.ErrNotAuthenticated, "[SetAccessToken] empty access credential")
	}
	s.current.AccessToken = access
	return s.persist(func() error {
		return s.storage.Set(KeyAccessToken, access)
	})
}

// SetUser overwrites the principal. A principal can only be attached to an
// authenticated session.
func (s *Store) SetUser(principal *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if principal == nil {
		s.current.Principal = nil
		return s.persist(func() error {
			return s.storage.Remove(KeyPrincipal)
		})
	}
	if s.current.AccessToken == "" {
		return errors.Wrapf(errors.ErrNotAuthenticated, "[SetUser] no access credential")
	}

	data, err := json.Marshal(principal)
	if err != nil {
		return errors.Wrapf(err, "[SetUser] encode principal")
	}
	p := *principal
	s.current.Principal = &p
	return s.persist(func() error {
		return s.storage.Set(KeyPrincipal, string(data))
	})
}

// Clear wipes every credential and the principal from memory and storage.
// Every slot is removed even when an earlier removal fails. Clearing an
// already clear store is a no-op that still succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	return s.persist(func() error {
		var errs []error
		for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyPrincipal} {
			if err := s.storage.Remove(key); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Combine(errs...)
	})
}

func (s *Store) setOrRemove(key, value string) error {
	if value == "" {
		return s.storage.Remove(key)
	}
	return s.storage.Set(key, value)
}

func (s *Store) persist(write func() error) error {
	if err := write(); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		return errors.Join(errors.ErrStorage, err)
	}
	return nil
}

func (s Session) clone() Session {
	if s.Principal != nil {
		p := *s.Principal
		s.Principal = &p
	}
	return s
}
