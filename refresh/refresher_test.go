package refresh_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/refresh"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/session/storagefake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWith(t *testing.T, access, refreshToken string) *session.Store {
	t.Helper()
	store, err := session.NewStore(storagefake.NewFakeStorage())
	require.NoError(t, err)
	if access != "" || refreshToken != "" {
		require.NoError(t, store.SetTokens(access, refreshToken))
	}
	return store
}

func TestHTTPRefresher_Success(t *testing.T) {
	var got authapi.RefreshRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, authapi.RouteRefresh, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(authapi.RefreshResponse{AccessToken: "A2", TokenType: authapi.TokenTypeBearer})
	}))
	defer srv.Close()

	store := storeWith(t, "A1", "R1")
	r := refresh.New(srv.URL, store)

	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A2", token)
	require.Equal(t, "R1", got.RefreshToken)

	// the refresher never writes the session
	require.Equal(t, "A1", store.Get().AccessToken)
}

func TestHTTPRefresher_MissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := refresh.New(srv.URL, storeWith(t, "", "")).Refresh(context.Background())
	require.ErrorIs(t, err, errors.ErrMissingCredential)
	require.Zero(t, calls.Load())
}

func TestHTTPRefresher_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":""}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := refresh.New(srv.URL, storeWith(t, "A1", "R1")).Refresh(context.Background())
			require.ErrorIs(t, err, errors.ErrRefreshRejected)
		})
	}
}

func TestHTTPRefresher_TimeoutIsRejection(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	r := refresh.New(srv.URL, storeWith(t, "A1", "R1"), refresh.WithTimeout(50*time.Millisecond))
	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, errors.ErrRefreshRejected)
	require.ErrorIs(t, err, errors.ErrTransport)
}

func TestHTTPRefresher_HTTPClientOptions(t *testing.T) {
	store := storeWith(t, "A1", "R1")

	shared := &http.Client{}
	r := refresh.New("http://x", store, refresh.WithHTTPClient(shared), refresh.WithTimeout(time.Second))
	require.Zero(t, shared.Timeout)
	require.Equal(t, time.Second, r.HTTPTimeout())

	r = refresh.New("http://x", store, refresh.WithTimeout(2*time.Second), refresh.WithHTTPClient(&http.Client{}))
	require.Equal(t, 2*time.Second, r.HTTPTimeout())

	r = refresh.New("http://x", store, refresh.WithHTTPClient(nil))
	require.Equal(t, 15*time.Second, r.HTTPTimeout())
}

func TestRefresherFunc(t *testing.T) {
	var r refresh.Refresher = refresh.RefresherFunc(func(context.Context) (string, error) {
		return "A9", nil
	})
	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A9", token)
}
