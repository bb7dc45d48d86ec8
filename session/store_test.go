package session_test

import (
	"sync"
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/session/storagefake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*session.Store, *storagefake.FakeStorage) {
	t.Helper()
	fs := storagefake.NewFakeStorage()
	store, err := session.NewStore(fs)
	require.NoError(t, err)
	return store, fs
}

func testPrincipal() *session.Principal {
	return &session.Principal{ID: "u-1", Username: "teacher1", Role: "teacher", IsActive: true}
}

func TestStore_EmptyOnFirstStart(t *testing.T) {
	store, _ := newStore(t)
	s := store.Get()
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.RefreshToken)
	require.Nil(t, s.Principal)
	require.Nil(t, s.Token())
	require.Equal(t, "", s.Role())
}

func TestStore_LoadsPersistedSlots(t *testing.T) {
	fs := storagefake.NewFakeStorage()
	require.NoError(t, fs.Set(session.KeyAccessToken, "A1"))
	require.NoError(t, fs.Set(session.KeyRefreshToken, "R1"))
	require.NoError(t, fs.Set(session.KeyPrincipal, `{"id":"u-1","username":"teacher1","role":"teacher"}`))

	store, err := session.NewStore(fs)
	require.NoError(t, err)

	s := store.Get()
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "teacher", s.Role())
	require.Equal(t, "R1", s.RefreshToken)
}

func TestStore_DropsCorruptPrincipal(t *testing.T) {
	fs := storagefake.NewFakeStorage()
	require.NoError(t, fs.Set(session.KeyAccessToken, "A1"))
	require.NoError(t, fs.Set(session.KeyPrincipal, "{not json"))

	store, err := session.NewStore(fs)
	require.NoError(t, err)
	require.True(t, store.Get().IsAuthenticated())
	require.Nil(t, store.Get().Principal)
}

func TestStore_SetTokens(t *testing.T) {
	store, fs := newStore(t)

	require.NoError(t, store.SetTokens("A1", "R1"))
	require.NoError(t, store.SetUser(testPrincipal()))

	t.Run("keeps principal", func(t *testing.T) {
		require.NoError(t, store.SetTokens("A2", "R2"))
		s := store.Get()
		require.Equal(t, "A2", s.AccessToken)
		require.Equal(t, "R2", s.RefreshToken)
		require.NotNil(t, s.Principal)

		v, _, _ := fs.Get(session.KeyAccessToken)
		require.Equal(t, "A2", v)
	})

	t.Run("empty access drops principal", func(t *testing.T) {
		require.NoError(t, store.SetTokens("", "R2"))
		s := store.Get()
		require.False(t, s.IsAuthenticated())
		require.Nil(t, s.Principal)
		_, ok, _ := fs.Get(session.KeyPrincipal)
		require.False(t, ok)
	})
}

func TestStore_SetAccessToken(t *testing.T) {
	store, fs := newStore(t)

	err := store.SetAccessToken("A2")
	require.ErrorIs(t, err, errors.ErrMissingCredential)

	require.NoError(t, store.SetTokens("A1", "R1"))
	require.NoError(t, store.SetAccessToken("A2"))
	require.Equal(t, "A2", store.Get().AccessToken)
	require.Equal(t, "R1", store.Get().RefreshToken)

	v, _, _ := fs.Get(session.KeyAccessToken)
	require.Equal(t, "A2", v)

	require.ErrorIs(t, store.SetAccessToken(""), errors.ErrNotAuthenticated)
}

func TestStore_SetUserRequiresAccessCredential(t *testing.T) {
	store, fs := newStore(t)

	err := store.SetUser(testPrincipal())
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)
	require.Nil(t, store.Get().Principal)
	require.Equal(t, 0, fs.Keys())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.SetTokens("A1", "R1"))
	require.NoError(t, store.SetUser(testPrincipal()))

	s := store.Get()
	s.Principal.Role = "super_admin"
	require.Equal(t, "teacher", store.Get().Role())
}

func TestStore_Clear(t *testing.T) {
	store, fs := newStore(t)
	require.NoError(t, store.SetTokens("A1", "R1"))
	require.NoError(t, store.SetUser(testPrincipal()))
	require.Equal(t, 3, fs.Keys())

	require.NoError(t, store.Clear())
	s := store.Get()
	require.Empty(t, s.AccessToken)
	require.Empty(t, s.RefreshToken)
	require.Nil(t, s.Principal)
	require.Equal(t, 0, fs.Keys())

	// idempotent
	require.NoError(t, store.Clear())
	require.Equal(t, 0, fs.Keys())
}

func TestStore_ClearRemovesEverySlotDespiteFailure(t *testing.T) {
	store, fs := newStore(t)
	require.NoError(t, store.SetTokens("A1", "R1"))
	require.NoError(t, store.SetUser(testPrincipal()))
	fs.FailKeys = map[string]bool{session.KeyAccessToken: true}

	err := store.Clear()
	require.ErrorIs(t, err, errors.ErrStorage)
	require.False(t, store.Get().IsAuthenticated())

	_, ok, err := fs.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = fs.Get(session.KeyPrincipal)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, fs.Keys())
}

func TestStore_PersistFailureStillUpdatesMemory(t *testing.T) {
	store, fs := newStore(t)
	fs.FailWrites = true

	err := store.SetTokens("A1", "R1")
	require.ErrorIs(t, err, errors.ErrStorage)
	require.Equal(t, "A1", store.Get().AccessToken)

	require.ErrorIs(t, store.Clear(), errors.ErrStorage)
	require.False(t, store.Get().IsAuthenticated())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.SetTokens("A0", "R1"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetAccessToken("A1")
		}()
		go func() {
			defer wg.Done()
			s := store.Get()
			assert.Equal(t, "R1", s.RefreshToken)
		}()
	}
	wg.Wait()
	require.Equal(t, "A1", store.Get().AccessToken)
}

func TestSession_Token(t *testing.T) {
	s := session.Session{AccessToken: "A1", RefreshToken: "R1"}
	tok := s.Token()
	require.NotNil(t, tok)
	require.Equal(t, "Bearer", tok.Type())
	require.Equal(t, "A1", tok.AccessToken)
}
