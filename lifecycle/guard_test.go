package lifecycle_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/lifecycle"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/session/storagefake"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	store, err := session.NewStore(storagefake.NewFakeStorage())
	require.NoError(t, err)
	g := lifecycle.NewGuard(store, lifecycle.DefaultRoutes())

	tests := []struct {
		name     string
		loggedIn bool
		path     string
		allowed  bool
	}{
		{"login is public", false, "/login", true},
		{"login with query", false, "/login?next=/orgs", true},
		{"protected when logged out", false, "/dashboard", false},
		{"unknown path is protected", false, "/orgs/42", false},
		{"trailing slash", false, "/login/", true},
		{"protected when logged in", true, "/dashboard", true},
		{"unknown path when logged in", true, "/orgs/42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.loggedIn {
				require.NoError(t, store.SetTokens("A1", "R1"))
			} else {
				require.NoError(t, store.Clear())
			}

			redirect, allowed := g.Check(tt.path)
			require.Equal(t, tt.allowed, allowed)
			if tt.allowed {
				require.Empty(t, redirect)
			} else {
				require.Equal(t, lifecycle.LoginView, redirect)
			}
		})
	}
}
