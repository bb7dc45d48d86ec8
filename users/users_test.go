package users_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/users"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Password123", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoNumbersHere", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	u, err := users.New("admin", "Password123", users.RoleSuperAdmin)
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.True(t, u.IsSuperAdmin())
	require.NotEqual(t, "Password123", u.PasswordHash)
	require.True(t, u.CheckPassword("Password123"))
	require.False(t, u.CheckPassword("password123"))

	_, err = users.New("", "Password123", users.RoleStudent)
	require.Error(t, err)
	_, err = users.New("weak", "weak", users.RoleStudent)
	require.Error(t, err)
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u, err := users.New("teacher1", "Password123", users.RoleTeacher)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByUsername("teacher1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	byID, err := repo.GetByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "teacher1", byID.Username)

	t.Run("returned users are copies", func(t *testing.T) {
		got.Role = users.RoleSuperAdmin
		again, err := repo.GetByUsername("teacher1")
		require.NoError(t, err)
		require.Equal(t, users.RoleTeacher, again.Role)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup, err := users.New("teacher1", "Password123", users.RoleStudent)
		require.NoError(t, err)
		require.Error(t, repo.Upsert(dup))
	})

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, repo.SetActive("teacher1", false))
		got, err := repo.GetByUsername("teacher1")
		require.NoError(t, err)
		require.False(t, got.IsActive)
	})

	t.Run("list pages", func(t *testing.T) {
		other, err := users.New("admin", "Password123", users.RoleOrgAdmin)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(other))

		all, err := repo.List(0, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "admin", all[0].Username)

		page, err := repo.List(1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		require.Equal(t, "teacher1", page[0].Username)

		empty, err := repo.List(5, 1)
		require.NoError(t, err)
		require.Empty(t, empty)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetByUsername("nobody")
		require.ErrorIs(t, err, errors.ErrUserNotFound)
		require.ErrorIs(t, repo.Delete("nobody"), errors.ErrUserNotFound)
		require.ErrorIs(t, repo.SetLoggedIn("nobody"), errors.ErrUserNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete("teacher1"))
		_, err := repo.GetByID(u.ID)
		require.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}
