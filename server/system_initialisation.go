package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/users"
)

// InitialiseSystem creates the super admin user if it doesn't exist. When no
// admin password is configured one is generated and logged once.
func (s *Server) InitialiseSystem(ctx context.Context, config config.Config) error {
	username := config.GetAdminUsername()
	generatedPassword, err := s.createSuperAdmin(ctx, username, config.GetAdminPassword())
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap super admin: %w", err)
	}

	if generatedPassword != "" {
		s.logger.Warn().
			Str("base_url", config.GetBaseURL()).
			Str("username", username).
			Str("password", generatedPassword).
			Msg("super admin created with a generated password, set ADMIN_PASSWORD to choose one")
	}
	return nil
}

// createSuperAdmin creates the super admin user if none exists. It returns the
// password only when it had to generate one.
func (s *Server) createSuperAdmin(_ context.Context, username, defaultPassword string) (generatedPassword string, err error) {
	existingUser, err := s.repos.Users.GetByUsername(username)
	if err == nil && existingUser != nil {
		s.logger.Debug().Str("username", username).Msg("super admin already exists")
		return "", nil
	}
	if err != nil && !errors.Is(err, errors.ErrUserNotFound) {
		return "", fmt.Errorf("[server createSuperAdmin] user lookup: %w", err)
	}

	password := defaultPassword
	if password == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[server createSuperAdmin] failed to generate password: %w", err)
		}
		// Suffix guarantees the strength rules regardless of the random part
		password = base64.RawURLEncoding.EncodeToString(passwordBytes) + "Aa1"
		generatedPassword = password
	}

	adminUser, err := users.New(username, password, users.RoleSuperAdmin)
	if err != nil {
		return "", fmt.Errorf("[server createSuperAdmin] invalid admin credentials: %w", err)
	}
	adminUser.RealName = "System Administrator"

	if err := s.repos.Users.Upsert(adminUser); err != nil {
		return "", fmt.Errorf("[server createSuperAdmin] failed to create super admin: %w", err)
	}
	return generatedPassword, nil
}
