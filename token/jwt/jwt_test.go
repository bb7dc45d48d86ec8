package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/jwt"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/stretchr/testify/require"
)

type testOAuthConfig struct{}

func (testOAuthConfig) GetSecretKey() string                        { return "test-secret" }
func (testOAuthConfig) GetRefreshTokenLength() int                  { return 48 }
func (testOAuthConfig) GetDefaultAccessTokenExpiry() time.Duration  { return time.Hour }
func (testOAuthConfig) GetDefaultRefreshTokenExpiry() time.Duration { return 24 * time.Hour }

func newSigner(t *testing.T, secret string) token.Signer {
	t.Helper()
	s, err := token.NewHMACSigner(secret)
	require.NoError(t, err)
	return s
}

func testUser() *users.User {
	orgID := int64(7)
	return &users.User{ID: "u-1", Username: "teacher1", Role: users.RoleTeacher, OrgID: &orgID, IsActive: true}
}

func TestCreateAndVerify(t *testing.T) {
	signer := newSigner(t, "test-secret")
	creator := jwt.NewCreator(testOAuthConfig{}, signer)
	inspector := jwt.NewInspector(signer, nil)

	raw, issued, err := creator.CreateAccessToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, issued.JTI)

	claims, err := inspector.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "teacher1", claims.Username)
	require.Equal(t, "teacher", claims.Role)
	require.NotNil(t, claims.OrgID)
	require.Equal(t, int64(7), *claims.OrgID)
	require.Equal(t, issued.JTI, claims.JTI)
	require.Equal(t, issued.ExpiresAt.Unix(), claims.ExpiresAt.Unix())

	t.Run("system user has no org", func(t *testing.T) {
		u := testUser()
		u.OrgID = nil
		raw, _, err := creator.CreateAccessToken(u)
		require.NoError(t, err)
		claims, err := inspector.Verify(raw)
		require.NoError(t, err)
		require.Nil(t, claims.OrgID)
	})
}

func TestVerify_Rejections(t *testing.T) {
	signer := newSigner(t, "test-secret")
	creator := jwt.NewCreator(testOAuthConfig{}, signer)
	raw, issued, err := creator.CreateAccessToken(testUser())
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := jwt.NewInspector(signer, nil).Verify("  ")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwt.NewInspector(signer, nil).Verify("not.a.jwt")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := jwt.NewInspector(newSigner(t, "other-secret"), nil).Verify(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		jwt.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { jwt.NowTimeFunc = time.Now }()

		_, err := jwt.NewInspector(signer, nil).Verify(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
			"sub": "u-1", "jti": "x", "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = jwt.NewInspector(signer, nil).Verify(unsigned)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("revoked", func(t *testing.T) {
		cache := token.NewInMemoryRevokedTokenCache()
		require.NoError(t, cache.Add(issued.JTI, issued.ExpiresAt))
		_, err := jwt.NewInspector(signer, cache).Verify(raw)
		require.ErrorIs(t, err, errors.ErrTokenRevoked)
	})
}
