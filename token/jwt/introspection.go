package jwt

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
)

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector validates access tokens issued by Creator
type Inspector struct {
	signer         token.Signer
	revokedChecker RevokedChecker
}

// NewInspector creates a new JWT inspector. revokedChecker may be nil.
func NewInspector(signer token.Signer, revokedChecker RevokedChecker) *Inspector {
	return &Inspector{
		signer:         signer,
		revokedChecker: revokedChecker,
	}
}

// Verify checks the signature and expiry of rawToken and returns its claims.
// Any malformed, expired or wrongly signed token fails with ErrInvalidToken; a
// logged out token fails with ErrTokenRevoked.
func (i *Inspector) Verify(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.ErrInvalidToken
	}

	parsed, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(errors.ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "error extracting claims from token")
	}

	claims := &Claims{}
	claims.UserID, _ = mapClaims["sub"].(string)
	claims.Username, _ = mapClaims["username"].(string)
	claims.Role, _ = mapClaims["role"].(string)
	claims.JTI, _ = mapClaims["jti"].(string)
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if orgID, ok := mapClaims["org_id"].(float64); ok {
		id := int64(orgID)
		claims.OrgID = &id
	}

	if claims.UserID == "" || claims.JTI == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token missing sub or jti claim")
	}
	if i.revokedChecker != nil && i.revokedChecker.IsRevoked(claims.JTI) {
		return nil, errors.ErrTokenRevoked
	}
	return claims, nil
}
