package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/errors"
)

const maxRequestBody = 1 << 20

// HealthHandler reports liveness
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// LoginHandler exchanges username and password for credentials
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := s.auth.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, errors.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid username or password")
				return
			}
			s.logger.Err(err).Msg("[LoginHandler] login failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		s.logger.Info().Str("username", resp.User.Username).Msg("user logged in")
		writeJSON(w, http.StatusOK, resp)
	}
}

// RefreshHandler issues a new access token for a valid refresh token
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.RefreshRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := s.auth.Refresh(req.RefreshToken)
		if err != nil {
			if isCredentialFailure(err) {
				writeError(w, http.StatusUnauthorized, "refresh token invalid or expired")
				return
			}
			s.logger.Err(err).Msg("[RefreshHandler] refresh failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler revokes the refresh token in the body and the bearer token
// used to call it
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.LogoutRequest
		if !decodeBody(w, r, &req) {
			return
		}

		claims, _ := ClaimsFromContext(r.Context())
		if err := s.auth.Logout(claims, req.RefreshToken); err != nil {
			s.logger.Err(err).Msg("[LogoutHandler] logout failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler returns the authenticated principal
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, auth.ToPrincipal(user))
	}
}

func isCredentialFailure(err error) bool {
	return errors.Is(err, errors.ErrInvalidRefreshToken) ||
		errors.Is(err, errors.ErrRefreshTokenExpired) ||
		errors.Is(err, errors.ErrUserInactive)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, authapi.ErrorResponse{Detail: detail})
}
