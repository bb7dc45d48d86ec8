package server

import (
	"net/http"

	"github.com/jrsteele09/go-auth-client/authapi"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+authapi.RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Credential exchange
	s.RegisterRouteHandler("POST "+authapi.RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+authapi.RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+authapi.RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Protected resources
	s.RegisterRouteHandler("GET "+authapi.RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// CORS preflight for every API route
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}
