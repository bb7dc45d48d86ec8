package authapi

// Route path constants shared by the client and the reference backend.
const (
	RouteLogin   = "/api/cloud/auth/login"
	RouteRefresh = "/api/cloud/auth/refresh"
	RouteLogout  = "/api/cloud/auth/logout"
	RouteMe      = "/api/cloud/auth/me"

	// RouteHealth is public and reports liveness only.
	RouteHealth = "/api/health"
)

// TokenTypeBearer is the only token type issued by the backend.
const TokenTypeBearer = "bearer"
