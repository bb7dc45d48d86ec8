package lifecycle

import (
	"strings"

	"github.com/jrsteele09/go-auth-client/session"
)

// LoginView is the unauthenticated entry point.
const LoginView = "/login"

// Route is one entry of the navigation table.
type Route struct {
	Name   string
	Path   string
	Public bool
}

// SessionReader reports the current session. *session.Store satisfies it.
type SessionReader interface {
	Get() session.Session
}

// DefaultRoutes mirrors the admin console: only the login view is public.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "Login", Path: LoginView, Public: true},
		{Name: "Dashboard", Path: "/dashboard"},
		{Name: "Orgs", Path: "/orgs"},
		{Name: "Licenses", Path: "/licenses"},
		{Name: "Users", Path: "/users"},
		{Name: "Tasks", Path: "/tasks"},
		{Name: "Reports", Path: "/reports"},
		{Name: "Analytics", Path: "/analytics"},
		{Name: "Updates", Path: "/updates"},
	}
}

// Guard decides whether a navigation may proceed given the session state.
type Guard struct {
	session SessionReader
	public  map[string]struct{}
}

// NewGuard builds a Guard over routes. Paths not in the table are protected.
func NewGuard(s SessionReader, routes []Route) *Guard {
	g := &Guard{
		session: s,
		public:  make(map[string]struct{}),
	}
	for _, r := range routes {
		if r.Public {
			g.public[normalise(r.Path)] = struct{}{}
		}
	}
	return g
}

// Check returns allowed=true when path may be visited, otherwise the view to
// redirect to.
func (g *Guard) Check(path string) (redirect string, allowed bool) {
	if _, ok := g.public[normalise(path)]; ok {
		return "", true
	}
	if g.session.Get().IsAuthenticated() {
		return "", true
	}
	return LoginView, false
}

func normalise(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
