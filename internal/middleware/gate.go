package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wheelsweb/backend/internal/auth"
	"github.com/wheelsweb/backend/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	adminPath     = "/admin"
)

// SessionReader resolves the (possibly absent) session of a request.
type SessionReader interface {
	SessionFromRequest(r *http.Request) *auth.Session
}

// Gate is the per-request authorization decision point. It classifies the
// path, reads the session, and decides allow/redirect before any handler
// runs. It never mutates the session; minting and clearing happen only in
// the login/logout endpoints.
type Gate struct {
	sessions       SessionReader
	metrics        *metrics.Manager
	publicPaths    map[string]bool
	bypassPrefixes []string
	adminPrefixes  []string
}

func NewGate(sessions SessionReader, metricsManager *metrics.Manager) *Gate {
	return &Gate{
		sessions: sessions,
		metrics:  metricsManager,
		publicPaths: map[string]bool{
			"/":       true,
			loginPath: true,
		},
		// static assets and API routes pass through, API handlers
		// authorize themselves via auth.SessionChecker
		bypassPrefixes: []string{
			"/assets/",
			"/favicon",
			"/api/",
		},
		adminPrefixes: []string{
			adminPath,
			dashboardPath + adminPath,
		},
	}
}

func (g *Gate) pathBypassed(path string) bool {
	for _, prefix := range g.bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *Gate) pathAdminGated(path string) bool {
	for _, prefix := range g.adminPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *Gate) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// authorization outcomes are per-request, never cacheable
			w.Header().Set("Cache-Control", "no-store")

			path := r.URL.Path
			if g.pathBypassed(path) {
				next.ServeHTTP(w, r)
				return
			}

			session := g.sessions.SessionFromRequest(r)

			// an authenticated session has no business on the login
			// page or the public landing page
			if session != nil && (path == loginPath || path == "/") {
				g.redirect(w, r, session.Role.HomePath())
				return
			}

			if g.publicPaths[path] {
				next.ServeHTTP(w, r)
				return
			}

			if session == nil {
				g.redirectToLogin(w, r, path)
				return
			}

			if g.pathAdminGated(path) && session.Role != auth.RoleAdmin {
				// authenticated but not authorized: back to their own
				// home, not to login
				log.Tracef("[gate] role [%s] not allowed on [%s]", session.Role, path)
				g.redirect(w, r, session.Role.HomePath())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// redirectToLogin preserves the originally requested path so the client can
// return there after logging in.
func (g *Gate) redirectToLogin(w http.ResponseWriter, r *http.Request, path string) {
	query := url.Values{}
	query.Set("next", path)
	g.redirect(w, r, loginPath+"?"+query.Encode())
}

func (g *Gate) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if g.metrics != nil {
		g.metrics.CounterGateRedirects.With(prometheus.Labels{
			"target": redirectTargetLabel(target),
		}).Inc()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func redirectTargetLabel(target string) string {
	switch {
	case strings.HasPrefix(target, loginPath):
		return "login"
	case strings.HasPrefix(target, adminPath):
		return "admin_home"
	default:
		return "user_home"
	}
}
