package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wheelsweb/backend/internal/auth"
	"github.com/wheelsweb/backend/internal/middleware"
	"github.com/wheelsweb/backend/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateTestEnv struct {
	handler    http.Handler
	codec      *auth.Codec
	service    *auth.Service
	nextServed *bool
}

func newGateTestEnv(t *testing.T) *gateTestEnv {
	t.Helper()

	codec := auth.NewCodec([]byte("test-secret"))
	service := auth.NewService(auth.NewTestStore(), codec, auth.NewCookies(false), time.Hour)
	gate := middleware.NewGate(service, metrics.NewTestManager())

	nextServed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextServed = true
		w.WriteHeader(http.StatusOK)
	})

	return &gateTestEnv{
		handler:    gate.Check()(next),
		codec:      codec,
		service:    service,
		nextServed: &nextServed,
	}
}

func (env *gateTestEnv) request(t *testing.T, path string, role auth.Role) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if role != "" {
		token, err := env.codec.Mint("someone", role, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	*env.nextServed = false
	env.handler.ServeHTTP(rr, req)
	return rr
}

func TestGate_DecisionTable(t *testing.T) {
	testCases := []struct {
		name             string
		path             string
		role             auth.Role // empty = anonymous
		expectedStatus   int
		expectedLocation string
	}{
		// bypass bucket: assets and API pass through for everyone
		{name: "anonymous asset", path: "/assets/app.js", expectedStatus: http.StatusOK},
		{name: "anonymous favicon", path: "/favicon.ico", expectedStatus: http.StatusOK},
		{name: "anonymous api", path: "/api/leads", expectedStatus: http.StatusOK},
		{name: "user api", path: "/api/leads", role: auth.RoleUser, expectedStatus: http.StatusOK},
		{name: "anonymous api login", path: "/api/auth/login", expectedStatus: http.StatusOK},

		// public bucket
		{name: "anonymous root", path: "/", expectedStatus: http.StatusOK},
		{name: "anonymous login page", path: "/login", expectedStatus: http.StatusOK},

		// authenticated sessions bounced off login page and root
		{name: "user login page", path: "/login", role: auth.RoleUser, expectedStatus: http.StatusFound, expectedLocation: "/dashboard"},
		{name: "admin login page", path: "/login", role: auth.RoleAdmin, expectedStatus: http.StatusFound, expectedLocation: "/admin"},
		{name: "user root", path: "/", role: auth.RoleUser, expectedStatus: http.StatusFound, expectedLocation: "/dashboard"},
		{name: "admin root", path: "/", role: auth.RoleAdmin, expectedStatus: http.StatusFound, expectedLocation: "/admin"},

		// authenticated subtree
		{name: "anonymous dashboard", path: "/dashboard", expectedStatus: http.StatusFound, expectedLocation: "/login?next=%2Fdashboard"},
		{name: "anonymous nested dashboard", path: "/dashboard/my-leads", expectedStatus: http.StatusFound, expectedLocation: "/login?next=%2Fdashboard%2Fmy-leads"},
		{name: "user dashboard", path: "/dashboard", role: auth.RoleUser, expectedStatus: http.StatusOK},
		{name: "admin dashboard", path: "/dashboard", role: auth.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "anonymous unmatched path", path: "/somewhere/else", expectedStatus: http.StatusFound, expectedLocation: "/login?next=%2Fsomewhere%2Felse"},
		{name: "user unmatched path", path: "/somewhere/else", role: auth.RoleUser, expectedStatus: http.StatusOK},

		// admin subtree: user is redirected home, not to login
		{name: "anonymous admin", path: "/admin", expectedStatus: http.StatusFound, expectedLocation: "/login?next=%2Fadmin"},
		{name: "user admin", path: "/admin", role: auth.RoleUser, expectedStatus: http.StatusFound, expectedLocation: "/dashboard"},
		{name: "user nested admin", path: "/admin/credentials", role: auth.RoleUser, expectedStatus: http.StatusFound, expectedLocation: "/dashboard"},
		{name: "user dashboard admin area", path: "/dashboard/admin/reports", role: auth.RoleUser, expectedStatus: http.StatusFound, expectedLocation: "/dashboard"},
		{name: "admin admin", path: "/admin", role: auth.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "admin nested admin", path: "/admin/credentials", role: auth.RoleAdmin, expectedStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newGateTestEnv(t)
			rr := env.request(t, tc.path, tc.role)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
			assert.Equal(t, tc.expectedStatus == http.StatusOK, *env.nextServed)
		})
	}
}

func TestGate_InvalidTokensAreAnonymous(t *testing.T) {
	env := newGateTestEnv(t)

	for name, cookieValue := range map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"wrong secret": mintWithSecret(t, "other-secret"),
		"expired":      mintExpired(t),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/dashboard", nil)
			if cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookieValue})
			}
			rr := httptest.NewRecorder()
			env.handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, "/login?next=%2Fdashboard", rr.Header().Get("Location"))
		})
	}
}

func mintWithSecret(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.NewCodec([]byte(secret)).Mint("someone", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func mintExpired(t *testing.T) string {
	t.Helper()
	codec := auth.NewCodec([]byte("test-secret"))
	codec.NowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := codec.Mint("someone", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return token
}
