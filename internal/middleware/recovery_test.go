package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wheelsweb/backend/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/leads", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler := PanicRecovery(metrics.NewTestManager())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oops")
	}))

	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
