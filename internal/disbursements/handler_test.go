package disbursements

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wheelsweb/backend/internal/auth"
	"github.com/wheelsweb/backend/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m)
}

type handlerTestEnv struct {
	router *mux.Router
	api    *TestApi
	codec  *auth.Codec
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	api := NewTestApi()
	codec := auth.NewCodec([]byte("test-secret"))
	service := auth.NewService(auth.NewTestStore(), codec, auth.NewCookies(false), time.Hour)

	router := mux.NewRouter()
	NewHandler(api, service, metrics.NewTestManager()).SetupRoutes(router)

	return &handlerTestEnv{
		router: router,
		api:    api,
		codec:  codec,
	}
}

func (env *handlerTestEnv) sessionCookie(t *testing.T, role auth.Role) *http.Cookie {
	t.Helper()
	token, err := env.codec.Mint("someone", role, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

func (env *handlerTestEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, path, nil)
	}
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func TestDisbursementsHandler_Unauthorized(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/api/disbursements", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error":"unauthorized"}`, strings.TrimSpace(rr.Body.String()))

	rr = env.do(t, "POST", "/api/disbursements", `{"loanId":"202600001","name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDisbursementsHandler_AddAndGet(t *testing.T) {
	env := newHandlerTestEnv(t)
	cookie := env.sessionCookie(t, auth.RoleUser)

	rr := env.do(t, "POST", "/api/disbursements",
		`{"loanId":"202600007","name":"Ramesh K","totalLoanAmount":"450000","netLoanAmount":"432000","utr":"UTR123"}`,
		cookie,
	)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added Disbursement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, "202600007", added.LoanID)
	assert.Equal(t, "202600007", added.ID)

	rr = env.do(t, "GET", "/api/disbursements/202600007", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched Disbursement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, "450000", fetched.TotalLoanAmount)
	assert.Equal(t, "UTR123", fetched.Utr)
}

func TestDisbursementsHandler_AddValidation(t *testing.T) {
	env := newHandlerTestEnv(t)
	cookie := env.sessionCookie(t, auth.RoleAdmin)

	rr := env.do(t, "POST", "/api/disbursements", `{"name":"no loan id"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/api/disbursements", `{"loanId":"202600001"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDisbursementsHandler_ListAndCount(t *testing.T) {
	env := newHandlerTestEnv(t)
	cookie := env.sessionCookie(t, auth.RoleUser)

	ctx := context.Background()
	for _, loanID := range []string{"202600001", "202600002"} {
		_, err := env.api.Add(ctx, &Disbursement{LoanID: loanID, Name: "n " + loanID})
		require.NoError(t, err)
	}

	rr := env.do(t, "GET", "/api/disbursements", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var listResponse struct {
		Disbursements []Disbursement `json:"disbursements"`
		Total         int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResponse))
	assert.Equal(t, 2, listResponse.Total)
	require.Len(t, listResponse.Disbursements, 2)
	assert.Equal(t, "202600002", listResponse.Disbursements[0].LoanID)

	rr = env.do(t, "GET", "/api/disbursements/count", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count": 2}`, rr.Body.String())
}

func TestDisbursementsHandler_UpdateAndDelete(t *testing.T) {
	env := newHandlerTestEnv(t)
	cookie := env.sessionCookie(t, auth.RoleUser)

	ctx := context.Background()
	_, err := env.api.Add(ctx, &Disbursement{LoanID: "202600009", Name: "before"})
	require.NoError(t, err)

	rr := env.do(t, "PUT", "/api/disbursements/202600009", `{"name":"after","rcCardStatus":"received"}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	updated, err := env.api.Get(ctx, "202600009")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, "received", updated.RcCardStatus)

	rr = env.do(t, "PUT", "/api/disbursements/nosuch", `{"name":"x"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, "DELETE", "/api/disbursements/202600009", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = env.api.Get(ctx, "202600009")
	assert.ErrorIs(t, err, ErrDisbursementNotFound)
}
