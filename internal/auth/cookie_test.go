package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookies_AttachReadRoundtrip(t *testing.T) {
	cookies := NewCookies(false)
	codec := NewCodec([]byte("test-secret"))

	token, err := codec.Mint("serj", RoleUser, time.Hour)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	cookies.Attach(rr, token, time.Hour)

	setCookies := rr.Result().Cookies()
	require.Len(t, setCookies, 1)
	cookie := setCookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	// carry the cookie into the next request, the minted session survives
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	session, err := codec.Verify(cookies.Read(req))
	require.NoError(t, err)
	assert.Equal(t, "serj", session.Subject)
	assert.Equal(t, RoleUser, session.Role)
}

func TestCookies_SecureInProduction(t *testing.T) {
	cookies := NewCookies(true)

	rr := httptest.NewRecorder()
	cookies.Attach(rr, "token", time.Hour)

	setCookies := rr.Result().Cookies()
	require.Len(t, setCookies, 1)
	assert.True(t, setCookies[0].Secure)
}

func TestCookies_Clear(t *testing.T) {
	cookies := NewCookies(false)

	rr := httptest.NewRecorder()
	cookies.Clear(rr)

	setCookies := rr.Result().Cookies()
	require.Len(t, setCookies, 1)
	cookie := setCookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.MaxAge < 0)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestCookies_ReadAbsent(t *testing.T) {
	cookies := NewCookies(false)
	req := httptest.NewRequest("GET", "/dashboard", nil)
	assert.Empty(t, cookies.Read(req))
}
