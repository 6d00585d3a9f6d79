package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_MintVerifyRoundtrip(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	token, err := codec.Mint("serj", RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "serj", session.Subject)
	assert.Equal(t, RoleAdmin, session.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	assert.WithinDuration(t, time.Now(), session.IssuedAt, 5*time.Second)
}

func TestCodec_Expired(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	token, err := codec.Mint("mia", RoleUser, time.Minute)
	require.NoError(t, err)

	// move the verification clock past the expiry
	codec.NowFunc = func() time.Time {
		return time.Now().Add(2 * time.Minute)
	}

	session, err := codec.Verify(token)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_VerifyAtMintTimeAfterClockSkew(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	// minted in the "future", then verified with the real clock: valid,
	// the window simply has not closed yet
	codec.NowFunc = func() time.Time {
		return time.Now().Add(time.Minute)
	}
	token, err := codec.Mint("mia", RoleUser, time.Hour)
	require.NoError(t, err)

	codec.NowFunc = time.Now
	session, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "mia", session.Subject)
}

func TestCodec_WrongSecret(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))
	otherCodec := NewCodec([]byte("other-secret"))

	token, err := codec.Mint("serj", RoleAdmin, time.Hour)
	require.NoError(t, err)

	session, err := otherCodec.Verify(token)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	for _, tokenString := range []string{
		"",
		"garbage",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9.e30.signature",
	} {
		session, err := codec.Verify(tokenString)
		assert.Nil(t, session, "token: %q", tokenString)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token: %q", tokenString)
	}
}

func TestCodec_ForeignIssuerOrAudienceRejected(t *testing.T) {
	secret := []byte("test-secret")
	codec := NewCodec(secret)

	mintForeign := func(issuer, audience string) string {
		claims := &sessionClaims{
			Role: RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Audience:  jwt.ClaimStrings{audience},
				Subject:   "serj",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return token
	}

	for name, token := range map[string]string{
		"wrong issuer":   mintForeign("other-app", sessionAudience),
		"wrong audience": mintForeign(sessionIssuer, "other-app"),
	} {
		session, err := codec.Verify(token)
		assert.Nil(t, session, name)
		assert.ErrorIs(t, err, ErrTokenInvalid, name)
	}
}

func TestCodec_EmptySubjectRejected(t *testing.T) {
	codec := NewCodec([]byte("test-secret"))

	token, err := codec.Mint("", RoleUser, time.Hour)
	require.NoError(t, err)

	session, err := codec.Verify(token)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
