package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer   = "wheelsweb"
	sessionAudience = "wheelsweb_app"

	DefaultSessionTTL = 8 * time.Hour
)

// ErrTokenInvalid covers every verification failure: bad signature, expired,
// wrong issuer/audience, malformed. Callers never learn which one it was.
var ErrTokenInvalid = errors.New("invalid session token")

// Session is the decoded, already-validated token payload. The role is
// trusted for the life of the token; role changes take effect on re-login.
type Session struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec mints and verifies compact signed session tokens. Stateless, no
// server-side session table.
type Codec struct {
	secret []byte
	// ability to inject the clock for unit testing of expiry handling
	NowFunc func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret:  secret,
		NowFunc: time.Now,
	}
}

func (c *Codec) Mint(subject string, role Role, ttl time.Duration) (string, error) {
	now := c.NowFunc()
	claims := &sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) Verify(tokenString string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.NowFunc),
	)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}

	session := &Session{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}
