package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wheelsweb/backend/pkg"
)

// ErrInvalidCredentials is returned for unknown user, role mismatch and
// wrong password alike. The single message is deliberate.
var ErrInvalidCredentials = errors.New("invalid username or password")

var _ SessionChecker = (*Service)(nil)

// SessionChecker is the requireSession primitive API handlers outside this
// package authorize with.
type SessionChecker interface {
	// RequireSession returns the verified session, or nil when there is
	// none or its role matches none of the given ones. No roles given
	// means any valid session passes.
	RequireSession(r *http.Request, roles ...Role) *Session
}

type Service struct {
	store   Store
	codec   *Codec
	cookies *Cookies
	ttl     time.Duration
}

func NewService(store Store, codec *Codec, cookies *Cookies, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		store:   store,
		codec:   codec,
		cookies: cookies,
		ttl:     ttl,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Cookies() *Cookies {
	return s.cookies
}

// Login validates the credentials against the role's stored row and mints a
// session token. Fails closed on store errors.
func (s *Service) Login(ctx context.Context, username, password string, role Role) (string, error) {
	cred, err := s.store.FindByUsername(ctx, role, username)
	if errors.Is(err, ErrCredentialNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("find credential: %w", err)
	}

	if !pkg.CheckPasswordHash(password, cred.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.codec.Mint(cred.Username, cred.Role, s.ttl)
	if err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	return token, nil
}

// SessionFromRequest reads and verifies the session cookie. Any failure,
// absent cookie included, yields nil: the request is anonymous.
func (s *Service) SessionFromRequest(r *http.Request) *Session {
	token := s.cookies.Read(r)
	if token == "" {
		return nil
	}
	session, err := s.codec.Verify(token)
	if err != nil {
		return nil
	}
	return session
}

func (s *Service) RequireSession(r *http.Request, roles ...Role) *Session {
	session := s.SessionFromRequest(r)
	if session == nil {
		return nil
	}
	if len(roles) == 0 {
		return session
	}
	for _, role := range roles {
		if session.Role == role {
			return session
		}
	}
	return nil
}

// SeedDefaultAdmin makes sure a first run has an admin to log in with.
// Insert-if-absent, safe against racing cold starts.
func (s *Service) SeedDefaultAdmin(ctx context.Context, username, password string) error {
	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	if err := s.store.SeedDefault(ctx, RoleAdmin, username, passwordHash); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}
	return nil
}
