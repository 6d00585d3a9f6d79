package auth

import (
	"context"
	"errors"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmptyPatch         = errors.New("no credential fields to update")
)

var _ Store = (*Repo)(nil)
var _ Store = (*TestStore)(nil)

// Store persists exactly one credential row per role. Password values given
// to it are already hashed by the caller.
type Store interface {
	GetAll(ctx context.Context) ([]Credential, error)
	GetByRole(ctx context.Context, role Role) (*Credential, error)
	// FindByUsername is role-scoped: identical usernames under different
	// roles never collide.
	FindByUsername(ctx context.Context, role Role, username string) (*Credential, error)
	Upsert(ctx context.Context, role Role, username, passwordHash string) error
	// Update applies only the provided fields. An empty patch fails with
	// ErrEmptyPatch. If the role row does not exist yet, both fields are
	// required and an upsert is performed.
	Update(ctx context.Context, role Role, patch CredentialPatch) error
	// SeedDefault inserts the credential only if the role has none yet.
	// Idempotent across racing cold starts.
	SeedDefault(ctx context.Context, role Role, username, passwordHash string) error
}
