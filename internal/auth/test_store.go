package auth

import (
	"context"
	"sync"
)

// TestStore is an in-memory Store used by unit tests.
type TestStore struct {
	mutex       sync.Mutex
	credentials map[Role]*Credential
	nextID      int
}

func NewTestStore() *TestStore {
	return &TestStore{
		credentials: make(map[Role]*Credential),
		nextID:      1,
	}
}

func (s *TestStore) GetAll(_ context.Context) ([]Credential, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var all []Credential
	for _, role := range []Role{RoleAdmin, RoleUser} {
		if c, ok := s.credentials[role]; ok {
			all = append(all, *c)
		}
	}
	return all, nil
}

func (s *TestStore) GetByRole(_ context.Context, role Role) (*Credential, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.credentials[role]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *TestStore) FindByUsername(_ context.Context, role Role, username string) (*Credential, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.credentials[role]
	if !ok || c.Username != username {
		return nil, ErrCredentialNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *TestStore) Upsert(_ context.Context, role Role, username, passwordHash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.upsertLocked(role, username, passwordHash)
	return nil
}

func (s *TestStore) Update(_ context.Context, role Role, patch CredentialPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.credentials[role]
	if !ok {
		if patch.Username == nil || patch.Password == nil {
			return ErrCredentialNotFound
		}
		s.upsertLocked(role, *patch.Username, *patch.Password)
		return nil
	}

	if patch.Username != nil {
		c.Username = *patch.Username
	}
	if patch.Password != nil {
		c.Password = *patch.Password
	}
	return nil
}

func (s *TestStore) SeedDefault(_ context.Context, role Role, username, passwordHash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.credentials[role]; ok {
		return nil
	}
	s.upsertLocked(role, username, passwordHash)
	return nil
}

func (s *TestStore) upsertLocked(role Role, username, passwordHash string) {
	if c, ok := s.credentials[role]; ok {
		c.Username = username
		c.Password = passwordHash
		return
	}
	s.credentials[role] = &Credential{
		ID:       s.nextID,
		Role:     role,
		Username: username,
		Password: passwordHash,
	}
	s.nextID++
}
