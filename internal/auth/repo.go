package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetAll(ctx context.Context) ([]Credential, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, role, username, password FROM credentials ORDER BY role;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.Role, &c.Username, &c.Password); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		credentials = append(credentials, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *Repo) GetByRole(ctx context.Context, role Role) (*Credential, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, role, username, password FROM credentials WHERE role = $1 LIMIT 1;`,
		role,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrCredentialNotFound
	}

	var c Credential
	if err := rows.Scan(&c.ID, &c.Role, &c.Username, &c.Password); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &c, nil
}

func (r *Repo) FindByUsername(ctx context.Context, role Role, username string) (*Credential, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, role, username, password FROM credentials WHERE role = $1 AND username = $2 LIMIT 1;`,
		role, username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrCredentialNotFound
	}

	var c Credential
	if err := rows.Scan(&c.ID, &c.Role, &c.Username, &c.Password); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &c, nil
}

func (r *Repo) Upsert(ctx context.Context, role Role, username, passwordHash string) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO credentials (role, username, password)
			VALUES ($1, $2, $3)
			ON CONFLICT (role)
			DO UPDATE SET username = EXCLUDED.username, password = EXCLUDED.password;`,
		role, username, passwordHash,
	)
	return err
}

func (r *Repo) Update(ctx context.Context, role Role, patch CredentialPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}

	var tagRowsAffected int64
	switch {
	case patch.Username != nil && patch.Password != nil:
		tag, err := r.db.Exec(
			ctx,
			`UPDATE credentials SET username = $1, password = $2 WHERE role = $3;`,
			*patch.Username, *patch.Password, role,
		)
		if err != nil {
			return err
		}
		tagRowsAffected = tag.RowsAffected()
	case patch.Username != nil:
		tag, err := r.db.Exec(
			ctx,
			`UPDATE credentials SET username = $1 WHERE role = $2;`,
			*patch.Username, role,
		)
		if err != nil {
			return err
		}
		tagRowsAffected = tag.RowsAffected()
	default:
		tag, err := r.db.Exec(
			ctx,
			`UPDATE credentials SET password = $1 WHERE role = $2;`,
			*patch.Password, role,
		)
		if err != nil {
			return err
		}
		tagRowsAffected = tag.RowsAffected()
	}

	if tagRowsAffected > 0 {
		return nil
	}

	// no row for this role yet, an initial insert needs both fields
	if patch.Username == nil || patch.Password == nil {
		return ErrCredentialNotFound
	}
	return r.Upsert(ctx, role, *patch.Username, *patch.Password)
}

func (r *Repo) SeedDefault(ctx context.Context, role Role, username, passwordHash string) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO credentials (role, username, password)
			VALUES ($1, $2, $3)
			ON CONFLICT (role) DO NOTHING;`,
		role, username, passwordHash,
	)
	return err
}
