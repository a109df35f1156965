package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// PersonRepository is the person-directory slice this service consumes:
// identity lookup plus the credential update used by password changes.
type PersonRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type personRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository returns a Postgres-backed implementation.
func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &personRepository{pool: pool}
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	const query = `
        SELECT id, name, email, password_hash, profile_code, theme, created_at, updated_at
        FROM people WHERE id=$1`

	return r.scanPerson(r.pool.QueryRow(ctx, query, id))
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	const query = `
        SELECT id, name, email, password_hash, profile_code, theme, created_at, updated_at
        FROM people WHERE email=$1`

	return r.scanPerson(r.pool.QueryRow(ctx, query, email))
}

func (r *personRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE people SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personRepository) scanPerson(row pgx.Row) (*domain.Person, error) {
	var (
		person      domain.Person
		profileCode int
	)
	if err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Email,
		&person.PasswordHash,
		&profileCode,
		&person.Theme,
		&person.CreatedAt,
		&person.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile, err := domain.ProfileFromCode(profileCode)
	if err != nil {
		return nil, err
	}
	person.Profile = profile
	return &person, nil
}
