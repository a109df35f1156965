package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// ErrDuplicateProfile reports an insert that violated the one-policy-per-
// profile unique constraint. The constraint, not the in-process existence
// check, is the source of truth for uniqueness under concurrent creates.
var ErrDuplicateProfile = errors.New("policy already exists for profile")

const uniqueViolationCode = "23505"

// PolicyRepository persists token-lifetime policies for non-root profiles.
// There is no delete: policies are created once and updated in place.
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.TokenLifetimePolicy) error
	Update(ctx context.Context, policy *domain.TokenLifetimePolicy) error
	GetByProfile(ctx context.Context, profile domain.Profile) (*domain.TokenLifetimePolicy, error)
	List(ctx context.Context) ([]domain.TokenLifetimePolicy, error)
	ExistsByProfile(ctx context.Context, profile domain.Profile) (bool, error)
}

type policyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository returns a Postgres-backed implementation.
func NewPolicyRepository(pool *pgxpool.Pool) PolicyRepository {
	return &policyRepository{pool: pool}
}

func (r *policyRepository) Create(ctx context.Context, policy *domain.TokenLifetimePolicy) error {
	const query = `
        INSERT INTO token_lifetime_policies
            (profile_code, token_expiration_min, warn_before_expiry_min, warning_dialog_min, refresh_interval_min)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		policy.Profile.Code(),
		policy.TokenExpirationMin,
		policy.WarnBeforeExpiryMin,
		policy.WarningDialogMin,
		policy.RefreshIntervalMin,
	).Scan(&policy.CreatedAt, &policy.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateProfile
		}
		return err
	}
	return nil
}

func (r *policyRepository) Update(ctx context.Context, policy *domain.TokenLifetimePolicy) error {
	const query = `
        UPDATE token_lifetime_policies
        SET token_expiration_min=$1, warn_before_expiry_min=$2, warning_dialog_min=$3,
            refresh_interval_min=$4, updated_at=NOW()
        WHERE profile_code=$5`

	cmd, err := r.pool.Exec(ctx, query,
		policy.TokenExpirationMin,
		policy.WarnBeforeExpiryMin,
		policy.WarningDialogMin,
		policy.RefreshIntervalMin,
		policy.Profile.Code(),
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *policyRepository) GetByProfile(ctx context.Context, profile domain.Profile) (*domain.TokenLifetimePolicy, error) {
	const query = `
        SELECT profile_code, token_expiration_min, warn_before_expiry_min, warning_dialog_min,
               refresh_interval_min, created_at, updated_at
        FROM token_lifetime_policies WHERE profile_code=$1`

	return scanPolicy(r.pool.QueryRow(ctx, query, profile.Code()))
}

func (r *policyRepository) List(ctx context.Context) ([]domain.TokenLifetimePolicy, error) {
	const query = `
        SELECT profile_code, token_expiration_min, warn_before_expiry_min, warning_dialog_min,
               refresh_interval_min, created_at, updated_at
        FROM token_lifetime_policies ORDER BY profile_code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []domain.TokenLifetimePolicy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *policy)
	}
	return policies, rows.Err()
}

func (r *policyRepository) ExistsByProfile(ctx context.Context, profile domain.Profile) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM token_lifetime_policies WHERE profile_code=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, profile.Code()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanPolicy(row pgx.Row) (*domain.TokenLifetimePolicy, error) {
	var (
		policy      domain.TokenLifetimePolicy
		profileCode int
	)
	if err := row.Scan(
		&profileCode,
		&policy.TokenExpirationMin,
		&policy.WarnBeforeExpiryMin,
		&policy.WarningDialogMin,
		&policy.RefreshIntervalMin,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile, err := domain.ProfileFromCode(profileCode)
	if err != nil {
		return nil, err
	}
	policy.Profile = profile
	return &policy, nil
}
