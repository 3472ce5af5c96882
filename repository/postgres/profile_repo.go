package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Profile, error) {
	const query = `
		SELECT id, user_id, display_name, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	return scanProfile(r.pool.QueryRow(ctx, query, ownerID))
}

func (r *profileRepository) ListByOwnerIDs(ctx context.Context, ownerIDs []string) ([]domain.Profile, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	const query = `
		SELECT id, user_id, display_name, created_at, updated_at
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ownerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var profile domain.Profile
	if err := row.Scan(&profile.ID, &profile.OwnerID, &profile.DisplayName, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
