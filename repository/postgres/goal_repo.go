package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/consistency/domain"
	"github.com/fastygo/consistency/repository"
)

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository returns a Postgres-backed implementation of GoalRepository.
func NewGoalRepository(pool *pgxpool.Pool) repository.GoalRepository {
	return &goalRepository{pool: pool}
}

func (r *goalRepository) List(ctx context.Context, filter repository.GoalFilter) ([]domain.DailyGoal, error) {
	const query = `
	SELECT id, user_id, title, emoji, completed, goal_date::text, created_at, updated_at
	FROM daily_goals
	WHERE ($1::text = '' OR goal_date = NULLIF($1::text, '')::date)
	  AND ($2::text = '' OR user_id = $2::text)
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, filter.GoalDate, filter.OwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.DailyGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.DailyGoal) (*domain.DailyGoal, error) {
	if goal == nil {
		return nil, domain.ErrInvalidPayload
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO daily_goals (id, user_id, title, emoji, completed, goal_date)
	VALUES ($1, $2, $3, $4, $5, $6::date)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Emoji,
		goal.Completed,
		goal.GoalDate,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, id string, patch domain.ItemPatch) error {
	const query = `
	UPDATE daily_goals
	SET title = COALESCE($2::text, title),
		emoji = COALESCE($3::text, emoji),
		completed = COALESCE($4::boolean, completed),
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, patch.Title, patch.Emoji, patch.Completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM daily_goals WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row scanner) (*domain.DailyGoal, error) {
	var goal domain.DailyGoal
	if err := row.Scan(
		&goal.ID,
		&goal.OwnerID,
		&goal.Title,
		&goal.Emoji,
		&goal.Completed,
		&goal.GoalDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}
