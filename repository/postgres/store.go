package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/consistency/repository"
)

// NewStore wires every collection onto one pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Profiles:   NewProfileRepository(pool),
		Categories: NewCategoryRepository(pool),
		Goals:      NewGoalRepository(pool),
		Tasks:      NewTaskRepository(pool),
	}
}
