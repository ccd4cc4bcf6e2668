package repo

import (
	"context"
	"errors"

	dom "Tasker/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the id and owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// TaskRepo persists tasks. Every method is scoped to the owner passed as userID;
// a task owned by someone else behaves exactly like a missing one.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id string) (dom.Task, error)
	List(ctx context.Context, userID string) ([]dom.Task, error)
	Update(ctx context.Context, userID, id string, patch dom.TaskPatch) (dom.Task, error)
	Delete(ctx context.Context, userID, id string) (dom.Task, error)
	SetRating(ctx context.Context, userID, id string, rating int) (dom.Task, error)

	Count(ctx context.Context, userID string) (int64, error)
	CountByStatus(ctx context.Context, userID string) ([]dom.StatusCount, error)
	RatingsByStatus(ctx context.Context, userID string) ([]dom.RatingSum, error)
}

// UserRepo provides user persistence.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	Create(ctx context.Context, username, passwordHash string) (dom.User, error)
}
