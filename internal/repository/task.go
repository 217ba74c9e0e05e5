package repository

import (
	"context"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

// TaskRepository persists tasks. Every method is scoped to a single owner.
type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	List(ctx context.Context, userID string) ([]model.Task, error)
	ListScheduled(ctx context.Context, userID string) ([]model.Task, error)
	ListDueBetween(ctx context.Context, userID string, after, until time.Time) ([]model.Task, error)
	Counts(ctx context.Context, userID string) (model.TaskCounts, error)
	CountByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error)
}
