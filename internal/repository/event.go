package repository

import (
	"context"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

type EventRepository interface {
	Create(ctx context.Context, event model.Event) (model.Event, error)
	List(ctx context.Context, userID string) ([]model.Event, error)
}
