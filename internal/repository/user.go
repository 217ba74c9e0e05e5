package repository

import (
	"context"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	First(ctx context.Context) (model.User, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}
