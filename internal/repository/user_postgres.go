package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

const userColumns = `id, username, email, password_hash, is_active, last_login, created_at, updated_at`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), user.Username, user.Email, user.PasswordHash, user.IsActive,
	)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	if !isUUID(id) {
		return model.User{}, sql.ErrNoRows
	}
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

// First returns the earliest-created user.
func (r *PostgresUserRepository) First(ctx context.Context) (model.User, error) {
	return r.getOne(ctx, `ORDER BY created_at ASC, id ASC LIMIT 1`)
}

func (r *PostgresUserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	return r.execOne(ctx, query, passwordHash, id)
}

func (r *PostgresUserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	return r.execOne(ctx, query, at, id)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, clause string, args ...any) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + clause
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanUser(row scannable) (model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
