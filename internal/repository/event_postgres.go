package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEvent(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Create(ctx context.Context, event model.Event) (model.Event, error) {
	query := `
		INSERT INTO events (id, user_id, title, description, start_at, end_at, all_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, title, description, start_at, end_at, all_day`

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), event.UserID, event.Title, event.Description,
		event.Start, event.End, event.AllDay,
	)

	return scanEvent(row)
}

func (r *PostgresEventRepository) List(ctx context.Context, userID string) ([]model.Event, error) {
	query := `
		SELECT id, user_id, title, description, start_at, end_at, all_day
		FROM events
		WHERE user_id = $1
		ORDER BY start_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(row scannable) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Start, &e.End, &e.AllDay)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	return e, nil
}

var _ EventRepository = (*PostgresEventRepository)(nil)
