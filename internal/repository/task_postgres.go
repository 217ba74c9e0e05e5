package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

const taskColumns = `id, user_id, title, description, due_date, completed, priority, status, created_at, updated_at`

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, due_date, completed, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), task.UserID, task.Title, task.Description,
		nullTime(task.DueDate), task.Completed, nullPriority(task.Priority), task.Status,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	if !isUUID(taskID) {
		return model.Task{}, sql.ErrNoRows
	}

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, taskID, userID)
	return scanTask(row)
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, completed = $4,
		    priority = $5, status = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, nullTime(task.DueDate), task.Completed,
		nullPriority(task.Priority), task.Status, task.ID, task.UserID,
	)

	return scanTask(row)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if !isUUID(taskID) {
		return sql.ErrNoRows
	}

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

func (r *PostgresTaskRepository) List(ctx context.Context, userID string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryTasks(ctx, query, userID)
}

// ListScheduled returns the owner's tasks that have a due date.
func (r *PostgresTaskRepository) ListScheduled(ctx context.Context, userID string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND due_date IS NOT NULL
		ORDER BY created_at DESC`

	return r.queryTasks(ctx, query, userID)
}

// ListDueBetween returns non-completed tasks with after < due_date <= until.
func (r *PostgresTaskRepository) ListDueBetween(ctx context.Context, userID string, after, until time.Time) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		  AND due_date > $2 AND due_date <= $3
		  AND status <> 'completed'
		ORDER BY created_at DESC`

	return r.queryTasks(ctx, query, userID, after, until)
}

func (r *PostgresTaskRepository) Counts(ctx context.Context, userID string) (model.TaskCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status <> 'completed'),
			COUNT(*) FILTER (WHERE priority = 'H'),
			COUNT(*) FILTER (WHERE priority = 'M'),
			COUNT(*) FILTER (WHERE priority = 'L')
		FROM tasks
		WHERE user_id = $1`

	var c model.TaskCounts
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&c.Total, &c.Completed, &c.Pending, &c.High, &c.Medium, &c.Low,
	)
	if err != nil {
		return model.TaskCounts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	return c, nil
}

func (r *PostgresTaskRepository) CountByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error) {
	query := `
		SELECT priority, COUNT(*)
		FROM tasks
		WHERE user_id = $1
		GROUP BY priority
		ORDER BY priority NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}
	defer rows.Close()

	counts := []model.PriorityCount{}
	for rows.Next() {
		var (
			priority sql.NullString
			pc       model.PriorityCount
		)
		if err := rows.Scan(&priority, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		if priority.Valid {
			p := model.Priority(priority.String)
			pc.Priority = &p
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate priority counts: %w", err)
	}

	return counts, nil
}

func (r *PostgresTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row scannable) (model.Task, error) {
	var (
		t        model.Task
		dueDate  sql.NullTime
		priority sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &dueDate,
		&t.Completed, &priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if priority.Valid {
		p := model.Priority(priority.String)
		t.Priority = &p
	}
	return t, nil
}

// isUUID guards id columns so malformed path ids read as missing rows rather
// than driver errors.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullPriority(p *model.Priority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

// ensure compile-time interface compliance
var _ TaskRepository = (*PostgresTaskRepository)(nil)
