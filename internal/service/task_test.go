package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
)

func sampleTask() model.Task {
	due := now.Add(48 * time.Hour)
	high := model.PriorityHigh
	return model.Task{
		ID:          "task-1",
		UserID:      "user-1",
		Title:       "Pay bills",
		Description: "Electricity",
		DueDate:     &due,
		Priority:    &high,
		Status:      model.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTaskCreate(t *testing.T) {
	tests := []struct {
		name       string
		input      service.TaskInput
		repoErr    error
		wantErr    string
		wantField  string
		wantStatus model.TaskStatus
	}{
		{
			name:       "success",
			input:      service.TaskInput{Title: model.NullableOf("Pay bills"), Priority: model.NullableOf("H")},
			wantStatus: model.TaskStatusPending,
		},
		{
			name:       "completed forces completed status",
			input:      service.TaskInput{Title: model.NullableOf("Pay bills"), Completed: model.NullableOf(true)},
			wantStatus: model.TaskStatusCompleted,
		},
		{
			name:       "completed status without flag reverts to pending",
			input:      service.TaskInput{Title: model.NullableOf("Pay bills"), Status: model.NullableOf("completed")},
			wantStatus: model.TaskStatusPending,
		},
		{
			name:      "missing title",
			input:     service.TaskInput{},
			wantErr:   "invalid input",
			wantField: "title",
		},
		{
			name:      "blank title",
			input:     service.TaskInput{Title: model.NullableOf("   ")},
			wantErr:   "invalid input",
			wantField: "title",
		},
		{
			name:      "null title",
			input:     service.TaskInput{Title: model.Nullable[string]{Set: true}},
			wantErr:   "invalid input",
			wantField: "title",
		},
		{
			name:      "null completed",
			input:     service.TaskInput{Title: model.NullableOf("x"), Completed: model.Nullable[bool]{Set: true}},
			wantErr:   "invalid input",
			wantField: "completed",
		},
		{
			name:      "null status",
			input:     service.TaskInput{Title: model.NullableOf("x"), Status: model.Nullable[string]{Set: true}},
			wantErr:   "invalid input",
			wantField: "status",
		},
		{
			name:      "null description",
			input:     service.TaskInput{Title: model.NullableOf("x"), Description: model.Nullable[string]{Set: true}},
			wantErr:   "invalid input",
			wantField: "description",
		},
		{
			name:      "bad priority",
			input:     service.TaskInput{Title: model.NullableOf("x"), Priority: model.NullableOf("X")},
			wantErr:   "invalid input",
			wantField: "priority",
		},
		{
			name:      "bad status",
			input:     service.TaskInput{Title: model.NullableOf("x"), Status: model.NullableOf("done")},
			wantErr:   "invalid input",
			wantField: "status",
		},
		{
			name:      "bad due date",
			input:     service.TaskInput{Title: model.NullableOf("x"), DueDate: model.NullableOf("tomorrow")},
			wantErr:   "invalid input",
			wantField: "due_date",
		},
		{
			name:    "repo error",
			input:   service.TaskInput{Title: model.NullableOf("Pay bills")},
			repoErr: fmt.Errorf("db error"),
			wantErr: "failed to create task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTaskRepo{
				createFn: func(ctx context.Context, task model.Task) (model.Task, error) {
					if tt.repoErr != nil {
						return model.Task{}, tt.repoErr
					}
					if task.UserID != "user-1" {
						t.Errorf("expected owner user-1, got %q", task.UserID)
					}
					task.ID = "task-1"
					return task, nil
				},
			}
			svc := service.NewTaskService(repo, fixedClock)
			got, err := svc.Create(context.Background(), owner, tt.input)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !containsStr(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				if tt.wantField != "" {
					var verr *service.ValidationError
					if !errors.As(err, &verr) {
						t.Fatalf("expected ValidationError, got %T", err)
					}
					if _, ok := verr.Fields[tt.wantField]; !ok {
						t.Errorf("expected field %q in %v", tt.wantField, verr.Fields)
					}
					if !errors.Is(err, service.ErrInvalidInput) {
						t.Errorf("expected ErrInvalidInput")
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("expected status=%s, got %s", tt.wantStatus, got.Status)
			}
			if got.User != "alice" {
				t.Errorf("expected user=alice, got %q", got.User)
			}
		})
	}
}

func TestTaskCreateMissingTitleMessage(t *testing.T) {
	svc := service.NewTaskService(&mockTaskRepo{}, fixedClock)
	_, err := svc.Create(context.Background(), owner, service.TaskInput{})

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["title"] != "This field is required." {
		t.Errorf("unexpected message %q", verr.Fields["title"])
	}
}

func TestTaskCreateTrimsTitle(t *testing.T) {
	var stored string
	repo := &mockTaskRepo{
		createFn: func(ctx context.Context, task model.Task) (model.Task, error) {
			stored = task.Title
			return task, nil
		},
	}
	svc := service.NewTaskService(repo, fixedClock)

	got, err := svc.Create(context.Background(), owner, service.TaskInput{Title: model.NullableOf("  Pay bills \n")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != "Pay bills" || got.Title != "Pay bills" {
		t.Errorf("expected trimmed title, stored %q returned %q", stored, got.Title)
	}
}

func TestTaskUpdateRejectsNullTitle(t *testing.T) {
	repo := &mockTaskRepo{
		getByIDFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
			return sampleTask(), nil
		},
		updateFn: func(ctx context.Context, task model.Task) (model.Task, error) {
			t.Fatal("update must not run for invalid input")
			return task, nil
		},
	}
	svc := service.NewTaskService(repo, fixedClock)

	_, err := svc.Update(context.Background(), owner, "task-1", service.TaskInput{Title: model.Nullable[string]{Set: true}}, true)

	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["title"] != "This field may not be null." {
		t.Errorf("unexpected message %q", verr.Fields["title"])
	}
}

func TestTaskGetByID(t *testing.T) {
	tests := []struct {
		name    string
		repoFn  func(ctx context.Context, userID, taskID string) (model.Task, error)
		wantErr error
	}{
		{
			name: "success",
			repoFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return sampleTask(), nil
			},
		},
		{
			name: "not found",
			repoFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return model.Task{}, fmt.Errorf("failed to scan task: %w", sql.ErrNoRows)
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTaskRepo{getByIDFn: tt.repoFn}
			svc := service.NewTaskService(repo, fixedClock)
			got, err := svc.GetByID(context.Background(), owner, "task-1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != "task-1" {
				t.Errorf("expected id=task-1, got %s", got.ID)
			}
			if !got.IsUpcoming || got.IsOverdue {
				t.Errorf("expected upcoming and not overdue, got upcoming=%v overdue=%v", got.IsUpcoming, got.IsOverdue)
			}
			if got.PriorityDisplay != "High" || got.StatusDisplay != "Pending" {
				t.Errorf("unexpected labels %q %q", got.PriorityDisplay, got.StatusDisplay)
			}
		})
	}
}

func TestTaskUpdate(t *testing.T) {
	tests := []struct {
		name    string
		input   service.TaskInput
		partial bool
		getFn   func(ctx context.Context, userID, taskID string) (model.Task, error)
		wantErr string
		check   func(t *testing.T, got model.TaskView)
	}{
		{
			name:    "patch clears priority and due date",
			input:   service.TaskInput{Priority: model.Nullable[string]{Set: true}, DueDate: model.Nullable[string]{Set: true}},
			partial: true,
			getFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return sampleTask(), nil
			},
			check: func(t *testing.T, got model.TaskView) {
				if got.Priority != nil || got.DueDate != nil {
					t.Errorf("expected cleared priority and due date, got %v %v", got.Priority, got.DueDate)
				}
				if got.PriorityDisplay != "Unknown" {
					t.Errorf("expected Unknown, got %q", got.PriorityDisplay)
				}
				if got.Title != "Pay bills" {
					t.Errorf("expected title kept, got %q", got.Title)
				}
			},
		},
		{
			name:    "patch completed",
			input:   service.TaskInput{Completed: model.NullableOf(true)},
			partial: true,
			getFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return sampleTask(), nil
			},
			check: func(t *testing.T, got model.TaskView) {
				if got.Status != model.TaskStatusCompleted {
					t.Errorf("expected completed, got %s", got.Status)
				}
				if got.IsUpcoming {
					t.Errorf("completed task must not be upcoming")
				}
			},
		},
		{
			name:    "put requires title",
			input:   service.TaskInput{Description: model.NullableOf("x")},
			partial: false,
			getFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return sampleTask(), nil
			},
			wantErr: "invalid input",
		},
		{
			name:    "put keeps unsent fields",
			input:   service.TaskInput{Title: model.NullableOf("Renamed")},
			partial: false,
			getFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return sampleTask(), nil
			},
			check: func(t *testing.T, got model.TaskView) {
				if got.Title != "Renamed" || got.Description != "Electricity" {
					t.Errorf("unexpected task %+v", got.Task)
				}
			},
		},
		{
			name:    "not found",
			input:   service.TaskInput{Title: model.NullableOf("x")},
			partial: true,
			getFn: func(ctx context.Context, userID, taskID string) (model.Task, error) {
				return model.Task{}, fmt.Errorf("scan: %w", sql.ErrNoRows)
			},
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTaskRepo{
				getByIDFn: tt.getFn,
				updateFn: func(ctx context.Context, task model.Task) (model.Task, error) {
					return task, nil
				},
			}
			svc := service.NewTaskService(repo, fixedClock)
			got, err := svc.Update(context.Background(), owner, "task-1", tt.input, tt.partial)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !containsStr(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestTaskDelete(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"success", nil, nil},
		{"not found", sql.ErrNoRows, service.ErrNotFound},
		{"repo error", fmt.Errorf("db error"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTaskRepo{
				deleteFn: func(ctx context.Context, userID, taskID string) error {
					return tt.repoErr
				},
			}
			svc := service.NewTaskService(repo, fixedClock)
			err := svc.Delete(context.Background(), owner, "task-1")

			if tt.repoErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskList(t *testing.T) {
	repo := &mockTaskRepo{
		listFn: func(ctx context.Context, userID string) ([]model.Task, error) {
			if userID != "user-1" {
				t.Errorf("expected user-1, got %q", userID)
			}
			overdue := sampleTask()
			past := now.Add(-time.Hour)
			overdue.ID = "task-2"
			overdue.DueDate = &past
			return []model.Task{sampleTask(), overdue}, nil
		},
	}
	svc := service.NewTaskService(repo, fixedClock)

	got, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if !got[1].IsOverdue || got[1].IsUpcoming {
		t.Errorf("expected task-2 overdue")
	}
}
