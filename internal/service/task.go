package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/repository"
)

const (
	msgRequired    = "This field is required."
	msgBlank       = "This field may not be blank."
	msgTooLong     = "Ensure this field has no more than 255 characters."
	msgNull        = "This field may not be null."
	msgBadDatetime = "Datetime has wrong format. Use RFC 3339, e.g. 2025-01-31T09:00:00Z."
	maxTitleLen    = 255
)

// TaskInput holds client-supplied task fields. An unset Nullable means the
// field was not sent. Only DueDate and Priority accept an explicit null.
type TaskInput struct {
	Title       model.Nullable[string]
	Description model.Nullable[string]
	DueDate     model.Nullable[string]
	Completed   model.Nullable[bool]
	Priority    model.Nullable[string]
	Status      model.Nullable[string]
}

type TaskService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo repository.TaskRepository, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{repo: repo, now: now}
}

func (s *TaskService) List(ctx context.Context, owner model.User) ([]model.TaskView, error) {
	tasks, err := s.repo.List(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := s.now()
	views := make([]model.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, model.NewTaskView(t, owner.Username, now))
	}
	return views, nil
}

func (s *TaskService) Create(ctx context.Context, owner model.User, input TaskInput) (model.TaskView, error) {
	task := model.Task{
		UserID: owner.ID,
		Status: model.TaskStatusPending,
	}
	if err := applyTaskInput(&task, input, true); err != nil {
		return model.TaskView{}, err
	}
	task.Normalize()

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.TaskView{}, fmt.Errorf("failed to create task: %w", err)
	}

	return model.NewTaskView(created, owner.Username, s.now()), nil
}

func (s *TaskService) GetByID(ctx context.Context, owner model.User, taskID string) (model.TaskView, error) {
	task, err := s.repo.GetByID(ctx, owner.ID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaskView{}, ErrNotFound
		}
		return model.TaskView{}, fmt.Errorf("failed to get task: %w", err)
	}
	return model.NewTaskView(task, owner.Username, s.now()), nil
}

// Update applies input to an owned task. A full (non-partial) update
// requires a title; fields that were not sent keep their stored values.
func (s *TaskService) Update(ctx context.Context, owner model.User, taskID string, input TaskInput, partial bool) (model.TaskView, error) {
	existing, err := s.repo.GetByID(ctx, owner.ID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaskView{}, ErrNotFound
		}
		return model.TaskView{}, fmt.Errorf("failed to get task for update: %w", err)
	}

	if err := applyTaskInput(&existing, input, !partial); err != nil {
		return model.TaskView{}, err
	}
	existing.UserID = owner.ID
	existing.Normalize()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaskView{}, ErrNotFound
		}
		return model.TaskView{}, fmt.Errorf("failed to update task: %w", err)
	}

	return model.NewTaskView(updated, owner.Username, s.now()), nil
}

func (s *TaskService) Delete(ctx context.Context, owner model.User, taskID string) error {
	err := s.repo.Delete(ctx, owner.ID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// applyTaskInput validates input and copies it onto t. Nothing is copied
// unless every field is valid.
func applyTaskInput(t *model.Task, input TaskInput, requireTitle bool) error {
	v := newValidator()
	next := *t

	switch {
	case !input.Title.Set:
		v.check(!requireTitle, "title", msgRequired)
	case input.Title.Value == nil:
		v.check(false, "title", msgNull)
	default:
		title := strings.TrimSpace(*input.Title.Value)
		v.check(title != "", "title", msgBlank)
		v.check(utf8.RuneCountInString(title) <= maxTitleLen, "title", msgTooLong)
		next.Title = title
	}

	if input.Description.Set {
		v.check(input.Description.Value != nil, "description", msgNull)
		if input.Description.Value != nil {
			next.Description = *input.Description.Value
		}
	}

	if input.DueDate.Set {
		if input.DueDate.Value == nil {
			next.DueDate = nil
		} else {
			due, err := time.Parse(time.RFC3339, *input.DueDate.Value)
			v.check(err == nil, "due_date", msgBadDatetime)
			if err == nil {
				next.DueDate = &due
			}
		}
	}

	if input.Completed.Set {
		v.check(input.Completed.Value != nil, "completed", msgNull)
		if input.Completed.Value != nil {
			next.Completed = *input.Completed.Value
		}
	}

	if input.Priority.Set {
		if input.Priority.Value == nil {
			next.Priority = nil
		} else {
			p := model.Priority(*input.Priority.Value)
			v.check(p.IsValid(), "priority", fmt.Sprintf("%q is not a valid choice.", *input.Priority.Value))
			next.Priority = &p
		}
	}

	if input.Status.Set {
		if input.Status.Value == nil {
			v.check(false, "status", msgNull)
		} else {
			st := model.TaskStatus(*input.Status.Value)
			v.check(st.IsValid(), "status", fmt.Sprintf("%q is not a valid choice.", *input.Status.Value))
			next.Status = st
		}
	}

	if err := v.err(); err != nil {
		return err
	}
	*t = next
	return nil
}
