package service_test

import (
	"context"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/mail"
	"github.com/jaekwang-park/smarttasker-api/internal/model"
)

// mockTaskRepo implements repository.TaskRepository for testing
type mockTaskRepo struct {
	createFn          func(ctx context.Context, task model.Task) (model.Task, error)
	getByIDFn         func(ctx context.Context, userID, taskID string) (model.Task, error)
	updateFn          func(ctx context.Context, task model.Task) (model.Task, error)
	deleteFn          func(ctx context.Context, userID, taskID string) error
	listFn            func(ctx context.Context, userID string) ([]model.Task, error)
	listScheduledFn   func(ctx context.Context, userID string) ([]model.Task, error)
	listDueBetweenFn  func(ctx context.Context, userID string, after, until time.Time) ([]model.Task, error)
	countsFn          func(ctx context.Context, userID string) (model.TaskCounts, error)
	countByPriorityFn func(ctx context.Context, userID string) ([]model.PriorityCount, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	return m.createFn(ctx, task)
}
func (m *mockTaskRepo) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	return m.getByIDFn(ctx, userID, taskID)
}
func (m *mockTaskRepo) Update(ctx context.Context, task model.Task) (model.Task, error) {
	return m.updateFn(ctx, task)
}
func (m *mockTaskRepo) Delete(ctx context.Context, userID, taskID string) error {
	return m.deleteFn(ctx, userID, taskID)
}
func (m *mockTaskRepo) List(ctx context.Context, userID string) ([]model.Task, error) {
	return m.listFn(ctx, userID)
}
func (m *mockTaskRepo) ListScheduled(ctx context.Context, userID string) ([]model.Task, error) {
	return m.listScheduledFn(ctx, userID)
}
func (m *mockTaskRepo) ListDueBetween(ctx context.Context, userID string, after, until time.Time) ([]model.Task, error) {
	return m.listDueBetweenFn(ctx, userID, after, until)
}
func (m *mockTaskRepo) Counts(ctx context.Context, userID string) (model.TaskCounts, error) {
	return m.countsFn(ctx, userID)
}
func (m *mockTaskRepo) CountByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error) {
	return m.countByPriorityFn(ctx, userID)
}

type mockEventRepo struct {
	createFn func(ctx context.Context, event model.Event) (model.Event, error)
	listFn   func(ctx context.Context, userID string) ([]model.Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, event model.Event) (model.Event, error) {
	return m.createFn(ctx, event)
}
func (m *mockEventRepo) List(ctx context.Context, userID string) ([]model.Event, error) {
	return m.listFn(ctx, userID)
}

type mockUserRepo struct {
	createFn        func(ctx context.Context, user model.User) (model.User, error)
	getByIDFn       func(ctx context.Context, id string) (model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (model.User, error)
	firstFn         func(ctx context.Context) (model.User, error)
	setPasswordFn   func(ctx context.Context, id, passwordHash string) error
	setLastLoginFn  func(ctx context.Context, id string, at time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return m.getByUsernameFn(ctx, username)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockUserRepo) First(ctx context.Context) (model.User, error) {
	return m.firstFn(ctx)
}
func (m *mockUserRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	return m.setPasswordFn(ctx, id, passwordHash)
}
func (m *mockUserRepo) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.setLastLoginFn(ctx, id, at)
}

type mockSender struct {
	sent    []mail.Message
	sendErr error
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

var owner = model.User{ID: "user-1", Username: "alice", Email: "alice@example.com", IsActive: true}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func containsStr(s, substr string) bool {
	return len(s) >= len(substr) && searchStr(s, substr)
}

func searchStr(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
