package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/repository"
)

// UpcomingWindow is how far ahead the dashboard looks for due tasks.
const UpcomingWindow = 7 * 24 * time.Hour

// StatsService computes read-only aggregates over a user's tasks.
type StatsService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

func NewStatsService(repo repository.TaskRepository, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{repo: repo, now: now}
}

func (s *StatsService) Dashboard(ctx context.Context, owner model.User) (model.DashboardStats, error) {
	counts, err := s.repo.Counts(ctx, owner.ID)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	now := s.now()
	due, err := s.repo.ListDueBetween(ctx, owner.ID, now, now.Add(UpcomingWindow))
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}

	upcoming := make([]model.UpcomingTask, 0, len(due))
	for _, t := range due {
		upcoming = append(upcoming, model.UpcomingTask{
			ID:          t.ID,
			Title:       t.Title,
			DueDate:     t.DueDate,
			Description: t.Description,
		})
	}

	return model.DashboardStats{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Pending,
		Upcoming:  upcoming,
	}, nil
}

func (s *StatsService) Calendar(ctx context.Context, owner model.User) ([]model.CalendarEntry, error) {
	tasks, err := s.repo.ListScheduled(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled tasks: %w", err)
	}

	entries := make([]model.CalendarEntry, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		entries = append(entries, model.CalendarEntry{
			ID:        t.ID,
			Title:     t.Title,
			Start:     *t.DueDate,
			End:       *t.DueDate,
			Completed: t.Completed,
			Priority:  model.PriorityLabel(t.Priority),
			Status:    t.Status.Label(),
		})
	}
	return entries, nil
}

func (s *StatsService) Insights(ctx context.Context, owner model.User) (model.Insights, error) {
	rows, err := s.repo.CountByPriority(ctx, owner.ID)
	if err != nil {
		return model.Insights{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	data := make([]model.InsightEntry, 0, len(rows))
	for _, r := range rows {
		data = append(data, model.InsightEntry{
			Priority: model.PriorityLabel(r.Priority),
			Count:    r.Count,
		})
	}
	return model.Insights{Data: data}, nil
}

func (s *StatsService) TaskStats(ctx context.Context, owner model.User) (model.TaskStats, error) {
	counts, err := s.repo.Counts(ctx, owner.ID)
	if err != nil {
		return model.TaskStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	return model.TaskStats{
		HighPriority:   counts.High,
		MediumPriority: counts.Medium,
		LowPriority:    counts.Low,
		Completed:      counts.Completed,
		Pending:        counts.Pending,
	}, nil
}
