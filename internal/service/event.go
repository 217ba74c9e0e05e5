package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jaekwang-park/smarttasker-api/internal/model"
	"github.com/jaekwang-park/smarttasker-api/internal/repository"
)

type EventInput struct {
	Title       *string
	Description *string
	Start       *string
	End         *string
	AllDay      *bool
}

type EventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) *EventService {
	return &EventService{repo: repo}
}

func (s *EventService) List(ctx context.Context, owner model.User) ([]model.EventView, error) {
	events, err := s.repo.List(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	views := make([]model.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, model.EventView{Event: e, User: owner.Username})
	}
	return views, nil
}

// Create stores a new event for owner. Start and end are not cross-checked.
func (s *EventService) Create(ctx context.Context, owner model.User, input EventInput) (model.EventView, error) {
	v := newValidator()
	event := model.Event{UserID: owner.ID}

	if input.Title == nil {
		v.check(false, "title", msgRequired)
	} else {
		title := strings.TrimSpace(*input.Title)
		v.check(title != "", "title", msgBlank)
		v.check(utf8.RuneCountInString(title) <= maxTitleLen, "title", msgTooLong)
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	event.Start = parseRequiredTime(v, "start", input.Start)
	event.End = parseRequiredTime(v, "end", input.End)
	if input.AllDay != nil {
		event.AllDay = *input.AllDay
	}

	if err := v.err(); err != nil {
		return model.EventView{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return model.EventView{}, fmt.Errorf("failed to create event: %w", err)
	}
	return model.EventView{Event: created, User: owner.Username}, nil
}

func parseRequiredTime(v *validator, key string, raw *string) time.Time {
	if raw == nil {
		v.check(false, key, msgRequired)
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *raw)
	v.check(err == nil, key, msgBadDatetime)
	return t
}
