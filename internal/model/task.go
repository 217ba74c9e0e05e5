package model

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var statusLabels = map[TaskStatus]string{
	TaskStatusPending:    "Pending",
	TaskStatusInProgress: "In Progress",
	TaskStatusCompleted:  "Completed",
}

func (s TaskStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable name, or "Unknown" for unrecognized values.
func (s TaskStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return UnknownLabel
}

type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
)

const UnknownLabel = "Unknown"

var priorityLabels = map[Priority]string{
	PriorityHigh:   "High",
	PriorityMedium: "Medium",
	PriorityLow:    "Low",
}

func (p Priority) IsValid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// PriorityLabel maps a nullable priority code to its label.
func PriorityLabel(p *Priority) string {
	if p == nil {
		return UnknownLabel
	}
	if l, ok := priorityLabels[*p]; ok {
		return l
	}
	return UnknownLabel
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
	Priority    *Priority  `json:"priority"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Normalize reconciles Status with Completed. Only the completed flag drives
// the reconciliation.
func (t *Task) Normalize() {
	if t.Completed && t.Status != TaskStatusCompleted {
		t.Status = TaskStatusCompleted
	} else if !t.Completed && t.Status == TaskStatusCompleted {
		t.Status = TaskStatusPending
	}
}

func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
}

func (t Task) IsUpcoming(now time.Time) bool {
	return t.DueDate != nil && !t.DueDate.Before(now) && !t.Completed
}

// TaskView is the serialized form of a Task, including derived fields.
type TaskView struct {
	Task
	PriorityDisplay string `json:"priority_display"`
	StatusDisplay   string `json:"status_display"`
	IsOverdue       bool   `json:"is_overdue"`
	IsUpcoming      bool   `json:"is_upcoming"`
	User            string `json:"user"`
}

func NewTaskView(t Task, owner string, now time.Time) TaskView {
	return TaskView{
		Task:            t,
		PriorityDisplay: PriorityLabel(t.Priority),
		StatusDisplay:   t.Status.Label(),
		IsOverdue:       t.IsOverdue(now),
		IsUpcoming:      t.IsUpcoming(now),
		User:            owner,
	}
}
