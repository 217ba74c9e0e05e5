package model

import "time"

type TaskCounts struct {
	Total     int
	Completed int
	Pending   int
	High      int
	Medium    int
	Low       int
}

type UpcomingTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date"`
	Description string     `json:"description"`
}

type DashboardStats struct {
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Pending   int            `json:"pending"`
	Upcoming  []UpcomingTask `json:"upcoming"`
}

type CalendarEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Completed bool      `json:"completed"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
}

// PriorityCount is one row of a GROUP BY priority aggregate. Priority is nil
// for tasks without a priority.
type PriorityCount struct {
	Priority *Priority
	Count    int
}

type InsightEntry struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

type Insights struct {
	Data []InsightEntry `json:"data"`
}

type TaskStats struct {
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
}
