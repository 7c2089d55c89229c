package model

// TaskStats summarizes a task snapshot for display.
type TaskStats struct {
	// Basic counts
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`

	// Priority based counts
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`

	// Time based counts
	Overdue       int `json:"overdue"`
	DueToday      int `json:"due_today"`
	Upcoming      int `json:"upcoming"` // Due in next 7 days
	WithReminders int `json:"with_reminders"`
}
