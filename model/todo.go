package model

import "time"

type TaskStatus string
type Priority int
type ReminderType string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"

	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3

	ReminderPush  ReminderType = "push"
	ReminderEmail ReminderType = "email"
)

// Statuses lists every status in display order.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

func (t ReminderType) Valid() bool {
	return t == ReminderPush || t == ReminderEmail
}

type Task struct {
	TaskID      string     `json:"_id"`
	ListID      string     `json:"listId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Reminder    *Reminder  `json:"reminder,omitempty"`
}

// Reminder is a stored notification request. Delivery happens elsewhere.
type Reminder struct {
	ReminderID   string       `json:"_id"`
	TaskID       string       `json:"taskId"`
	ReminderTime time.Time    `json:"reminderTime"`
	Type         ReminderType `json:"type"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Overdue reports whether an open task is past its due date at now.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == StatusCompleted || t.Status == StatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}
