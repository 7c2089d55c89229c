package dto

import (
	"encoding/json"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"
)

type CreateTaskRequest struct {
	ListID       string              `json:"listId" validate:"required"`
	Title        string              `json:"title" validate:"notblank"`
	Description  string              `json:"description,omitempty"`
	DueDate      *time.Time          `json:"dueDate,omitempty"`
	Priority     model.Priority      `json:"priority,omitempty" validate:"omitempty,min=1,max=3"`
	ReminderTime *time.Time          `json:"reminderTime,omitempty"`
	ReminderType *model.ReminderType `json:"reminderType,omitempty" validate:"omitempty,oneof=push email"`
}

// UpdateTaskRequest carries a partial update. Only present fields are sent;
// a null DueDate or ReminderTime clears the stored value.
type UpdateTaskRequest struct {
	Title        Field[string]             `json:"title"`
	Description  Field[string]             `json:"description"`
	Status       Field[model.TaskStatus]   `json:"status"`
	DueDate      Field[time.Time]          `json:"dueDate"`
	Priority     Field[model.Priority]     `json:"priority"`
	ReminderTime Field[time.Time]          `json:"reminderTime"`
	ReminderType Field[model.ReminderType] `json:"reminderType"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateTaskRequest) Empty() bool {
	return !r.Title.Present() &&
		!r.Description.Present() &&
		!r.Status.Present() &&
		!r.DueDate.Present() &&
		!r.Priority.Present() &&
		!r.ReminderTime.Present() &&
		!r.ReminderType.Present()
}

// ReschedulesOneSide reports whether the update gives a value to exactly one
// of DueDate and ReminderTime and leaves the other as stored.
func (r UpdateTaskRequest) ReschedulesOneSide() bool {
	_, dueSet := r.DueDate.Get()
	_, reminderSet := r.ReminderTime.Get()
	if dueSet {
		return !r.ReminderTime.Present()
	}
	return reminderSet && !r.DueDate.Present()
}

func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	payload := make(map[string]json.Marshaler, 7)
	put := func(key string, present bool, m json.Marshaler) {
		if present {
			payload[key] = m
		}
	}
	put("title", r.Title.Present(), r.Title)
	put("description", r.Description.Present(), r.Description)
	put("status", r.Status.Present(), r.Status)
	put("dueDate", r.DueDate.Present(), r.DueDate)
	put("priority", r.Priority.Present(), r.Priority)
	put("reminderTime", r.ReminderTime.Present(), r.ReminderTime)
	put("reminderType", r.ReminderType.Present(), r.ReminderType)
	return json.Marshal(payload)
}
