package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskRequestMarshal(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  UpdateTaskRequest
		want string
	}{
		{
			name: "status only",
			req:  UpdateTaskRequest{Status: Set(model.StatusCompleted)},
			want: `{"status":"completed"}`,
		},
		{
			name: "clear due date and reminder",
			req: UpdateTaskRequest{
				DueDate:      Null[time.Time](),
				ReminderTime: Null[time.Time](),
			},
			want: `{"dueDate":null,"reminderTime":null}`,
		},
		{
			name: "set due date and priority",
			req: UpdateTaskRequest{
				DueDate:  Set(due),
				Priority: Set(model.PriorityHigh),
			},
			want: `{"dueDate":"2026-03-01T09:00:00Z","priority":3}`,
		},
		{
			name: "empty",
			req:  UpdateTaskRequest{},
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.req)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUpdateTaskRequestEmpty(t *testing.T) {
	assert.True(t, UpdateTaskRequest{}.Empty())
	assert.False(t, UpdateTaskRequest{Description: Null[string]()}.Empty())
	assert.False(t, UpdateTaskRequest{Title: Set("x")}.Empty())
}

func TestUpdateTaskRequestReschedulesOneSide(t *testing.T) {
	at := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  UpdateTaskRequest
		want bool
	}{
		{"nothing", UpdateTaskRequest{Title: Set("x")}, false},
		{"due only", UpdateTaskRequest{DueDate: Set(at)}, true},
		{"reminder only", UpdateTaskRequest{ReminderTime: Set(at)}, true},
		{"both", UpdateTaskRequest{DueDate: Set(at), ReminderTime: Set(at)}, false},
		{"due with cleared reminder", UpdateTaskRequest{DueDate: Set(at), ReminderTime: Null[time.Time]()}, false},
		{"cleared due only", UpdateTaskRequest{DueDate: Null[time.Time]()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.ReschedulesOneSide())
		})
	}
}

func TestFieldStates(t *testing.T) {
	var absent Field[string]
	assert.False(t, absent.Present())
	assert.False(t, absent.IsNull())
	_, ok := absent.Get()
	assert.False(t, ok)

	null := Null[string]()
	assert.True(t, null.Present())
	assert.True(t, null.IsNull())
	_, ok = null.Get()
	assert.False(t, ok)

	set := Set("groceries")
	v, ok := set.Get()
	assert.True(t, ok)
	assert.Equal(t, "groceries", v)

	assert.True(t, SetOrNull[string](nil).IsNull())
	title := "work"
	v, ok = SetOrNull(&title).Get()
	assert.True(t, ok)
	assert.Equal(t, "work", v)
}

func TestFieldUnmarshal(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"new","dueDate":null}`), &req))

	title, ok := req.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "new", title)
	assert.True(t, req.DueDate.IsNull())
	assert.False(t, req.Status.Present())
}

func TestRegisterRequestOmitsConfirmPassword(t *testing.T) {
	raw, err := json.Marshal(RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret1\",\"confirm")
	assert.NotContains(t, string(raw), "ConfirmPassword")
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com","password":"secret1"}`, string(raw))
}
