package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/services"
	"github.com/Hung484/todo-app-frontend-1234/test/testutils"
	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoardFixture(t *testing.T) (*testutils.FakeAPI, *services.ListService, *services.TaskService, model.TodoList) {
	t.Helper()
	api := testutils.NewFakeAPI(t)
	user, token := api.SeedUser("alice", "alice@example.com", "secret1")
	client, err := transport.New(transport.Options{
		BaseURL: api.URL(),
		Tokens:  middleware.TokenFunc(func() string { return token }),
	})
	require.NoError(t, err)
	list := api.SeedList(user.UserID, "Groceries")
	return api, services.NewListService(client), services.NewTaskService(client), list
}

func TestTaskBoard(t *testing.T) {
	ctx := context.Background()
	api, lists, tasks, list := newBoardFixture(t)
	board := NewTaskBoard(list.ListID, lists, tasks)

	require.NoError(t, board.Refresh(ctx))
	require.NotNil(t, board.List())
	assert.Equal(t, "Groceries", board.List().Title)
	assert.Empty(t, board.Tasks(FilterAll))

	milk, err := board.Create(ctx, dto.CreateTaskRequest{Title: "Milk"})
	require.NoError(t, err)
	assert.Equal(t, list.ListID, milk.ListID)
	eggs, err := board.Create(ctx, dto.CreateTaskRequest{Title: "Eggs", Priority: model.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, board.Tasks(FilterAll), 2)

	_, err = board.SetStatus(ctx, milk.TaskID, model.StatusCompleted)
	require.NoError(t, err)

	completed := board.Tasks(string(model.StatusCompleted))
	require.Len(t, completed, 1)
	assert.Equal(t, milk.TaskID, completed[0].TaskID)
	assert.Len(t, board.Tasks(string(model.StatusPending)), 1)
	assert.Len(t, board.Tasks(""), 2)

	updated, err := board.Update(ctx, eggs.TaskID, dto.UpdateTaskRequest{Title: dto.Set("Free-range eggs")})
	require.NoError(t, err)
	assert.Equal(t, "Free-range eggs", updated.Title)
	assert.Equal(t, "Free-range eggs", board.Tasks(string(model.StatusPending))[0].Title)

	require.NoError(t, board.Remove(ctx, milk.TaskID))
	remaining := board.Tasks(FilterAll)
	require.Len(t, remaining, 1)
	assert.Equal(t, eggs.TaskID, remaining[0].TaskID)

	// the snapshot matches a fresh load
	require.NoError(t, board.Refresh(ctx))
	fresh := board.Tasks(FilterAll)
	require.Len(t, fresh, 1)
	assert.Equal(t, remaining[0].TaskID, fresh[0].TaskID)
	assert.Equal(t, remaining[0].Title, fresh[0].Title)
	assert.Empty(t, board.Error())

	_, ok := api.Task(milk.TaskID)
	assert.False(t, ok)
}

func TestTaskBoardErrors(t *testing.T) {
	ctx := context.Background()
	api, lists, tasks, list := newBoardFixture(t)
	board := NewTaskBoard(list.ListID, lists, tasks)
	require.NoError(t, board.Refresh(ctx))

	t.Run("LoadFallback", func(t *testing.T) {
		api.Fail(http.MethodGet, "/tasks/list/"+list.ListID, http.StatusInternalServerError, nil)
		defer api.ClearFailures()
		require.Error(t, board.Refresh(ctx))
		assert.Equal(t, "Failed to load data", board.Error())
	})

	t.Run("SaveValidation", func(t *testing.T) {
		_, err := board.Create(ctx, dto.CreateTaskRequest{Title: " "})
		require.Error(t, err)
		assert.Equal(t, "Title is required", board.Error())
	})

	t.Run("StatusServerMessage", func(t *testing.T) {
		task, err := board.Create(ctx, dto.CreateTaskRequest{Title: "Bread"})
		require.NoError(t, err)

		api.Fail(http.MethodPut, "/tasks/"+task.TaskID, http.StatusBadRequest, gin.H{"message": "Invalid status"})
		defer api.ClearFailures()
		_, err = board.SetStatus(ctx, task.TaskID, model.StatusCompleted)
		require.Error(t, err)
		assert.Equal(t, "Invalid status", board.Error())
		assert.Equal(t, model.StatusPending, board.Tasks(FilterAll)[0].Status)
	})

	t.Run("DeleteFallback", func(t *testing.T) {
		api.Fail(http.MethodDelete, "/tasks/missing", http.StatusServiceUnavailable, nil)
		defer api.ClearFailures()
		require.Error(t, board.Remove(ctx, "missing"))
		assert.Equal(t, "Failed to delete task", board.Error())
	})
}

func TestTaskBoardChecksScheduleAgainstSnapshot(t *testing.T) {
	ctx := context.Background()
	api, lists, tasks, list := newBoardFixture(t)
	board := NewTaskBoard(list.ListID, lists, tasks)
	require.NoError(t, board.Refresh(ctx))

	due := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	reminder := due.Add(-time.Hour)
	task, err := board.Create(ctx, dto.CreateTaskRequest{Title: "Dentist", DueDate: &due, ReminderTime: &reminder})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.UpdateTaskRequest
	}{
		{"reminder after stored due", dto.UpdateTaskRequest{ReminderTime: dto.Set(due.Add(2 * time.Hour))}},
		{"reminder at stored due", dto.UpdateTaskRequest{ReminderTime: dto.Set(due)}},
		{"due before stored reminder", dto.UpdateTaskRequest{DueDate: dto.Set(reminder.Add(-time.Hour))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := api.Requests()
			_, err := board.Update(ctx, task.TaskID, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrInvalidInput), "got %v", err)
			assert.Equal(t, "Reminder time must be before the due date", board.Error())
			assert.Equal(t, before, api.Requests())
		})
	}

	moved, err := board.Update(ctx, task.TaskID, dto.UpdateTaskRequest{DueDate: dto.Set(due.Add(24 * time.Hour))})
	require.NoError(t, err)
	require.NotNil(t, moved.DueDate)
	assert.True(t, due.Add(24*time.Hour).Equal(*moved.DueDate))
	assert.Empty(t, board.Error())

	// a board that has not loaded the task falls back to the stored copy
	cold := NewTaskBoard(list.ListID, lists, tasks)
	_, err = cold.Update(ctx, task.TaskID, dto.UpdateTaskRequest{ReminderTime: dto.Set(due.Add(48 * time.Hour))})
	assert.True(t, errors.Is(err, utils.ErrInvalidInput), "got %v", err)
	stored, ok := api.Task(task.TaskID)
	require.True(t, ok)
	require.NotNil(t, stored.Reminder)
	assert.True(t, reminder.Equal(stored.Reminder.ReminderTime))
}

func TestListBoard(t *testing.T) {
	ctx := context.Background()
	api, lists, _, seeded := newBoardFixture(t)
	board := NewListBoard(lists)

	require.NoError(t, board.Refresh(ctx))
	require.Len(t, board.Lists(), 1)

	work, err := board.Create(ctx, "Work")
	require.NoError(t, err)
	require.Len(t, board.Lists(), 2)

	_, err = board.Rename(ctx, work.ListID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", board.Lists()[1].Title)

	require.NoError(t, board.Remove(ctx, seeded.ListID))
	require.Len(t, board.Lists(), 1)
	assert.Equal(t, work.ListID, board.Lists()[0].ListID)

	api.Fail(http.MethodGet, "/lists", http.StatusBadGateway, nil)
	require.Error(t, board.Refresh(ctx))
	assert.Equal(t, "Failed to load todo lists", board.Error())
	api.ClearFailures()

	_, err = board.Create(ctx, "")
	require.Error(t, err)
	assert.Equal(t, "Title is required", board.Error())
	assert.Len(t, board.Lists(), 1)
}

func TestComputeStats(t *testing.T) {
	clock := testutils.FixedTime{Fixed: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)}
	now := clock.Now()
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tasks := []model.Task{
		{TaskID: "1", Status: model.StatusPending, Priority: model.PriorityHigh, DueDate: at(-time.Hour)},
		{TaskID: "2", Status: model.StatusInProgress, Priority: model.PriorityMedium, DueDate: at(3 * time.Hour)},
		{TaskID: "3", Status: model.StatusPending, Priority: model.PriorityLow, DueDate: at(48 * time.Hour)},
		{TaskID: "4", Status: model.StatusCompleted, Priority: model.PriorityHigh, DueDate: at(-48 * time.Hour)},
		{TaskID: "5", Status: model.StatusCancelled, Priority: model.PriorityMedium, Reminder: &model.Reminder{}},
		{TaskID: "6", Status: model.StatusPending, Priority: model.PriorityMedium, DueDate: at(30 * 24 * time.Hour)},
	}

	stats := ComputeStats(tasks, now)
	assert.Equal(t, model.TaskStats{
		Total:          6,
		Pending:        3,
		InProgress:     1,
		Completed:      1,
		Cancelled:      1,
		HighPriority:   2,
		MediumPriority: 3,
		LowPriority:    1,
		Overdue:        1,
		DueToday:       1,
		Upcoming:       1,
		WithReminders:  1,
	}, stats)
}
