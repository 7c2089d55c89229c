package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/test/testutils"
	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenHolder is a settable TokenSource.
type tokenHolder struct {
	mu    sync.Mutex
	token string
}

func (h *tokenHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

func (h *tokenHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

type fixture struct {
	api    *testutils.FakeAPI
	tokens *tokenHolder
	auth   *AuthService
	lists  *ListService
	tasks  *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := testutils.NewFakeAPI(t)
	tokens := &tokenHolder{}
	client, err := transport.New(transport.Options{
		BaseURL:   api.URL(),
		Timeout:   5 * time.Second,
		UserAgent: "todo-client/1.0",
		Tokens:    tokens,
	})
	require.NoError(t, err)
	return &fixture{
		api:    api,
		tokens: tokens,
		auth:   NewAuthService(client),
		lists:  NewListService(client),
		tasks:  NewTaskService(client),
	}
}

// loggedIn seeds an account and a list and authenticates the fixture.
func (f *fixture) loggedIn(t *testing.T) (model.User, model.TodoList) {
	t.Helper()
	user, token := f.api.SeedUser("alice", "alice@example.com", "secret1")
	f.tokens.Set(token)
	return user, f.api.SeedList(user.UserID, "Groceries")
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, dto.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.User.UserID)

	login, err := f.auth.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.UserID, login.User.UserID)

	logins := f.api.Logins()
	require.Len(t, logins, 1)
	assert.Equal(t, resp.User.UserID, logins[0].UserID)
	assert.NotEmpty(t, logins[0].RequestID)

	f.tokens.Set(login.Token)
	profile, err := f.auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User, profile)
}

func TestAuthServiceErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.SeedUser("alice", "alice@example.com", "secret1")

	t.Run("BadCredentials", func(t *testing.T) {
		_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
		assert.True(t, errors.Is(err, transport.ErrAuth), "got %v", err)
		assert.Equal(t, "Invalid credentials", transport.MessageOf(err))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := f.auth.Register(ctx, dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
		assert.True(t, errors.Is(err, transport.ErrValidation), "got %v", err)
		assert.Equal(t, "User already exists", transport.MessageOf(err))
	})

	t.Run("ProfileWithoutToken", func(t *testing.T) {
		f.tokens.Set("")
		_, err := f.auth.Profile(ctx)
		assert.True(t, errors.Is(err, transport.ErrAuth), "got %v", err)
		assert.Equal(t, "Missing or invalid token", transport.MessageOf(err))
	})

	t.Run("ProfileWithRevokedToken", func(t *testing.T) {
		_, token := f.api.SeedUser("bob", "bob@example.com", "secret1")
		f.api.RevokeToken(token)
		f.tokens.Set(token)
		_, err := f.auth.Profile(ctx)
		assert.True(t, errors.Is(err, transport.ErrAuth), "got %v", err)
	})

	t.Run("IncompleteResponse", func(t *testing.T) {
		f.api.Fail(http.MethodPost, "/auth/login", http.StatusOK, gin.H{"token": "t1"})
		defer f.api.ClearFailures()
		_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "secret1"})
		assert.True(t, errors.Is(err, ErrIncompleteAuthResponse), "got %v", err)
	})

	t.Run("InvalidInputSendsNothing", func(t *testing.T) {
		before := f.api.Requests()
		_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "not-an-email", Password: "x"})
		assert.True(t, errors.Is(err, utils.ErrInvalidInput))
		_, err = f.auth.Register(ctx, dto.RegisterRequest{Username: "al", Email: "al@example.com", Password: "secret1"})
		assert.True(t, errors.Is(err, utils.ErrInvalidInput))
		assert.Equal(t, before, f.api.Requests())
	})
}

func TestListService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, seeded := f.loggedIn(t)

	created, err := f.lists.Create(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", created.Title)
	assert.NotEmpty(t, created.ListID)

	lists, err := f.lists.List(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, seeded.ListID, lists[0].ListID)

	renamed, err := f.lists.Update(ctx, created.ListID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", renamed.Title)
	assert.NotNil(t, renamed.UpdatedAt)

	got, err := f.lists.Get(ctx, created.ListID)
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Title)

	require.NoError(t, f.lists.Delete(ctx, created.ListID))
	_, err = f.lists.Get(ctx, created.ListID)
	assert.True(t, errors.Is(err, transport.ErrNotFound), "got %v", err)

	before := f.api.Requests()
	_, err = f.lists.Create(ctx, "  ")
	assert.True(t, errors.Is(err, utils.ErrInvalidInput))
	assert.Error(t, f.lists.Delete(ctx, ""))
	assert.Equal(t, before, f.api.Requests())
}

func TestListServiceRequiresAuth(t *testing.T) {
	f := newFixture(t)
	_, err := f.lists.List(context.Background())
	assert.True(t, errors.Is(err, transport.ErrAuth), "got %v", err)
}

func TestTaskServiceCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, list := f.loggedIn(t)

	due := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	reminder := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	task, err := f.tasks.Create(ctx, dto.CreateTaskRequest{
		ListID:       list.ListID,
		Title:        "Buy milk",
		DueDate:      &due,
		Priority:     model.PriorityHigh,
		ReminderTime: &reminder,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	require.NotNil(t, task.Reminder)
	assert.Equal(t, model.ReminderPush, task.Reminder.Type)
	assert.True(t, reminder.Equal(task.Reminder.ReminderTime))

	tasks, err := f.tasks.ListByList(ctx, list.ListID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.TaskID, tasks[0].TaskID)

	got, err := f.tasks.Get(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
}

func TestTaskServiceRejectsReminderAfterDueWithoutRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, list := f.loggedIn(t)

	due := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	reminder := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	before := f.api.Requests()
	_, err := f.tasks.Create(ctx, dto.CreateTaskRequest{
		ListID:       list.ListID,
		Title:        "Report",
		DueDate:      &due,
		ReminderTime: &reminder,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidInput))

	_, err = f.tasks.Update(ctx, "some-task", dto.UpdateTaskRequest{
		DueDate:      dto.Set(due),
		ReminderTime: dto.Set(reminder),
	})
	assert.True(t, errors.Is(err, utils.ErrInvalidInput))

	_, err = f.tasks.Update(ctx, "some-task", dto.UpdateTaskRequest{})
	assert.True(t, errors.Is(err, utils.ErrInvalidInput))

	assert.Equal(t, before, f.api.Requests())
}

func TestTaskServiceChecksRescheduleAgainstStoredTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, list := f.loggedIn(t)

	due := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	reminder := due.Add(-time.Hour)
	task, err := f.tasks.Create(ctx, dto.CreateTaskRequest{
		ListID:       list.ListID,
		Title:        "Report",
		DueDate:      &due,
		ReminderTime: &reminder,
	})
	require.NoError(t, err)

	puts := func() int {
		n := 0
		for _, call := range f.api.Calls() {
			if call.Method == http.MethodPut {
				n++
			}
		}
		return n
	}

	tests := []struct {
		name    string
		req     dto.UpdateTaskRequest
		wantErr bool
	}{
		{"reminder after stored due", dto.UpdateTaskRequest{ReminderTime: dto.Set(due.Add(2 * time.Hour))}, true},
		{"due before stored reminder", dto.UpdateTaskRequest{DueDate: dto.Set(reminder.Add(-time.Hour))}, true},
		{"due moved later", dto.UpdateTaskRequest{DueDate: dto.Set(due.Add(time.Hour))}, false},
		{"reminder moved earlier", dto.UpdateTaskRequest{ReminderTime: dto.Set(reminder.Add(-time.Hour))}, false},
		{"due cleared", dto.UpdateTaskRequest{DueDate: dto.Null[time.Time]()}, false},
		{"reminder after cleared due", dto.UpdateTaskRequest{ReminderTime: dto.Set(due.Add(5 * time.Hour))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := puts()
			_, err := f.tasks.Update(ctx, task.TaskID, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, utils.ErrInvalidInput), "got %v", err)
				assert.Equal(t, before, puts())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before+1, puts())
		})
	}
}

func TestTaskServicePartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, list := f.loggedIn(t)

	due := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	reminder := due.Add(-time.Hour)
	task, err := f.tasks.Create(ctx, dto.CreateTaskRequest{
		ListID:       list.ListID,
		Title:        "Pay rent",
		Description:  "before the 10th",
		DueDate:      &due,
		ReminderTime: &reminder,
	})
	require.NoError(t, err)

	t.Run("OmittedFieldsKept", func(t *testing.T) {
		updated, err := f.tasks.Update(ctx, task.TaskID, dto.UpdateTaskRequest{
			Status: dto.Set(model.StatusInProgress),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, updated.Status)
		require.NotNil(t, updated.DueDate)
		assert.True(t, due.Equal(*updated.DueDate))
		assert.Equal(t, "before the 10th", updated.Description)
		assert.NotNil(t, updated.Reminder)
	})

	t.Run("NullClearsDueDate", func(t *testing.T) {
		updated, err := f.tasks.Update(ctx, task.TaskID, dto.UpdateTaskRequest{
			DueDate: dto.Null[time.Time](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
		assert.Equal(t, model.StatusInProgress, updated.Status)

		stored, ok := f.api.Task(task.TaskID)
		require.True(t, ok)
		assert.Nil(t, stored.DueDate)
	})

	t.Run("NullClearsReminder", func(t *testing.T) {
		updated, err := f.tasks.Update(ctx, task.TaskID, dto.UpdateTaskRequest{
			ReminderTime: dto.Null[time.Time](),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Reminder)
	})

	t.Run("ServerValidation", func(t *testing.T) {
		f.api.Fail(http.MethodPut, "/tasks/"+task.TaskID, http.StatusUnprocessableEntity, gin.H{"message": "Task is locked"})
		defer f.api.ClearFailures()
		_, err := f.tasks.Update(ctx, task.TaskID, dto.UpdateTaskRequest{Title: dto.Set("New title")})
		assert.True(t, errors.Is(err, transport.ErrValidation), "got %v", err)
		assert.Equal(t, "Task is locked", transport.MessageOf(err))
	})
}

func TestTaskServiceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, list := f.loggedIn(t)

	task, err := f.tasks.Create(ctx, dto.CreateTaskRequest{ListID: list.ListID, Title: "Temp"})
	require.NoError(t, err)
	require.NoError(t, f.tasks.Delete(ctx, task.TaskID))

	_, ok := f.api.Task(task.TaskID)
	assert.False(t, ok)

	err = f.tasks.Delete(ctx, task.TaskID)
	assert.True(t, errors.Is(err, transport.ErrNotFound), "got %v", err)
}
