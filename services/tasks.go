package services

import (
	"context"
	"net/url"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/utils"
)

const tasksURL = "/tasks"

// TaskService is a stateless wrapper over the task endpoints. Requests are
// validated locally before anything is sent.
type TaskService struct {
	client *transport.Client
}

func NewTaskService(client *transport.Client) *TaskService {
	return &TaskService{client: client}
}

// ListByList returns the tasks of one todo list.
func (s *TaskService) ListByList(ctx context.Context, listID string) ([]model.Task, error) {
	if listID == "" {
		return nil, utils.NewInputError("ListID", "List id is required")
	}
	var tasks []model.Task
	ctx = middleware.WithOperation(ctx, "tasks.list")
	if err := s.client.Get(ctx, tasksURL+"/list/"+url.PathEscape(listID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, utils.NewInputError("TaskID", "Task id is required")
	}
	var task model.Task
	ctx = middleware.WithOperation(ctx, "tasks.get")
	if err := s.client.Get(ctx, taskPath(id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create adds a task. A reminder time without a type defaults to a push
// reminder.
func (s *TaskService) Create(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	if req.ReminderTime != nil && req.ReminderType == nil {
		push := model.ReminderPush
		req.ReminderType = &push
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var task model.Task
	ctx = middleware.WithOperation(ctx, "tasks.create")
	if err := s.client.Post(ctx, tasksURL, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update sends only the fields present in req; null fields are cleared by
// the API. When req moves only one of the due date and reminder time, the
// stored task is fetched first so the pair is checked before the update.
func (s *TaskService) Update(ctx context.Context, id string, req dto.UpdateTaskRequest) (*model.Task, error) {
	if id == "" {
		return nil, utils.NewInputError("TaskID", "Task id is required")
	}
	if req.Empty() {
		return nil, utils.NewInputError("", "Nothing to update")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.ReschedulesOneSide() {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := utils.ValidateSchedule(current, req); err != nil {
			return nil, err
		}
	}

	var task model.Task
	ctx = middleware.WithOperation(ctx, "tasks.update")
	if err := s.client.Put(ctx, taskPath(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return utils.NewInputError("TaskID", "Task id is required")
	}
	ctx = middleware.WithOperation(ctx, "tasks.delete")
	return s.client.Delete(ctx, taskPath(id))
}

func taskPath(id string) string {
	return tasksURL + "/" + url.PathEscape(id)
}
