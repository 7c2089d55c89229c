package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"golang.org/x/sync/errgroup"
)

// FilterAll selects every task regardless of status.
const FilterAll = "all"

type ListAPI interface {
	List(ctx context.Context) ([]model.TodoList, error)
	Get(ctx context.Context, id string) (*model.TodoList, error)
	Create(ctx context.Context, title string) (*model.TodoList, error)
	Update(ctx context.Context, id, title string) (*model.TodoList, error)
	Delete(ctx context.Context, id string) error
}

type TaskAPI interface {
	ListByList(ctx context.Context, listID string) ([]model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error)
	Update(ctx context.Context, id string, req dto.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskBoard is the local snapshot of one list and its tasks. It is never
// pushed to; after each mutation the server's returned task is spliced in.
type TaskBoard struct {
	listID string
	lists  ListAPI
	tasks  TaskAPI

	mu       sync.RWMutex
	list     *model.TodoList
	items    []model.Task
	errorMsg string
}

func NewTaskBoard(listID string, lists ListAPI, tasks TaskAPI) *TaskBoard {
	return &TaskBoard{listID: listID, lists: lists, tasks: tasks}
}

// Refresh loads the list and its tasks in parallel and replaces the snapshot.
func (b *TaskBoard) Refresh(ctx context.Context) error {
	var (
		list  *model.TodoList
		tasks []model.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = b.lists.Get(gctx, b.listID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = b.tasks.ListByList(gctx, b.listID)
		return err
	})
	if err := g.Wait(); err != nil {
		b.fail(err, "Failed to load data")
		return err
	}

	b.mu.Lock()
	b.list = list
	b.items = tasks
	b.errorMsg = ""
	b.mu.Unlock()
	return nil
}

func (b *TaskBoard) Create(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	req.ListID = b.listID
	task, err := b.tasks.Create(ctx, req)
	if err != nil {
		b.fail(err, "Failed to save task")
		return nil, err
	}

	b.mu.Lock()
	b.items = append(b.items, *task)
	b.errorMsg = ""
	b.mu.Unlock()
	return task, nil
}

// Update checks a one-sided reschedule against the snapshot before sending
// it, so a known conflict costs no request.
func (b *TaskBoard) Update(ctx context.Context, id string, req dto.UpdateTaskRequest) (*model.Task, error) {
	if req.ReschedulesOneSide() {
		if current, ok := b.task(id); ok {
			if err := utils.ValidateSchedule(&current, req); err != nil {
				b.fail(err, "Failed to save task")
				return nil, err
			}
		}
	}
	task, err := b.tasks.Update(ctx, id, req)
	if err != nil {
		b.fail(err, "Failed to save task")
		return nil, err
	}
	b.splice(*task)
	return task, nil
}

func (b *TaskBoard) SetStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	task, err := b.tasks.Update(ctx, id, dto.UpdateTaskRequest{Status: dto.Set(status)})
	if err != nil {
		b.fail(err, "Failed to update task status")
		return nil, err
	}
	b.splice(*task)
	return task, nil
}

func (b *TaskBoard) Remove(ctx context.Context, id string) error {
	if err := b.tasks.Delete(ctx, id); err != nil {
		b.fail(err, "Failed to delete task")
		return err
	}

	b.mu.Lock()
	kept := b.items[:0:0]
	for _, t := range b.items {
		if t.TaskID != id {
			kept = append(kept, t)
		}
	}
	b.items = kept
	b.errorMsg = ""
	b.mu.Unlock()
	return nil
}

// List returns the list loaded by the last Refresh, or nil.
func (b *TaskBoard) List() *model.TodoList {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.list == nil {
		return nil
	}
	l := *b.list
	return &l
}

// Tasks returns the snapshot filtered by status; "" or FilterAll returns all.
func (b *TaskBoard) Tasks(filter string) []model.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Task, 0, len(b.items))
	for _, t := range b.items {
		if filter == "" || filter == FilterAll || string(t.Status) == filter {
			out = append(out, t)
		}
	}
	return out
}

// Error returns the message of the last failed operation, or "".
func (b *TaskBoard) Error() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errorMsg
}

// Stats counts the snapshot by status, priority and due date relative to now.
func (b *TaskBoard) Stats(now time.Time) model.TaskStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ComputeStats(b.items, now)
}

func ComputeStats(tasks []model.Task, now time.Time) model.TaskStats {
	var stats model.TaskStats
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	weekAhead := now.AddDate(0, 0, 7)

	for i := range tasks {
		t := &tasks[i]
		stats.Total++
		switch t.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusCompleted:
			stats.Completed++
		case model.StatusCancelled:
			stats.Cancelled++
		}
		switch t.Priority {
		case model.PriorityHigh:
			stats.HighPriority++
		case model.PriorityMedium:
			stats.MediumPriority++
		case model.PriorityLow:
			stats.LowPriority++
		}
		if t.Reminder != nil {
			stats.WithReminders++
		}
		if t.DueDate == nil || t.Status == model.StatusCompleted || t.Status == model.StatusCancelled {
			continue
		}
		due := t.DueDate.In(now.Location())
		switch {
		case t.Overdue(now):
			stats.Overdue++
		case due.Before(endOfDay):
			stats.DueToday++
		case due.Before(weekAhead):
			stats.Upcoming++
		}
	}
	return stats
}

func (b *TaskBoard) task(id string) (model.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.items {
		if t.TaskID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (b *TaskBoard) splice(task model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].TaskID == task.TaskID {
			b.items[i] = task
			break
		}
	}
	b.errorMsg = ""
}

func (b *TaskBoard) fail(err error, fallback string) {
	b.mu.Lock()
	b.errorMsg = userMessage(err, fallback)
	b.mu.Unlock()
}

// ListBoard is the local snapshot of the user's todo lists.
type ListBoard struct {
	lists ListAPI

	mu       sync.RWMutex
	items    []model.TodoList
	errorMsg string
}

func NewListBoard(lists ListAPI) *ListBoard {
	return &ListBoard{lists: lists}
}

func (b *ListBoard) Refresh(ctx context.Context) error {
	lists, err := b.lists.List(ctx)
	if err != nil {
		b.fail(err, "Failed to load todo lists")
		return err
	}
	b.mu.Lock()
	b.items = lists
	b.errorMsg = ""
	b.mu.Unlock()
	return nil
}

func (b *ListBoard) Create(ctx context.Context, title string) (*model.TodoList, error) {
	list, err := b.lists.Create(ctx, title)
	if err != nil {
		b.fail(err, "Failed to save todo list")
		return nil, err
	}
	b.mu.Lock()
	b.items = append(b.items, *list)
	b.errorMsg = ""
	b.mu.Unlock()
	return list, nil
}

func (b *ListBoard) Rename(ctx context.Context, id, title string) (*model.TodoList, error) {
	list, err := b.lists.Update(ctx, id, title)
	if err != nil {
		b.fail(err, "Failed to save todo list")
		return nil, err
	}
	b.mu.Lock()
	for i := range b.items {
		if b.items[i].ListID == list.ListID {
			b.items[i] = *list
			break
		}
	}
	b.errorMsg = ""
	b.mu.Unlock()
	return list, nil
}

func (b *ListBoard) Remove(ctx context.Context, id string) error {
	if err := b.lists.Delete(ctx, id); err != nil {
		b.fail(err, "Failed to delete todo list")
		return err
	}
	b.mu.Lock()
	kept := b.items[:0:0]
	for _, l := range b.items {
		if l.ListID != id {
			kept = append(kept, l)
		}
	}
	b.items = kept
	b.errorMsg = ""
	b.mu.Unlock()
	return nil
}

func (b *ListBoard) Lists() []model.TodoList {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.TodoList, len(b.items))
	copy(out, b.items)
	return out
}

func (b *ListBoard) Error() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errorMsg
}

func (b *ListBoard) fail(err error, fallback string) {
	b.mu.Lock()
	b.errorMsg = userMessage(err, fallback)
	b.mu.Unlock()
}
