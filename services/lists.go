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

const listsURL = "/lists"

// ListService is a stateless wrapper over the todo list endpoints. Every
// call is a fresh round trip.
type ListService struct {
	client *transport.Client
}

func NewListService(client *transport.Client) *ListService {
	return &ListService{client: client}
}

func (s *ListService) List(ctx context.Context) ([]model.TodoList, error) {
	var lists []model.TodoList
	ctx = middleware.WithOperation(ctx, "lists.list")
	if err := s.client.Get(ctx, listsURL, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (s *ListService) Get(ctx context.Context, id string) (*model.TodoList, error) {
	if id == "" {
		return nil, utils.NewInputError("ListID", "List id is required")
	}
	var list model.TodoList
	ctx = middleware.WithOperation(ctx, "lists.get")
	if err := s.client.Get(ctx, listPath(id), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListService) Create(ctx context.Context, title string) (*model.TodoList, error) {
	req := dto.ListRequest{Title: title}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	var list model.TodoList
	ctx = middleware.WithOperation(ctx, "lists.create")
	if err := s.client.Post(ctx, listsURL, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListService) Update(ctx context.Context, id, title string) (*model.TodoList, error) {
	if id == "" {
		return nil, utils.NewInputError("ListID", "List id is required")
	}
	req := dto.ListRequest{Title: title}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	var list model.TodoList
	ctx = middleware.WithOperation(ctx, "lists.update")
	if err := s.client.Put(ctx, listPath(id), req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return utils.NewInputError("ListID", "List id is required")
	}
	ctx = middleware.WithOperation(ctx, "lists.delete")
	return s.client.Delete(ctx, listPath(id))
}

func listPath(id string) string {
	return listsURL + "/" + url.PathEscape(id)
}
