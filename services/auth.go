package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/utils"
)

const authURL = "/auth"

// ErrIncompleteAuthResponse is returned when a 2xx auth response lacks the
// token or the user.
var ErrIncompleteAuthResponse = errors.New("auth response is missing token or user")

// AuthService wraps the remote auth endpoints. It never persists anything;
// the session controller owns the store.
type AuthService struct {
	client *transport.Client
}

func NewAuthService(client *transport.Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var resp dto.AuthResponse
	ctx = middleware.WithOperation(ctx, "auth.register")
	if err := s.client.Post(ctx, authURL+"/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("register: %w", ErrIncompleteAuthResponse)
	}
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var resp dto.AuthResponse
	ctx = middleware.WithOperation(ctx, "auth.login")
	if err := s.client.Post(ctx, authURL+"/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("login: %w", ErrIncompleteAuthResponse)
	}
	return &resp, nil
}

// Profile fetches the account behind the current token. It is also how a
// stored token is validated.
func (s *AuthService) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	ctx = middleware.WithOperation(ctx, "auth.profile")
	if err := s.client.Get(ctx, authURL+"/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
