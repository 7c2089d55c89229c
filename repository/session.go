package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/model"
)

// SessionStore persists the single active session of this client. The token
// and the user are written and cleared together as one record.
type SessionStore interface {
	Save(ctx context.Context, token string, user *model.User) error
	// Load returns the stored record, or nil when nothing is stored.
	Load(ctx context.Context) (*model.Session, error)
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*model.User, error)
	Clear(ctx context.Context) error
}

// sessionBackend is the storage primitive behind SessionRepo. Every method
// acts on the whole record.
type sessionBackend interface {
	name() string
	load(ctx context.Context) (*model.Session, error)
	store(ctx context.Context, session *model.Session) error
	remove(ctx context.Context) error
}

// SessionRepo implements SessionStore on top of one backend.
type SessionRepo struct {
	backend sessionBackend
	now     func() time.Time
}

var _ SessionStore = (*SessionRepo)(nil)

func newSessionRepo(backend sessionBackend) *SessionRepo {
	return &SessionRepo{backend: backend, now: time.Now}
}

// Backend names the storage in use ("file", "redis", ...).
func (r *SessionRepo) Backend() string { return r.backend.name() }

func (r *SessionRepo) Save(ctx context.Context, token string, user *model.User) error {
	timer := middleware.TrackStoreOperation("save", r.backend.name())
	defer timer.ObserveDuration()

	if token == "" {
		return errors.New("session token cannot be empty")
	}
	if user == nil {
		return errors.New("session user cannot be nil")
	}

	userCopy := *user
	session := &model.Session{
		Token:   token,
		User:    &userCopy,
		SavedAt: r.now().UTC(),
	}
	if err := r.backend.store(ctx, session); err != nil {
		middleware.TrackError("store")
		return fmt.Errorf("failed to save session to %s store: %w", r.backend.name(), err)
	}
	return nil
}

func (r *SessionRepo) Load(ctx context.Context) (*model.Session, error) {
	timer := middleware.TrackStoreOperation("load", r.backend.name())
	defer timer.ObserveDuration()

	session, err := r.backend.load(ctx)
	if err != nil {
		middleware.TrackError("store")
		return nil, fmt.Errorf("failed to load session from %s store: %w", r.backend.name(), err)
	}
	return session, nil
}

func (r *SessionRepo) Token(ctx context.Context) (string, error) {
	session, err := r.Load(ctx)
	if err != nil || session == nil {
		return "", err
	}
	return session.Token, nil
}

func (r *SessionRepo) User(ctx context.Context) (*model.User, error) {
	session, err := r.Load(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	return session.User, nil
}

func (r *SessionRepo) Clear(ctx context.Context) error {
	timer := middleware.TrackStoreOperation("clear", r.backend.name())
	defer timer.ObserveDuration()

	if err := r.backend.remove(ctx); err != nil {
		middleware.TrackError("store")
		return fmt.Errorf("failed to clear session from %s store: %w", r.backend.name(), err)
	}
	return nil
}

// Close releases connections opened by the backend, if any.
func (r *SessionRepo) Close() error {
	if c, ok := r.backend.(interface{ close() error }); ok {
		return c.close()
	}
	return nil
}
