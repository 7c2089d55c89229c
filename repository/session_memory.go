package repository

import (
	"context"
	"sync"

	"github.com/Hung484/todo-app-frontend-1234/model"
)

type memoryBackend struct {
	mu      sync.RWMutex
	session *model.Session
}

// NewMemorySessionRepo keeps the session in process memory only.
func NewMemorySessionRepo() *SessionRepo {
	return newSessionRepo(&memoryBackend{})
}

func (b *memoryBackend) name() string { return "memory" }

func (b *memoryBackend) load(context.Context) (*model.Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneSession(b.session), nil
}

func (b *memoryBackend) store(_ context.Context, session *model.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = cloneSession(session)
	return nil
}

func (b *memoryBackend) remove(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = nil
	return nil
}

func cloneSession(s *model.Session) *model.Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
