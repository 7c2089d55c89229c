package repository

import (
	"context"
	"fmt"

	"github.com/Hung484/todo-app-frontend-1234/config"
)

// OpenSessionRepo builds the session store selected by cfg.SessionBackend.
func OpenSessionRepo(ctx context.Context, cfg *config.Config) (*SessionRepo, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return NewMemorySessionRepo(), nil
	case config.BackendFile:
		return NewFileSessionRepo(cfg.SessionFile)
	case config.BackendRedis:
		return NewRedisSessionRepo(ctx, cfg.RedisURL, cfg.ClientID)
	case config.BackendMongo:
		return NewMongoSessionRepo(ctx, cfg.Database, cfg.ClientID)
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}
