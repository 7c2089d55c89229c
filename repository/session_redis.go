package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"

	"github.com/redis/go-redis/v9"
)

// redisBackend keeps the record under a single key, so SET and DEL replace
// or drop token and user together.
type redisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisSessionRepo connects to redisURL and stores the session of
// clientID under "todo:session:<clientID>".
func NewRedisSessionRepo(ctx context.Context, redisURL, clientID string) (*SessionRepo, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return NewRedisSessionRepoFromClient(client, clientID), nil
}

// NewRedisSessionRepoFromClient uses an existing client. Closing the repo
// closes the client.
func NewRedisSessionRepoFromClient(client *redis.Client, clientID string) *SessionRepo {
	return newSessionRepo(&redisBackend{
		client: client,
		key:    RedisSessionKey(clientID),
	})
}

func RedisSessionKey(clientID string) string {
	return fmt.Sprintf("todo:session:%s", clientID)
}

func (b *redisBackend) name() string { return "redis" }

func (b *redisBackend) load(ctx context.Context) (*model.Session, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (b *redisBackend) store(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	// No TTL: staleness is detected by the API rejecting the token.
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}
	return nil
}

func (b *redisBackend) remove(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

func (b *redisBackend) close() error {
	return b.client.Close()
}
