package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/config"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FixedTime is a clock pinned to one instant.
type FixedTime struct {
	Fixed time.Time
}

func (ft FixedTime) Now() time.Time {
	return ft.Fixed
}

// SetupTestEnvironment points every config variable at test values. The
// previous values are restored when the test ends.
func SetupTestEnvironment(t *testing.T, overrides map[string]string) {
	t.Helper()

	values := map[string]string{
		"API_BASE_URL":    "http://127.0.0.1:1/api",
		"API_TIMEOUT":     "5s",
		"SESSION_BACKEND": config.BackendMemory,
		"CLIENT_ID":       "test-client",
		"LOG_LEVEL":       "debug",
		"LOG_FORMAT":      "console",
	}
	for k, v := range overrides {
		values[k] = v
	}
	for k, v := range values {
		t.Setenv(k, v)
	}
}

// RequireRedis connects to TEST_REDIS_URL (default DB 15 on localhost) and
// flushes it. The test is skipped when no server answers.
func RequireRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := utils.GetEnvAsString("TEST_REDIS_URL", "redis://localhost:6379/15")
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("invalid TEST_REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available at %s: %v", url, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		client.Close()
		t.Fatalf("Failed to flush test Redis DB: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

// RequireMongo returns a fresh collection in a throwaway database on
// TEST_MONGO_URI. The test is skipped when no server answers; the database
// is dropped afterwards.
func RequireMongo(t *testing.T) *mongo.Collection {
	t.Helper()

	uri := utils.GetEnvAsString("TEST_MONGO_URI", "mongodb://localhost:27017")
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		t.Skipf("mongo not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo not available at %s: %v", uri, err)
	}

	dbName := fmt.Sprintf("todo_client_test_%d", time.Now().UnixNano())
	collection := client.Database(dbName).Collection("sessions")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Database(dbName).Drop(ctx); err != nil {
			t.Logf("Warning: Failed to drop test database %s: %v", dbName, err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: Failed to disconnect: %v", err)
		}
	})
	return collection
}
