package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/config"
	"github.com/Hung484/todo-app-frontend-1234/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDocument is the stored shape: one document per client id.
type sessionDocument struct {
	ClientID      string `bson:"_id"`
	model.Session `bson:",inline"`
}

type mongoBackend struct {
	collection *mongo.Collection
	clientID   string
	// owned is set when the backend opened the client and must disconnect it.
	owned *mongo.Client
}

// NewMongoSessionRepo connects with cfg and keeps the session of clientID in
// cfg.Collection.
func NewMongoSessionRepo(ctx context.Context, cfg config.DatabaseConfig, clientID string) (*SessionRepo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.DatabaseName).Collection(cfg.Collection)
	if err := SetupIndexes(connectCtx, collection); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	repo := NewMongoSessionRepoFromCollection(collection, clientID)
	repo.backend.(*mongoBackend).owned = client
	return repo, nil
}

// NewMongoSessionRepoFromCollection uses a collection owned by the caller.
func NewMongoSessionRepoFromCollection(collection *mongo.Collection, clientID string) *SessionRepo {
	return newSessionRepo(&mongoBackend{collection: collection, clientID: clientID})
}

func (b *mongoBackend) name() string { return "mongo" }

func (b *mongoBackend) load(ctx context.Context) (*model.Session, error) {
	var doc sessionDocument
	err := b.collection.FindOne(ctx, bson.M{"_id": b.clientID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session from database: %w", err)
	}
	session := doc.Session
	return &session, nil
}

func (b *mongoBackend) store(ctx context.Context, session *model.Session) error {
	doc := sessionDocument{ClientID: b.clientID, Session: *session}
	_, err := b.collection.ReplaceOne(ctx,
		bson.M{"_id": b.clientID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to store session in database: %w", err)
	}
	return nil
}

func (b *mongoBackend) remove(ctx context.Context) error {
	if _, err := b.collection.DeleteOne(ctx, bson.M{"_id": b.clientID}); err != nil {
		return fmt.Errorf("failed to delete session from database: %w", err)
	}
	return nil
}

func (b *mongoBackend) close() error {
	if b.owned == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.owned.Disconnect(ctx)
}
