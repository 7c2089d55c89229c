package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the secondary indexes of the session collection.
// Documents are keyed by client id, so only lookups by user need an index.
func SetupIndexes(ctx context.Context, sessions *mongo.Collection) error {
	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user.user_id", Value: 1}},
			Options: options.Index().
				SetName("session_user_id"),
		},
		{
			Keys: bson.D{{Key: "saved_at", Value: -1}},
			Options: options.Index().
				SetName("session_saved_at"),
		},
	}

	if _, err := sessions.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}
