// Package mongo implements the repositories on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"inkwell.io/blog/internal/domain"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
	likesCollection = "likes"
)

// Connect opens a client, verifies the primary is reachable and ensures
// the indexes exist. The returned func disconnects the client.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return db, client.Disconnect, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// (post, likedBy) index is what serialises concurrent like toggles.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "fullname", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		likesCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "likedBy", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewError(domain.ErrNotFound, "%s not found", what)
	}
	return nil
}
