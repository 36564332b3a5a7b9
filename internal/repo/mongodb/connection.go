package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client *mongo.Client
}

// NewConnection connects to uri without pinging; the server may come up later and
// catalog reads degrade to fallback data until it does.
func NewConnection(ctx context.Context, uri, appName string, timeout time.Duration) (*DB, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second).
		SetTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &DB{Client: client}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func (db *DB) collection(databaseID, collectionID string) *mongo.Collection {
	return db.Client.Database(databaseID).Collection(collectionID)
}
