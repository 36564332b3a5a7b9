package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// catalogIndexes backs the equality filters used by catalog reads.
func catalogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "featured", Value: 1}},
			Options: options.Index().SetName("featured"),
		},
	}
}

// EnsureCatalogIndexes creates the catalog indexes. It is a no-op for indexes that
// already exist with the same definition.
func (db *DB) EnsureCatalogIndexes(ctx context.Context, databaseID, collectionID string) error {
	_, err := db.collection(databaseID, collectionID).Indexes().CreateMany(ctx, catalogIndexes())
	if err != nil {
		return fmt.Errorf("create catalog indexes: %w", err)
	}
	return nil
}
