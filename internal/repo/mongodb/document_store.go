package mongodb

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
)

// keep documentStore in sync with the docstore contract
var _ docstore.Store = (*documentStore)(nil)

type documentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) docstore.Store {
	return &documentStore{db: db}
}

func (s *documentStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...docstore.Query) ([]docstore.Document, error) {
	filter, err := buildFilter(queries)
	if err != nil {
		return nil, err
	}

	cursor, err := s.db.collection(databaseID, collectionID).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := make([]docstore.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, toDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return docs, nil
}

func (s *documentStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (docstore.Document, error) {
	var raw bson.M
	err := s.db.collection(databaseID, collectionID).FindOne(ctx, idFilter(documentID)).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", documentID, err)
	}
	return toDocument(raw), nil
}

func (s *documentStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (docstore.Document, error) {
	doc := bson.M{}
	maps.Copy(doc, data)
	if documentID == "" || documentID == docstore.UniqueID {
		doc["_id"] = primitive.NewObjectID()
	} else {
		doc["_id"] = documentID
	}

	if _, err := s.db.collection(databaseID, collectionID).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return toDocument(doc), nil
}

func (s *documentStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (docstore.Document, error) {
	update := bson.M{"$set": data}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err := s.db.collection(databaseID, collectionID).
		FindOneAndUpdate(ctx, idFilter(documentID), update, opts).
		Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", documentID, err)
	}
	return toDocument(raw), nil
}

func (s *documentStore) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	res, err := s.db.collection(databaseID, collectionID).DeleteOne(ctx, idFilter(documentID))
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// idFilter matches documentID stored either as an ObjectID or as a plain string.
func idFilter(documentID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(documentID); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, documentID}}}
	}
	return bson.M{"_id": documentID}
}

func buildFilter(queries []docstore.Query) (bson.M, error) {
	conds := make([]bson.M, 0, len(queries))
	for _, q := range queries {
		switch q.Operator {
		case docstore.OpEqual:
			conds = append(conds, bson.M{q.Attribute: q.Value})
		case docstore.OpSearch:
			term, ok := q.Value.(string)
			if !ok {
				return nil, fmt.Errorf("search on %s needs a string term, got %T", q.Attribute, q.Value)
			}
			conds = append(conds, bson.M{q.Attribute: bson.M{
				"$regex":   regexp.QuoteMeta(term),
				"$options": "i",
			}})
		default:
			return nil, fmt.Errorf("unsupported query operator %q", q.Operator)
		}
	}

	switch len(conds) {
	case 0:
		return bson.M{}, nil
	case 1:
		return conds[0], nil
	}
	return bson.M{"$and": conds}, nil
}

// toDocument converts a decoded BSON record into plain Go values and exposes the
// primary key as "$id".
func toDocument(raw bson.M) docstore.Document {
	doc := make(docstore.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			doc["$id"] = normalizeValue(v)
			continue
		}
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Decimal128:
		return val.String()
	case int32:
		return int64(val)
	case primitive.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	}
	return v
}
