// Package docstore defines the generic document database contract the catalog reads
// through. Backends live in sibling packages.
package docstore

import (
	"context"
	"fmt"
)

// UniqueID asks the backend to generate a document identifier.
const UniqueID = "unique()"

// Document is a raw record as stored remotely. Values are plain Go values: strings,
// float64/int64 numbers, bools, []any, map[string]any and nil.
type Document map[string]any

type Operator string

const (
	OpEqual  Operator = "equal"
	OpSearch Operator = "search"
)

type Query struct {
	Operator  Operator
	Attribute string
	Value     any
}

func Equal(attribute string, value any) Query {
	return Query{Operator: OpEqual, Attribute: attribute, Value: value}
}

// Search matches documents whose attribute contains term, ignoring case.
func Search(attribute string, term string) Query {
	return Query{Operator: OpSearch, Attribute: attribute, Value: term}
}

func (q Query) String() string {
	return fmt.Sprintf("%s(%s=%v)", q.Operator, q.Attribute, q.Value)
}

type Store interface {
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) ([]Document, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (Document, error)
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (Document, error)
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (Document, error)
	DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error
}
