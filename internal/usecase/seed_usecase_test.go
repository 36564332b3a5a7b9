package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaadplay/storefront/internal/repo/docstore"
)

func TestSeedProducts(t *testing.T) {
	store := &fakeStore{createFn: func(id string, data map[string]any) (docstore.Document, error) {
		if data["name"] == "Xbox One" {
			return nil, errors.New("document_invalid_structure")
		}
		return docstore.Document{"$id": "generated"}, nil
	}}
	uc := NewSeedUsecase(testCatalogConfig, store, newTestFallback(t))

	summary, err := uc.SeedProducts(context.Background(), SeedOptions{})
	require.NoError(t, err)
	assert.Equal(t, SeedSummary{Success: 11, Errors: 1, Total: 12}, summary)
	require.Len(t, store.created, 12)

	ps5 := store.created[0]
	assert.Equal(t, docstore.UniqueID, ps5.documentID)
	assert.Equal(t, "PlayStation 5 Console", ps5.data["name"])
	assert.Equal(t, []string{"/images/ps5/ps5_image01.png", "/images/ps5/ps5_images02.png"}, ps5.data["images"])

	specs, ok := ps5.data["specifications"].(string)
	require.True(t, ok)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(specs), &decoded))
	assert.Equal(t, "16GB GDDR6", decoded["memory"])

	card := store.created[6]
	assert.Equal(t, "", card.data["specifications"])
	assert.Equal(t, []string{card.data["image"].(string)}, card.data["images"])
}

func TestSeedProductsRoundTripsThroughTransform(t *testing.T) {
	store := &fakeStore{}
	fb := newTestFallback(t)
	uc := NewSeedUsecase(testCatalogConfig, store, fb)

	_, err := uc.SeedProducts(context.Background(), SeedOptions{PreserveIDs: true})
	require.NoError(t, err)

	for i, call := range store.created {
		want := fb.All()[i]
		assert.Equal(t, want.ID, call.documentID)

		doc := docstore.Document{"$id": call.documentID}
		for k, v := range call.data {
			doc[k] = v
		}
		got, err := TransformDocument(doc)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSeedProductsNotConfigured(t *testing.T) {
	store := &fakeStore{}
	uc := NewSeedUsecase(CatalogConfig{DatabaseID: "storefront"}, store, newTestFallback(t))

	_, err := uc.SeedProducts(context.Background(), SeedOptions{})
	assert.ErrorIs(t, err, ErrSeedNotConfigured)
	assert.Empty(t, store.created)
}

func TestSeedProductsStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	uc := NewSeedUsecase(testCatalogConfig, store, newTestFallback(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := uc.SeedProducts(ctx, SeedOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 12, summary.Total)
	assert.Empty(t, store.created)
}
