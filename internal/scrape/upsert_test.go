package scrape

import (
	"context"
	"errors"
	"sync"
	"testing"

	"propertyhub/pkg/models"
)

// fakeStore dedups on listing_url in memory, mirroring the unique-constraint
// behavior of the SQL store. Safe for the ingestor's concurrent upserts.
type fakeStore struct {
	mu           sync.Mutex
	byURL        map[string]string
	listingTypes map[string]string // listing_url -> listing_type_id
	metadata     map[string][]byte
	insErr       error
	metaErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byURL:        make(map[string]string),
		listingTypes: make(map[string]string),
		metadata:     make(map[string][]byte),
	}
}

func (f *fakeStore) InsertProperty(_ context.Context, p models.Property) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insErr != nil {
		return "", false, f.insErr
	}
	if _, exists := f.byURL[p.ListingURL]; exists {
		return "", false, nil
	}
	f.byURL[p.ListingURL] = p.PropertyID
	f.listingTypes[p.ListingURL] = p.ListingTypeID
	return p.PropertyID, true, nil
}

func (f *fakeStore) InsertMetadata(_ context.Context, propertyID string, metadata []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.metaErr != nil {
		return f.metaErr
	}
	f.metadata[propertyID] = metadata
	return nil
}

func TestUpsertIdempotence(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(store)
	ctx := context.Background()

	row := models.Property{PropertyID: "id-1", ListingURL: "https://example.com/unit-1"}
	meta := map[string]any{"price": 5500000.0}

	id, err := coord.Upsert(ctx, row, meta)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if id != "id-1" {
		t.Fatalf("first upsert id = %q, want id-1", id)
	}

	// Same listing again, different generated id.
	row2 := models.Property{PropertyID: "id-2", ListingURL: "https://example.com/unit-1"}
	id, err = coord.Upsert(ctx, row2, meta)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id != "" {
		t.Fatalf("second upsert id = %q, want empty (conflict)", id)
	}

	if len(store.byURL) != 1 {
		t.Errorf("property rows = %d, want 1", len(store.byURL))
	}
	if len(store.metadata) != 1 {
		t.Errorf("metadata rows = %d, want 1", len(store.metadata))
	}
	if _, ok := store.metadata["id-1"]; !ok {
		t.Error("metadata must be attached to the first write's id")
	}
}

func TestUpsertSkipsMetadataOnConflict(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(store)
	ctx := context.Background()

	if _, err := coord.Upsert(ctx, models.Property{PropertyID: "a", ListingURL: "u"}, nil); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	store.metaErr = errors.New("must not be called")
	if _, err := coord.Upsert(ctx, models.Property{PropertyID: "b", ListingURL: "u"}, nil); err != nil {
		t.Fatalf("conflicting upsert must not touch metadata: %v", err)
	}
}

func TestUpsertPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.insErr = errors.New("connection refused")
	coord := NewCoordinator(store)

	_, err := coord.Upsert(context.Background(), models.Property{PropertyID: "a", ListingURL: "u"}, nil)
	if err == nil {
		t.Fatal("want error from store")
	}
	if !errors.Is(err, store.insErr) {
		t.Errorf("error must wrap the store error, got %v", err)
	}
}
