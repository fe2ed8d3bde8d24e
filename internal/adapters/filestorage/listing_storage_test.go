package filestorage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestListingFileStorageAdapter_SaveWritesJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	adapter, err := NewListingFileStorageAdapter(path)
	require.NoError(t, err)

	result := domain.RunResult{Records: []domain.ListingRecord{
		{
			URL:         "https://realtylink.org/en/prop/1",
			Title:       "Condo for rent",
			Region:      "Montréal",
			Address:     "100 Main St, Montréal",
			Description: "Bright condo",
			Images:      []string{"https://cdn.example.com/1.jpg"},
			Price:       "1,300$",
			Rooms:       intPtr(2),
			Area:        floatPtr(750),
		},
		{
			URL:     "https://realtylink.org/en/prop/2",
			Title:   "Apartment",
			Region:  "Laval",
			Address: "5 Oak Ave, Laval",
			Price:   "999$",
		},
	}}

	require.NoError(t, adapter.Save(context.Background(), result, uuid.New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	first := decoded[0]
	for _, key := range []string{"url", "title", "region", "address", "description", "images", "price", "rooms", "area"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "Condo for rent", first["title"])
	assert.Equal(t, float64(2), first["rooms"])

	// Опциональные поля без значения: "" / [] / null.
	second := decoded[1]
	assert.Equal(t, "", second["description"])
	assert.Equal(t, []interface{}{}, second["images"])
	assert.Nil(t, second["rooms"])
	assert.Nil(t, second["area"])
}

func TestListingFileStorageAdapter_SaveOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	adapter, err := NewListingFileStorageAdapter(path)
	require.NoError(t, err)

	first := domain.RunResult{Records: []domain.ListingRecord{
		{URL: "https://realtylink.org/en/prop/1", Title: "One", Region: "A", Address: "a, A", Price: "1$"},
		{URL: "https://realtylink.org/en/prop/2", Title: "Two", Region: "B", Address: "b, B", Price: "2$"},
	}}
	require.NoError(t, adapter.Save(context.Background(), first, uuid.New()))

	second := domain.RunResult{Records: []domain.ListingRecord{
		{URL: "https://realtylink.org/en/prop/3", Title: "Three", Region: "C", Address: "c, C", Price: "3$"},
	}}
	require.NoError(t, adapter.Save(context.Background(), second, uuid.New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []domain.ListingRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Three", decoded[0].Title)
}

func TestListingFileStorageAdapter_EmptyRunWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	adapter, err := NewListingFileStorageAdapter(path)
	require.NoError(t, err)

	require.NoError(t, adapter.Save(context.Background(), domain.RunResult{}, uuid.New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []domain.ListingRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, decoded)
}

func TestNewListingFileStorageAdapter_EmptyFilename(t *testing.T) {
	_, err := NewListingFileStorageAdapter("")
	assert.Error(t, err)
}
