package realtylinkfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"realtylink-parser-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchListingDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fullListingPage)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)

	record, err := adapter.FetchListingDetails(context.Background(), server.URL+"/en/prop/1")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, server.URL+"/en/prop/1", record.URL)
	assert.Equal(t, "Condo for rent", record.Title)
	assert.Equal(t, "1300", record.Price)
}

func TestFetchListingDetails_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)

	record, err := adapter.FetchListingDetails(context.Background(), server.URL+"/en/prop/404")
	require.Error(t, err)
	assert.Nil(t, record)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetchListingDetails_ExtractionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>no listing markup here</p></body></html>`)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)

	record, err := adapter.FetchListingDetails(context.Background(), server.URL+"/en/prop/2")
	require.Error(t, err)
	assert.Nil(t, record)

	var extractionErr *domain.ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "title", extractionErr.Field)
}
