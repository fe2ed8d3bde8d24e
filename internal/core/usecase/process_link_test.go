package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []domain.ListingRecord
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, record domain.ListingRecord, _ uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, record)
	return nil
}

func TestProcessLinkUseCase_FetchesAndEnqueues(t *testing.T) {
	link := domain.ListingLink{URL: "https://realtylink.org/en/prop/1"}
	fetcher := &fakeFetcher{details: map[string]*domain.ListingRecord{
		link.URL: {URL: link.URL, Title: "Condo", Region: "Montréal"},
	}}
	queue := &fakeQueue{}
	uc := NewProcessLinkUseCase(fetcher, queue)

	record, err := uc.Execute(context.Background(), link, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Condo", record.Title)
	assert.Len(t, queue.enqueued, 1)
}

func TestProcessLinkUseCase_NilQueueIsAllowed(t *testing.T) {
	link := domain.ListingLink{URL: "https://realtylink.org/en/prop/1"}
	fetcher := &fakeFetcher{details: map[string]*domain.ListingRecord{
		link.URL: {URL: link.URL, Title: "Condo", Region: "Montréal"},
	}}
	uc := NewProcessLinkUseCase(fetcher, nil)

	record, err := uc.Execute(context.Background(), link, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestProcessLinkUseCase_EnqueueFailureIsNotFatal(t *testing.T) {
	link := domain.ListingLink{URL: "https://realtylink.org/en/prop/1"}
	fetcher := &fakeFetcher{details: map[string]*domain.ListingRecord{
		link.URL: {URL: link.URL, Title: "Condo", Region: "Montréal"},
	}}
	queue := &fakeQueue{err: errors.New("broker down")}
	uc := NewProcessLinkUseCase(fetcher, queue)

	record, err := uc.Execute(context.Background(), link, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestProcessLinkUseCase_FetchErrorPropagates(t *testing.T) {
	link := domain.ListingLink{URL: "https://realtylink.org/en/prop/404"}
	fetcher := &fakeFetcher{detailErrs: map[string]error{
		link.URL: &domain.FetchError{URL: link.URL, StatusCode: 404, Err: errors.New("not found")},
	}}
	queue := &fakeQueue{}
	uc := NewProcessLinkUseCase(fetcher, queue)

	record, err := uc.Execute(context.Background(), link, uuid.New())
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Empty(t, queue.enqueued)

	var fetchErr *domain.FetchError
	assert.True(t, errors.As(err, &fetchErr))
}
