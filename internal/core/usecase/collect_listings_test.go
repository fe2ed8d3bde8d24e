package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetchLinksUC struct {
	links []domain.ListingLink
	pages int
	err   error
}

func (f *fakeFetchLinksUC) Execute(_ context.Context, _ domain.SearchCriteria, _ uuid.UUID) ([]domain.ListingLink, int, error) {
	return f.links, f.pages, f.err
}

type fakeProcessLinkUC struct {
	failURLs map[string]bool
	// искусственная задержка, чтобы воркеры финишировали не по порядку
	staggered bool
}

func (f *fakeProcessLinkUC) Execute(_ context.Context, link domain.ListingLink, _ uuid.UUID) (*domain.ListingRecord, error) {
	if f.failURLs[link.URL] {
		return nil, &domain.ExtractionError{URL: link.URL, Field: "price"}
	}
	if f.staggered && link.Position%2 == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	return &domain.ListingRecord{
		URL:    link.URL,
		Title:  fmt.Sprintf("listing %d", link.Position),
		Region: "Montréal",
	}, nil
}

type fakeStorage struct {
	mu    sync.Mutex
	saved []domain.RunResult
	err   error
}

func (s *fakeStorage) Save(_ context.Context, result domain.RunResult, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, result)
	return nil
}

func (s *fakeStorage) lastResult(t *testing.T) domain.RunResult {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.saved)
	return s.saved[len(s.saved)-1]
}

func TestCollectListingsUseCase_SkipsFailedListings(t *testing.T) {
	links := makeLinks(1, 5)
	storage := &fakeStorage{}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{links: links, pages: 1},
		&fakeProcessLinkUC{failURLs: map[string]bool{links[1].URL: true, links[3].URL: true}},
		[]port.ListingStoragePort{storage},
		1,
	)

	stats, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 60}, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.LinksCollected)
	assert.Equal(t, 3, stats.RecordsParsed)
	assert.Equal(t, 2, stats.ListingsSkipped)

	result := storage.lastResult(t)
	require.Len(t, result.Records, 3)
	assert.Equal(t, links[0].URL, result.Records[0].URL)
	assert.Equal(t, links[2].URL, result.Records[1].URL)
	assert.Equal(t, links[4].URL, result.Records[2].URL)
}

func TestCollectListingsUseCase_PreservesOrderWithWorkers(t *testing.T) {
	links := makeLinks(1, 20)
	storage := &fakeStorage{}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{links: links, pages: 1},
		&fakeProcessLinkUC{staggered: true},
		[]port.ListingStoragePort{storage},
		4,
	)

	stats, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 60}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 20, stats.RecordsParsed)

	result := storage.lastResult(t)
	require.Len(t, result.Records, 20)
	for i, record := range result.Records {
		assert.Equal(t, links[i].URL, record.URL, "record %d out of order", i)
	}
}

func TestCollectListingsUseCase_TruncatesToTargetCount(t *testing.T) {
	links := makeLinks(1, 10)
	storage := &fakeStorage{}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{links: links, pages: 1},
		&fakeProcessLinkUC{},
		[]port.ListingStoragePort{storage},
		2,
	)

	stats, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 7}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.RecordsParsed)
	assert.Len(t, storage.lastResult(t).Records, 7)
}

func TestCollectListingsUseCase_PropagatesStartupError(t *testing.T) {
	startupErr := &domain.StartupError{Err: errors.New("index unreachable")}
	storage := &fakeStorage{}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{err: startupErr},
		&fakeProcessLinkUC{},
		[]port.ListingStoragePort{storage},
		1,
	)

	stats, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 60}, uuid.New())
	require.Error(t, err)
	assert.Nil(t, stats)

	var se *domain.StartupError
	assert.True(t, errors.As(err, &se))
	assert.Empty(t, storage.saved)
}

func TestCollectListingsUseCase_StorageErrorFailsRun(t *testing.T) {
	links := makeLinks(1, 3)
	storage := &fakeStorage{err: errors.New("disk full")}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{links: links, pages: 1},
		&fakeProcessLinkUC{},
		[]port.ListingStoragePort{storage},
		1,
	)

	stats, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 60}, uuid.New())
	require.Error(t, err)
	assert.Nil(t, stats)
}

func TestCollectListingsUseCase_SavesToAllStorages(t *testing.T) {
	links := makeLinks(1, 3)
	first := &fakeStorage{}
	second := &fakeStorage{}
	uc := NewCollectListingsUseCase(
		&fakeFetchLinksUC{links: links, pages: 1},
		&fakeProcessLinkUC{},
		[]port.ListingStoragePort{first, second},
		1,
	)

	_, err := uc.Execute(context.Background(), domain.SearchCriteria{Name: "t", TargetCount: 60}, uuid.New())
	require.NoError(t, err)
	assert.Len(t, first.lastResult(t).Records, 3)
	assert.Len(t, second.lastResult(t).Records, 3)
}
