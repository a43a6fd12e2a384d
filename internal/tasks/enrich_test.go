package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/metadata"
)

type fakeEnricher struct {
	mu       sync.Mutex
	enriched []uint
	sweeps   int
	err      error
	done     chan struct{}
}

func newFakeEnricher() *fakeEnricher {
	return &fakeEnricher{done: make(chan struct{}, 4)}
}

func (f *fakeEnricher) EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error) {
	f.mu.Lock()
	f.enriched = append(f.enriched, bookID)
	f.mu.Unlock()
	defer func() { f.done <- struct{}{} }()

	if f.err != nil {
		return nil, f.err
	}
	return &metadata.EnrichmentResult{BookID: bookID, FieldsUpdated: []string{"cover_url"}, SearchMethod: "isbn"}, nil
}

func (f *fakeEnricher) EnrichMissing(ctx context.Context) (*metadata.BulkEnrichmentResult, error) {
	f.mu.Lock()
	f.sweeps++
	f.mu.Unlock()
	defer func() { f.done <- struct{}{} }()

	if f.err != nil {
		return nil, f.err
	}
	return &metadata.BulkEnrichmentResult{TotalBooks: 2, Enriched: 2}, nil
}

func TestEnrichBookTaskConfig(t *testing.T) {
	cfg := EnrichBookTask{BookID: 123}.Config()

	assert.Equal(t, "enrich_book", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.NotNil(t, cfg.Retention)
}

func TestEnrichMissingBooksTaskConfig(t *testing.T) {
	cfg := EnrichMissingBooksTask{}.Config()

	assert.Equal(t, "enrich_missing_books", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.Timeout)
}

func TestEnrichBookProcessor(t *testing.T) {
	enricher := newFakeEnricher()

	err := EnrichBookProcessor(enricher)(context.Background(), EnrichBookTask{BookID: 7})
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, enricher.enriched)
}

func TestEnrichBookProcessor_Error(t *testing.T) {
	enricher := newFakeEnricher()
	enricher.err = errors.New("lookup failed")

	err := EnrichBookProcessor(enricher)(context.Background(), EnrichBookTask{BookID: 7})
	assert.ErrorContains(t, err, "enrich book 7")
}

func TestEnrichProcessors_NilEnricher(t *testing.T) {
	assert.Error(t, EnrichBookProcessor(nil)(context.Background(), EnrichBookTask{BookID: 1}))
	assert.Error(t, EnrichMissingBooksProcessor(nil)(context.Background(), EnrichMissingBooksTask{}))
}

func TestEnrichMissingBooksProcessor(t *testing.T) {
	enricher := newFakeEnricher()

	require.NoError(t, EnrichMissingBooksProcessor(enricher)(context.Background(), EnrichMissingBooksTask{}))
	assert.Equal(t, 1, enricher.sweeps)
}

func TestEnqueueEnrichment(t *testing.T) {
	client, _ := newTestClient(t)
	enricher := newFakeEnricher()
	RegisterEnrichmentQueues(client, enricher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.NoError(t, client.EnqueueEnrichBook(42))
	require.NoError(t, client.EnqueueEnrichMissing())

	for i := 0; i < 2; i++ {
		select {
		case <-enricher.done:
		case <-time.After(5 * time.Second):
			t.Fatal("enrichment tasks were not executed within timeout")
		}
	}

	enricher.mu.Lock()
	defer enricher.mu.Unlock()
	assert.Equal(t, []uint{42}, enricher.enriched)
	assert.Equal(t, 1, enricher.sweeps)
}
