package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/Crabmann2025/Book-Alchemy/internal/metadata"
)

// BookEnricher is the part of metadata.Enricher the queues depend on.
type BookEnricher interface {
	EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error)
	EnrichMissing(ctx context.Context) (*metadata.BulkEnrichmentResult, error)
}

// EnrichBookTask fetches cover and publication year for one book.
type EnrichBookTask struct {
	BookID uint `json:"book_id"`
}

func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichMissingBooksTask sweeps every book that still lacks a cover.
type EnrichMissingBooksTask struct{}

func (t EnrichMissingBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_missing_books",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Hour,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func EnrichBookProcessor(enricher BookEnricher) backlite.QueueProcessor[EnrichBookTask] {
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("enrich book %d: %w", task.BookID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			log.Printf("[TASK] Enriched book %d: updated %v via %s", task.BookID, result.FieldsUpdated, result.SearchMethod)
		} else {
			log.Printf("[TASK] Book %d: no metadata updates needed", task.BookID)
		}
		return nil
	}
}

func EnrichMissingBooksProcessor(enricher BookEnricher) backlite.QueueProcessor[EnrichMissingBooksTask] {
	return func(ctx context.Context, _ EnrichMissingBooksTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichMissing(ctx)
		if err != nil {
			return fmt.Errorf("enrich missing books: %w", err)
		}

		log.Printf("[TASK] Enrichment sweep complete: %d total, %d enriched, %d skipped, %d failed",
			result.TotalBooks, result.Enriched, result.Skipped, result.Failed)
		return nil
	}
}

// RegisterEnrichmentQueues registers both enrichment queues on the client.
func RegisterEnrichmentQueues(c *Client, enricher BookEnricher) {
	c.Register(
		backlite.NewQueue(EnrichBookProcessor(enricher)),
		backlite.NewQueue(EnrichMissingBooksProcessor(enricher)),
	)
}

// EnqueueEnrichBook schedules enrichment for a newly added book.
func (c *Client) EnqueueEnrichBook(bookID uint) error {
	if _, err := c.Add(EnrichBookTask{BookID: bookID}).Save(); err != nil {
		return fmt.Errorf("enqueue enrich_book for %d: %w", bookID, err)
	}
	return nil
}

// EnqueueEnrichMissing schedules a sweep over all books missing metadata.
func (c *Client) EnqueueEnrichMissing() error {
	if _, err := c.Add(EnrichMissingBooksTask{}).Save(); err != nil {
		return fmt.Errorf("enqueue enrich_missing_books: %w", err)
	}
	return nil
}
