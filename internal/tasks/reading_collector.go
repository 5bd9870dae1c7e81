package tasks

import (
	"context"
	"log/slog"
	"time"

	"aircare/internal/classifier"
	"aircare/internal/database"
	"aircare/internal/metrics"
	"aircare/internal/models"
)

// ReadingCollector collects sensor readings and commits them to the database in batches
type ReadingCollector struct {
	repo          database.ReadingRepository
	readingChan   <-chan *models.ReadingRecord
	batchSize     int           // maximum number of readings in a batch before committing to database
	flushInterval time.Duration // time to flush batch even if not full
}

// Default batch size is 100 readings and flush interval is 1 second
func NewReadingCollector(repo database.ReadingRepository, readingChan <-chan *models.ReadingRecord) *ReadingCollector {
	return NewReadingCollectorWithConfig(repo, readingChan, 100, 1*time.Second)
}

// NewReadingCollectorWithConfig creates a collector with custom batch settings
func NewReadingCollectorWithConfig(repo database.ReadingRepository, readingChan <-chan *models.ReadingRecord, batchSize int, flushInterval time.Duration) *ReadingCollector {
	if batchSize <= 0 {
		batchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	return &ReadingCollector{
		repo:          repo,
		readingChan:   readingChan,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Start collects readings until the context is cancelled or the channel is closed.
// Batches are flushed when they reach batchSize or when flushInterval elapses
// with readings pending. A failed insert is logged and the batch dropped.
func (c *ReadingCollector) Start(ctx context.Context) error {
	batch := make([]*models.ReadingRecord, 0, c.batchSize)

	flushBatch := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := c.repo.InsertBatch(ctx, batch); err != nil {
			metrics.IncBatchFailed()
			slog.Error("Error inserting batch of readings", "batch_size", len(batch), "error", err)
		} else {
			metrics.AddReadingsStored(len(batch))
			slog.Debug("Inserted batch of readings", "batch_size", len(batch))
		}
		batch = batch[:0]
	}

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// the parent context is gone, the final flush still needs a live one
			flushBatch(context.WithoutCancel(ctx))
			return ctx.Err()

		case <-ticker.C:
			flushBatch(ctx)

		case rec, ok := <-c.readingChan:
			if !ok {
				flushBatch(ctx)
				return nil
			}
			if rec == nil {
				continue
			}

			for _, f := range classifier.ClassifyFromReading(rec.Reading).Sorted() {
				metrics.IncZoneFlag(string(f))
				slog.Debug("Zone flagged", "aircraft", rec.AircraftID, "zone", f)
			}

			batch = append(batch, rec)
			if len(batch) >= c.batchSize {
				flushBatch(ctx)
			}
		}
	}
}
