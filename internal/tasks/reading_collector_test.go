package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aircare/internal/database"
	"aircare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReadingRepository is a simple mock implementation of database.ReadingRepository
type mockReadingRepository struct {
	database.ReadingRepository

	mu       sync.Mutex
	readings []*models.ReadingRecord
	batches  int
	errors   []error
}

func (m *mockReadingRepository) InsertBatch(ctx context.Context, records []*models.ReadingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	if len(m.errors) > 0 {
		err := m.errors[0]
		m.errors = m.errors[1:]
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.readings = append(m.readings, records...)
	return nil
}

func (m *mockReadingRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

func reading(id string) *models.ReadingRecord {
	return &models.ReadingRecord{AircraftID: id, Reading: models.NominalReading()}
}

func TestNewReadingCollector(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 10)

	collector := NewReadingCollector(repo, readingChan)

	require.NotNil(t, collector)
	assert.Equal(t, 100, collector.batchSize)
	assert.Equal(t, 1*time.Second, collector.flushInterval)
}

func TestNewReadingCollectorWithConfig(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 10)

	collector := NewReadingCollectorWithConfig(repo, readingChan, 50, 500*time.Millisecond)
	assert.Equal(t, 50, collector.batchSize)
	assert.Equal(t, 500*time.Millisecond, collector.flushInterval)

	collector = NewReadingCollectorWithConfig(repo, readingChan, 0, 0)
	assert.Equal(t, 1, collector.batchSize)
	assert.Equal(t, time.Second, collector.flushInterval)
}

func TestReadingCollector_BatchFlush(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 100)
	batchSize := 5

	collector := NewReadingCollectorWithConfig(repo, readingChan, batchSize, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = collector.Start(ctx)
	}()

	for i := 0; i < batchSize; i++ {
		readingChan <- reading("b737")
	}

	assert.Eventually(t, func() bool { return repo.count() == batchSize }, time.Second, 10*time.Millisecond)
}

func TestReadingCollector_TimeoutFlush(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 100)

	collector := NewReadingCollectorWithConfig(repo, readingChan, 10, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = collector.Start(ctx)
	}()

	// a single reading is flushed by the ticker without further traffic
	readingChan <- reading("b737")

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestReadingCollector_ContextCancellation(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 100)

	collector := NewReadingCollectorWithConfig(repo, readingChan, 10, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- collector.Start(ctx)
	}()

	readingChan <- reading("b737")
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, repo.count(), "pending readings must be flushed on cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("Collector did not exit after context cancellation")
	}
}

func TestReadingCollector_ChannelClosed(t *testing.T) {
	repo := &mockReadingRepository{}
	readingChan := make(chan *models.ReadingRecord, 100)

	collector := NewReadingCollectorWithConfig(repo, readingChan, 10, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- collector.Start(context.Background())
	}()

	readingChan <- reading("b737")
	readingChan <- nil
	readingChan <- reading("a320")
	close(readingChan)

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Equal(t, 2, repo.count())
	case <-time.After(2 * time.Second):
		t.Fatal("Collector did not exit after channel close")
	}
}

func TestReadingCollector_InsertErrorContinues(t *testing.T) {
	repo := &mockReadingRepository{errors: []error{errors.New("database is locked")}}
	readingChan := make(chan *models.ReadingRecord, 100)

	collector := NewReadingCollectorWithConfig(repo, readingChan, 2, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- collector.Start(context.Background())
	}()

	// first batch fails and is dropped, second one lands
	for i := 0; i < 4; i++ {
		readingChan <- reading("b737")
	}
	close(readingChan)

	require.NoError(t, <-done)
	assert.Equal(t, 2, repo.count())
	assert.Equal(t, 2, repo.batches)
}
