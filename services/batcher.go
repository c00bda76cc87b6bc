package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"kucukaslan/gadsconversion/database"
	"kucukaslan/gadsconversion/metrics"
)

var (
	// ErrBufferFull is returned when the log row buffer channel is full
	ErrBufferFull = errors.New("log buffer is full")
)

// LogRowStore persists a batch of log rows.
type LogRowStore interface {
	SaveLogRows(ctx context.Context, rows []database.LogRow) error
}

var _ database.LogRowWriter = &LogBatcher{}

// LogBatcher batches upload log rows and flushes them to ClickHouse
type LogBatcher struct {
	rowChan       chan database.LogRow
	batchSize     int
	flushInterval time.Duration
	store         LogRowStore
	log           *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
	currentBatch  []database.LogRow
}

// NewLogBatcher creates a new LogBatcher instance
func NewLogBatcher(
	capacity int,
	batchSize int,
	flushInterval time.Duration,
	store LogRowStore,
	log *zap.Logger,
) *LogBatcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LogBatcher{
		rowChan:       make(chan database.LogRow, capacity),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		store:         store,
		log:           log,
		ctx:           ctx,
		cancel:        cancel,
		currentBatch:  make([]database.LogRow, 0, batchSize),
	}
}

// Start launches the background worker goroutine
func (b *LogBatcher) Start() {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return
	}
	b.isRunning = true
	b.mu.Unlock()

	b.wg.Add(1)
	go b.worker()
	b.log.Info("LogBatcher started", zap.Int("batch_size", b.batchSize), zap.Duration("flush_interval", b.flushInterval))
}

// Enqueue adds a row to the buffer channel (non-blocking)
// Returns ErrBufferFull if the channel is full
func (b *LogBatcher) Enqueue(row database.LogRow) error {
	select {
	case b.rowChan <- row:
		metrics.LogBufferSize.Set(float64(len(b.rowChan)))
		return nil
	default:
		metrics.LogRowsDropped.WithLabelValues("buffer_full").Inc()
		return ErrBufferFull
	}
}

// WriteLogRow implements database.LogRowWriter
func (b *LogBatcher) WriteLogRow(_ context.Context, row database.LogRow) error {
	return b.Enqueue(row)
}

func (b *LogBatcher) worker() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			b.flushRemaining()
			return

		case row := <-b.rowChan:
			b.mu.Lock()
			b.currentBatch = append(b.currentBatch, row)
			shouldFlush := len(b.currentBatch) >= b.batchSize
			b.mu.Unlock()

			if shouldFlush {
				b.flushBatch()
			}

		case <-ticker.C:
			b.mu.Lock()
			hasRows := len(b.currentBatch) > 0
			b.mu.Unlock()

			if hasRows {
				b.flushBatch()
			}
		}
	}
}

// flushBatch writes the current batch to the store
func (b *LogBatcher) flushBatch() {
	b.mu.Lock()
	if len(b.currentBatch) == 0 {
		b.mu.Unlock()
		return
	}

	batch := make([]database.LogRow, len(b.currentBatch))
	copy(batch, b.currentBatch)
	b.currentBatch = b.currentBatch[:0]
	b.mu.Unlock()

	metrics.LogBufferSize.Set(float64(len(b.rowChan)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.store.SaveLogRows(ctx, batch); err != nil {
		metrics.LogRowsDropped.WithLabelValues("insert_failed").Add(float64(len(batch)))
		b.log.Debug("LogBatcher: failed to flush batch", zap.Int("rows", len(batch)), zap.Error(err))
		return
	}

	b.log.Debug("LogBatcher: flushed batch", zap.Int("rows", len(batch)))
}

// flushRemaining flushes the pending batch and whatever is left in the channel
func (b *LogBatcher) flushRemaining() {
	b.flushBatch()

	drained := 0
	for {
		select {
		case row := <-b.rowChan:
			b.mu.Lock()
			b.currentBatch = append(b.currentBatch, row)
			b.mu.Unlock()
			drained++
		default:
			if drained > 0 {
				b.log.Info("LogBatcher: drained rows during shutdown", zap.Int("rows", drained))
				b.flushBatch()
			}
			return
		}
	}
}

// Shutdown stops the worker after flushing remaining rows
func (b *LogBatcher) Shutdown() error {
	b.mu.Lock()
	if !b.isRunning {
		b.mu.Unlock()
		return nil
	}
	b.isRunning = false
	b.mu.Unlock()

	b.log.Info("LogBatcher: initiating graceful shutdown")
	b.cancel()
	b.wg.Wait()
	b.log.Info("LogBatcher: shutdown complete")
	return nil
}

// GetBufferSize returns the current number of rows in the buffer channel
func (b *LogBatcher) GetBufferSize() int {
	return len(b.rowChan)
}

// GetBatchSize returns the current number of rows in the pending batch
func (b *LogBatcher) GetBatchSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.currentBatch)
}
