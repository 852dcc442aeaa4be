package services

import (
	"context"
	"sync"
	"time"

	"foretime/internal/infrastructure/logging"
	"foretime/internal/repository"

	"github.com/benbjohnson/clock"
)

// flushTimeout bounds one database write so a wedged disk cannot stall
// shutdown.
const flushTimeout = 5 * time.Second

// Flusher periodically drains the aggregation store into the repository.
// Each interval becomes one transactional batch; when the write fails the
// drained seconds are dropped rather than retried, keeping the store from
// growing unboundedly while the database is down.
type Flusher struct {
	store    *AggregationStore
	repo     repository.UsageRepository
	clock    clock.Clock
	interval time.Duration
	logger   logging.Logger

	mutex   sync.Mutex
	stop    chan struct{}
	done    sync.WaitGroup
	running bool
}

// NewFlusher creates a flusher. A nil clk falls back to the wall clock.
func NewFlusher(store *AggregationStore, repo repository.UsageRepository, clk clock.Clock, interval time.Duration, logger logging.Logger) *Flusher {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Flusher{
		store:    store,
		repo:     repo,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the flush loop. Starting a running flusher is a no-op.
func (f *Flusher) Start() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.running {
		return
	}
	f.running = true
	f.stop = make(chan struct{})

	ticker := f.clock.Ticker(f.interval)
	f.done.Add(1)
	go f.loop(ticker, f.stop)
}

// Stop halts the flush loop, waits for it to exit and runs a final flush
// so accumulated seconds survive shutdown.
func (f *Flusher) Stop() {
	f.mutex.Lock()
	if !f.running {
		f.mutex.Unlock()
		return
	}
	f.running = false
	close(f.stop)
	f.mutex.Unlock()

	f.done.Wait()
	f.Flush(context.Background())
}

func (f *Flusher) loop(ticker *clock.Ticker, stop chan struct{}) {
	defer f.done.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.Flush(context.Background())
		case <-stop:
			return
		}
	}
}

// Flush drains the store and writes the drained interval in one batch.
// With no repository configured the drained data is discarded, which keeps
// memory bounded when persistence is unavailable.
func (f *Flusher) Flush(ctx context.Context) {
	records := f.store.DrainForFlush(f.clock.Now())
	if len(records) == 0 {
		return
	}

	if f.repo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	if err := f.repo.BatchInsertUsage(ctx, records); err != nil {
		// The interval is lost; lifetime totals in the store still carry it.
		f.logger.Error("Failed to flush usage batch, dropping interval",
			"records", len(records), "error", err)
		return
	}

	f.logger.Debug("Flushed usage batch", "records", len(records))
}
