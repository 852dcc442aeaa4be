package services

import (
	"context"
	"sync"
	"time"

	"foretime/internal/infrastructure/logging"
	"foretime/internal/platform"
	"foretime/internal/repository"
	"foretime/internal/types"

	"github.com/benbjohnson/clock"
)

// pruneInterval is how often rows older than the retention window are
// deleted. Retention itself is configured; the prune cadence is not
// worth a knob.
const pruneInterval = time.Hour

// TrackerConfig holds the tracking cadence and read limits.
type TrackerConfig struct {
	TickInterval  time.Duration // sampling cadence
	FlushInterval time.Duration // persistence cadence
	Retention     time.Duration // how far back reads and rows reach
	RecentLimit   int           // max rows in recent activity
}

// DefaultTrackerConfig returns the production cadence: sample every
// second, flush every 30 seconds, keep 24 hours of rows.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		TickInterval:  time.Second,
		FlushInterval: 30 * time.Second,
		Retention:     24 * time.Hour,
		RecentLimit:   50,
	}
}

func (c *TrackerConfig) applyDefaults() {
	defaults := DefaultTrackerConfig()
	if c.TickInterval <= 0 {
		c.TickInterval = defaults.TickInterval
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaults.FlushInterval
	}
	if c.Retention <= 0 {
		c.Retention = defaults.Retention
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = defaults.RecentLimit
	}
}

// Tracker wires the sampler, the aggregation store and the flusher
// together and answers dashboard reads. The repository may be nil, in
// which case tracking runs in memory only.
type Tracker struct {
	store   *AggregationStore
	sampler *Sampler
	flusher *Flusher
	repo    repository.UsageRepository
	clock   clock.Clock
	logger  logging.Logger
	config  TrackerConfig

	mutex     sync.Mutex
	startTime time.Time
	stopPrune chan struct{}
	pruneDone sync.WaitGroup
	running   bool
}

// NewTracker creates a tracker. A nil clk falls back to the wall clock and
// a nil probe to the platform default.
func NewTracker(repo repository.UsageRepository, probe platform.ProbeAPI, clk clock.Clock, config TrackerConfig, logger logging.Logger) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if probe == nil {
		probe = platform.NewProbe()
	}
	config.applyDefaults()

	store := NewAggregationStore()
	return &Tracker{
		store:   store,
		sampler: NewSampler(store, probe, clk, config.TickInterval, logger),
		flusher: NewFlusher(store, repo, clk, config.FlushInterval, logger),
		repo:    repo,
		clock:   clk,
		logger:  logger,
		config:  config,
	}
}

// Start warms the store from persisted totals inside the retention window,
// then launches the sampling, flushing and pruning loops.
func (t *Tracker) Start(ctx context.Context) {
	t.mutex.Lock()
	if t.running {
		t.mutex.Unlock()
		return
	}
	t.running = true
	t.startTime = t.clock.Now()
	t.stopPrune = make(chan struct{})
	t.mutex.Unlock()

	t.warmStart(ctx)

	t.sampler.Start()
	t.flusher.Start()

	t.pruneDone.Add(1)
	go t.pruneLoop()

	t.logger.Info("Tracking started",
		"tick", t.config.TickInterval,
		"flush", t.config.FlushInterval,
		"retention", t.config.Retention)
}

// Stop halts all loops and flushes whatever accumulated since the last
// interval.
func (t *Tracker) Stop() {
	t.mutex.Lock()
	if !t.running {
		t.mutex.Unlock()
		return
	}
	t.running = false
	close(t.stopPrune)
	t.mutex.Unlock()

	t.sampler.Stop()
	t.flusher.Stop() // runs the final flush
	t.pruneDone.Wait()

	t.logger.Info("Tracking stopped")
}

// warmStart seeds lifetime totals from rows inside the retention window so
// the dashboard does not reset to zero on restart. Failures degrade to a
// cold start.
func (t *Tracker) warmStart(ctx context.Context) {
	if t.repo == nil {
		return
	}

	since := types.RetentionCutoff(t.clock.Now(), t.config.Retention)
	known, err := t.repo.GetKnownTargets(ctx, since)
	if err != nil {
		t.logger.Warn("Failed to load persisted totals, starting cold", "error", err)
		return
	}

	for _, usage := range known {
		t.store.SeedTarget(usage.Target, usage.Seconds)
	}
	if len(known) > 0 {
		t.logger.Info("Restored usage totals", "targets", len(known))
	}
}

// pruneLoop deletes rows that fell out of the retention window.
func (t *Tracker) pruneLoop() {
	defer t.pruneDone.Done()

	ticker := t.clock.Ticker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.pruneOnce()
		case <-t.stopPrune:
			return
		}
	}
}

func (t *Tracker) pruneOnce() {
	if t.repo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	cutoff := types.RetentionCutoff(t.clock.Now(), t.config.Retention)
	if _, err := t.repo.DeleteOlderThan(ctx, cutoff); err != nil {
		t.logger.Warn("Failed to prune old usage rows", "error", err)
	}
}

// FlushNow forces an immediate flush of accumulated seconds.
func (t *Tracker) FlushNow(ctx context.Context) {
	t.flusher.Flush(ctx)
}

// Dashboard builds the snapshot served to the polling dashboard. A failed
// recent-activity read degrades to an empty list; live state is always
// returned.
func (t *Tracker) Dashboard(ctx context.Context) *types.DashboardData {
	snapshot := t.store.Snapshot()

	data := &types.DashboardData{
		ActiveApps:     snapshot.ActiveApps,
		RecentActivity: []types.UsageRecord{},
		TotalApps:      snapshot.TotalTargets,
		Uptime:         t.uptimeSeconds(),
	}

	if current := snapshot.Current; current != nil {
		data.CurrentApp = current.AppName
		if current.URL != "" {
			data.CurrentURL = current.URL
		} else {
			data.CurrentWindow = current.WindowTitle
		}
	}

	if t.repo != nil {
		since := types.RetentionCutoff(t.clock.Now(), t.config.Retention)
		recent, err := t.repo.GetRecentActivity(ctx, since, t.config.RecentLimit)
		if err != nil {
			t.logger.Warn("Failed to load recent activity", "error", err)
		} else {
			data.RecentActivity = recent
		}
	}

	return data
}

func (t *Tracker) uptimeSeconds() int64 {
	t.mutex.Lock()
	start := t.startTime
	t.mutex.Unlock()

	if start.IsZero() {
		return 0
	}
	return int64(t.clock.Now().Sub(start).Seconds())
}

// Store exposes the aggregation store for health reporting.
func (t *Tracker) Store() *AggregationStore {
	return t.store
}
