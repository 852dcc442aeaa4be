package services

import (
	"sync"
	"time"

	"foretime/internal/browser"
	"foretime/internal/infrastructure/logging"
	"foretime/internal/platform"
	"foretime/internal/types"

	"github.com/benbjohnson/clock"
)

// Sampler polls the platform probe once per tick and credits the sampled
// second to the aggregation store. Probe calls happen outside any store
// lock so a slow probe never stalls dashboard reads or flushes.
type Sampler struct {
	store    *AggregationStore
	probe    platform.ProbeAPI
	clock    clock.Clock
	interval time.Duration
	logger   logging.Logger

	mutex   sync.Mutex
	stop    chan struct{}
	done    sync.WaitGroup
	running bool
}

// NewSampler creates a sampler. A nil clk falls back to the wall clock.
func NewSampler(store *AggregationStore, probe platform.ProbeAPI, clk clock.Clock, interval time.Duration, logger logging.Logger) *Sampler {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Sampler{
		store:    store,
		probe:    probe,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the sampling loop. Starting a running sampler is a no-op.
func (s *Sampler) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})

	// The ticker is created here, not in the goroutine, so the loop is
	// guaranteed to be subscribed once Start returns.
	ticker := s.clock.Ticker(s.interval)
	s.done.Add(1)
	go s.loop(ticker, s.stop)
}

// Stop halts the sampling loop and waits for it to exit.
func (s *Sampler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mutex.Unlock()

	s.done.Wait()
}

func (s *Sampler) loop(ticker *clock.Ticker, stop chan struct{}) {
	defer s.done.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sampleOnce()
		case <-stop:
			return
		}
	}
}

// sampleOnce probes the foreground window and records one second for it.
// Ticks with no focused window are dropped entirely.
func (s *Sampler) sampleOnce() {
	info := s.probe.ForegroundWindow()
	if info == nil || info.App == "" {
		return
	}

	s.store.RecordSample(s.buildTarget(info), s.clock.Now())
}

// buildTarget derives the activity target for a probe result, extracting
// the URL from the title when the app is a recognized browser.
func (s *Sampler) buildTarget(info *platform.ForegroundInfo) types.ActivityTarget {
	var url string
	if extractor := browser.ForApp(info.App); extractor != nil {
		if extracted, ok := extractor.Extract(info.Title); ok {
			url = extracted
		}
	}
	return types.NewActivityTarget(info.App, info.Title, url)
}
