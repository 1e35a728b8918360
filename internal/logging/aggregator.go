package logging

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

type eventKey struct {
	component string
	event     string
}

type eventTally struct {
	count int64
	last  []slog.Attr
}

// Aggregator counts noisy events (skipped files, unreadable entries) and
// logs one summary line per event kind every interval instead of one line
// per occurrence.
type Aggregator struct {
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	tallies map[eventKey]*eventTally

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewAggregator returns an aggregator flushing every intervalSecs seconds.
// A nil logger drops everything.
func NewAggregator(logger *slog.Logger, intervalSecs int) *Aggregator {
	if intervalSecs <= 0 {
		intervalSecs = 30
	}
	return &Aggregator{
		logger:   logger,
		interval: time.Duration(intervalSecs) * time.Second,
		tallies:  make(map[eventKey]*eventTally),
		stop:     make(chan struct{}),
	}
}

// Start launches the flush loop.
func (a *Aggregator) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.Flush()
			case <-a.stop:
				return
			}
		}
	}()
}

// Stop ends the flush loop and writes whatever is pending. Safe to call twice.
func (a *Aggregator) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
	a.Flush()
}

// Record bumps the counter for (component, event). The attrs of the most
// recent call are kept as sample context for the summary.
func (a *Aggregator) Record(component, event string, attrs ...slog.Attr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	k := eventKey{component: component, event: event}
	t := a.tallies[k]
	if t == nil {
		t = &eventTally{}
		a.tallies[k] = t
	}
	t.count++
	if len(attrs) > 0 {
		t.last = attrs
	}
}

// Pending returns the current count for (component, event).
func (a *Aggregator) Pending(component, event string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t := a.tallies[eventKey{component: component, event: event}]; t != nil {
		return t.count
	}
	return 0
}

// Flush logs one summary per event kind and resets the counters.
func (a *Aggregator) Flush() {
	a.mu.Lock()
	if len(a.tallies) == 0 {
		a.mu.Unlock()
		return
	}
	tallies := a.tallies
	a.tallies = make(map[eventKey]*eventTally)
	a.mu.Unlock()

	if a.logger == nil {
		return
	}

	keys := make([]eventKey, 0, len(tallies))
	for k := range tallies {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].component != keys[j].component {
			return keys[i].component < keys[j].component
		}
		return keys[i].event < keys[j].event
	})

	for _, k := range keys {
		t := tallies[k]
		args := []any{
			slog.String("component", k.component),
			slog.String("event", k.event),
			slog.Int64("count", t.count),
			slog.Duration("window", a.interval),
		}
		for _, attr := range t.last {
			args = append(args, attr)
		}
		a.logger.Info("event_summary", args...)
	}
}
