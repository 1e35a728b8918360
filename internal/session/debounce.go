package session

import "time"

// DefaultDebounce is the quiet period after the last keystroke before a
// filename search runs.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer decides when a burst of edits has gone quiet. Time is passed in
// so callers (and tests) own the clock.
type Debouncer struct {
	interval time.Duration
	last     time.Time
	armed    bool
}

// NewDebouncer returns a disarmed debouncer. interval <= 0 means
// DefaultDebounce.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval}
}

// Touch records an edit at now and arms the debouncer.
func (d *Debouncer) Touch(now time.Time) {
	d.last = now
	d.armed = true
}

// Ready reports whether the debouncer is armed and quiet for the interval.
func (d *Debouncer) Ready(now time.Time) bool {
	return d.armed && now.Sub(d.last) >= d.interval
}

// Disarm stops the debouncer until the next Touch.
func (d *Debouncer) Disarm() { d.armed = false }

// Interval returns the quiet period.
func (d *Debouncer) Interval() time.Duration { return d.interval }
