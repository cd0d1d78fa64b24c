// Package pacing decides, once per loop iteration, whether the current
// camera frame should be recorded and whether the preview should refresh.
package pacing

import "time"

// DefaultPollDelay bounds CPU use of the capture loop. Timing accuracy is
// in the same order of magnitude, which is plenty for seconds-scale
// sampling.
const DefaultPollDelay = 10 * time.Millisecond

// Cadence is one periodic timing domain.
type Cadence struct {
	Interval time.Duration
	Next     time.Time
}

func newCadence(interval time.Duration, start time.Time) Cadence {
	return Cadence{Interval: interval, Next: start.Add(interval)}
}

// Due reports whether the cadence has elapsed at now. When it has, Next is
// moved forward by the smallest whole number of intervals that puts it
// strictly after now, so a stalled loop fires once and resyncs instead of
// replaying every missed interval.
func (c *Cadence) Due(now time.Time) bool {
	if !now.After(c.Next) {
		return false
	}
	if c.Interval <= 0 {
		c.Next = now
		return true
	}
	missed := now.Sub(c.Next) / c.Interval
	c.Next = c.Next.Add((missed + 1) * c.Interval)
	return true
}

// ForceFPS owns the recording and display cadences of a session.
type ForceFPS struct {
	record  Cadence
	display Cadence

	now   func() time.Time
	sleep func(time.Duration)
	delay time.Duration
}

// Option customises a ForceFPS.
type Option func(*ForceFPS)

// WithClock replaces time.Now. The clock is also used for the construction
// timestamp both cadences start from.
func WithClock(now func() time.Time) Option {
	return func(f *ForceFPS) { f.now = now }
}

// WithSleep replaces time.Sleep for the per-poll delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(f *ForceFPS) { f.sleep = sleep }
}

// WithPollDelay overrides DefaultPollDelay. Zero disables the delay.
func WithPollDelay(d time.Duration) Option {
	return func(f *ForceFPS) { f.delay = d }
}

// NewForceFPS builds a scheduler recording every interval and refreshing
// the display displayFPS times per second. Callers must ensure
// 1/displayFPS < interval; the scheduler itself does not check.
func NewForceFPS(interval time.Duration, displayFPS int, opts ...Option) *ForceFPS {
	f := &ForceFPS{
		now:   time.Now,
		sleep: time.Sleep,
		delay: DefaultPollDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	var displayInterval time.Duration
	if displayFPS > 0 {
		displayInterval = time.Second / time.Duration(displayFPS)
	}

	start := f.now()
	f.record = newCadence(interval, start)
	f.display = newCadence(displayInterval, start)
	return f
}

// Poll waits the poll delay and then evaluates both cadences against the
// current time.
func (f *ForceFPS) Poll() (shouldRecord, shouldDisplay bool) {
	if f.delay > 0 {
		f.sleep(f.delay)
	}
	return f.Tick(f.now())
}

// Tick evaluates both cadences against now without sleeping.
func (f *ForceFPS) Tick(now time.Time) (shouldRecord, shouldDisplay bool) {
	shouldRecord = f.record.Due(now)
	shouldDisplay = f.display.Due(now)
	return shouldRecord, shouldDisplay
}

// NextRecord is the time the recording cadence fires next.
func (f *ForceFPS) NextRecord() time.Time { return f.record.Next }

// NextDisplay is the time the display cadence fires next.
func (f *ForceFPS) NextDisplay() time.Time { return f.display.Next }

// Seconds converts a fractional number of seconds, as given on the command
// line, into a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
