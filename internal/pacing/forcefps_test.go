package pacing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand; Sleep moves it forward like the real thing.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time        { return c.t }
func (c *fakeClock) Sleep(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func newScheduler(c *fakeClock, r time.Duration, fps int) *ForceFPS {
	return NewForceFPS(r, fps, WithClock(c.Now), WithSleep(c.Sleep))
}

func TestCadenceStartsOneIntervalAfterConstruction(t *testing.T) {
	c := newFakeClock()
	start := c.Now()
	f := newScheduler(c, time.Second, 5)

	assert.Equal(t, start.Add(time.Second), f.NextRecord())
	assert.Equal(t, start.Add(200*time.Millisecond), f.NextDisplay())

	rec, disp := f.Tick(start)
	assert.False(t, rec)
	assert.False(t, disp)
}

func TestTickFiresOnlyAfterNextTime(t *testing.T) {
	c := newFakeClock()
	start := c.Now()
	f := newScheduler(c, time.Second, 5)

	// Exactly at the fire time is not "passed".
	rec, _ := f.Tick(start.Add(time.Second))
	assert.False(t, rec)

	rec, disp := f.Tick(start.Add(time.Second + time.Millisecond))
	assert.True(t, rec)
	assert.True(t, disp)
	assert.Equal(t, start.Add(2*time.Second), f.NextRecord())
}

func TestNextFireStrictlyAfterNow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		fps := 1 + rng.Intn(30)
		display := time.Second / time.Duration(fps)
		interval := display + time.Duration(1+rng.Intn(5000))*time.Millisecond

		c := newFakeClock()
		f := newScheduler(c, interval, fps)
		now := c.Now()
		for i := 0; i < 200; i++ {
			now = now.Add(time.Duration(rng.Intn(int(3 * interval))))
			rec, disp := f.Tick(now)
			if rec {
				require.True(t, f.NextRecord().After(now), "record cadence must land after now")
				require.LessOrEqual(t, f.NextRecord().Sub(now), interval)
			}
			if disp {
				require.True(t, f.NextDisplay().After(now), "display cadence must land after now")
				require.LessOrEqual(t, f.NextDisplay().Sub(now), display)
			}
			// Whether or not it fired, the next time is never behind now.
			require.False(t, f.NextRecord().Before(now))
			require.False(t, f.NextDisplay().Before(now))
		}
	}
}

func TestSkipAheadFiresOnce(t *testing.T) {
	c := newFakeClock()
	start := c.Now()
	f := newScheduler(c, time.Second, 5)

	// Simulate the loop stalling for 7.5 recording intervals.
	now := start.Add(7*time.Second + 500*time.Millisecond)
	rec, disp := f.Tick(now)
	assert.True(t, rec)
	assert.True(t, disp)
	assert.Equal(t, start.Add(8*time.Second), f.NextRecord())
	assert.True(t, f.NextRecord().Sub(now) <= time.Second)

	// Polling again right away must not replay the missed intervals.
	for i := 0; i < 10; i++ {
		now = now.Add(10 * time.Millisecond)
		rec, _ = f.Tick(now)
		assert.False(t, rec, "poll %d replayed a missed interval", i)
	}
}

func TestSkipAheadExactMultiple(t *testing.T) {
	c := newFakeClock()
	start := c.Now()
	f := newScheduler(c, time.Second, 5)

	// now lands exactly on a later grid point: the next fire must still be
	// strictly in the future.
	now := start.Add(4 * time.Second)
	rec, _ := f.Tick(now)
	assert.True(t, rec)
	assert.Equal(t, start.Add(5*time.Second), f.NextRecord())
}

func TestPollSleepsBeforeEvaluating(t *testing.T) {
	c := newFakeClock()
	f := NewForceFPS(time.Second, 5, WithClock(c.Now), WithSleep(c.Sleep), WithPollDelay(10*time.Millisecond))

	records, displays := 0, 0
	// 100 polls of 10ms = 1s of simulated time.
	for i := 0; i < 100; i++ {
		rec, disp := f.Poll()
		if rec {
			records++
		}
		if disp {
			displays++
		}
	}
	// The record cadence fires at t=1s exactly, which is not "passed" yet.
	assert.Equal(t, 0, records)
	assert.Equal(t, 4, displays)

	rec, _ := f.Poll()
	assert.True(t, rec)
}

func TestCadencesAreIndependent(t *testing.T) {
	c := newFakeClock()
	start := c.Now()
	f := newScheduler(c, 3*time.Second, 2)

	var recordAt []time.Duration
	displays := 0
	for ms := 10; ms <= 10000; ms += 10 {
		now := start.Add(time.Duration(ms) * time.Millisecond)
		rec, disp := f.Tick(now)
		if rec {
			recordAt = append(recordAt, now.Sub(start))
		}
		if disp {
			displays++
		}
	}
	assert.Equal(t, []time.Duration{3010 * time.Millisecond, 6010 * time.Millisecond, 9010 * time.Millisecond}, recordAt)
	assert.Equal(t, 19, displays)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
	assert.Equal(t, 100*time.Millisecond, Seconds(0.1))
}
