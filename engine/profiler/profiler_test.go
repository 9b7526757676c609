package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTickSamplesOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler(WithClock(clock.now), WithUpdateInterval(time.Second))

	for i := 0; i < 49; i++ {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick(), "tick %d", i)
	}
	clock.advance(20 * time.Millisecond)
	require.True(t, p.Tick())

	assert.InDelta(t, 50, p.Last().FPS, 1e-9)
	assert.Greater(t, p.Last().SysMB, 0.0)

	clock.advance(time.Second / 2)
	assert.False(t, p.Tick())
}

func TestLastIsZeroBeforeFirstSample(t *testing.T) {
	p := NewProfiler()
	assert.Equal(t, Stats{}, p.Last())
}

func TestTickLogsSample(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler(
		WithClock(clock.now),
		WithUpdateInterval(100*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	clock.advance(200 * time.Millisecond)
	require.True(t, p.Tick())

	out := buf.String()
	assert.Contains(t, out, "frame stats")
	assert.Contains(t, out, "fps=5")
	assert.Contains(t, out, "heap_mb=")
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.now)
}
