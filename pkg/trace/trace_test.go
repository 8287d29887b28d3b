package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/gospin/pkg/link"
)

func TestFromFrame(t *testing.T) {
	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	p := FromFrame(link.Frame{Millis: 1000, Pwm: 128, Rpm: 1900, Running: true, Seconds: 42}, at)

	assert.Equal(t, at, p.Timestamp)
	assert.InDelta(t, 50.2, p.Duty, 0.1)
	assert.Equal(t, 1900.0, p.Rpm)
	assert.True(t, p.Running)
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(Point{Rpm: float64(i)})
	}

	assert.Equal(t, 3, h.Len())
	pts := h.Points()
	assert.Equal(t, 2.0, pts[0].Rpm)
	assert.Equal(t, 4.0, pts[2].Rpm)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(10)
	h.Add(Point{})
	h.Add(Point{})
	h.Clear()
	assert.Zero(t, h.Len())
}

func TestDownsample(t *testing.T) {
	points := make([]Point, 100)
	for i := range points {
		points[i].Rpm = float64(i)
	}

	out := Downsample(nil, points, 10)
	assert.Len(t, out, 10)
	assert.Equal(t, 0.0, out[0].Rpm, "first point kept")
	assert.Equal(t, 99.0, out[9].Rpm, "last point kept")

	// Fewer points than the cap pass through untouched.
	out = Downsample(out, points[:5], 10)
	assert.Len(t, out, 5)
	assert.Equal(t, 4.0, out[4].Rpm)
}
