// Package trace keeps a bounded history of telemetry points for plotting.
package trace

import (
	"time"

	"github.com/itohio/gospin/pkg/link"
)

// Point is one plotted telemetry sample.
type Point struct {
	Timestamp time.Time
	Duty      float64 // percent, 0-100
	Rpm       float64
	Running   bool
}

// FromFrame converts a telemetry frame received at the given wall time.
func FromFrame(f link.Frame, at time.Time) Point {
	return Point{
		Timestamp: at,
		Duty:      float64(f.Pwm) * 100 / 255,
		Rpm:       float64(f.Rpm),
		Running:   f.Running,
	}
}

// History is a bounded, append-only series of points. Once full, the
// oldest points fall off the front.
type History struct {
	points []Point
	max    int
}

// NewHistory returns a history that retains at most max points.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 1
	}
	return &History{points: make([]Point, 0, max), max: max}
}

// Add appends one point, evicting the oldest when full.
func (h *History) Add(p Point) {
	if len(h.points) == h.max {
		copy(h.points, h.points[1:])
		h.points = h.points[:h.max-1]
	}
	h.points = append(h.points, p)
}

// Len returns the number of retained points.
func (h *History) Len() int { return len(h.points) }

// Points returns the retained points, oldest first. The slice is shared;
// callers must not modify it.
func (h *History) Points() []Point { return h.points }

// Clear drops all retained points.
func (h *History) Clear() { h.points = h.points[:0] }

// Downsample decimates points into dst so at most maxPoints survive,
// keeping the first and last. It returns the filled dst.
func Downsample(dst []Point, points []Point, maxPoints int) []Point {
	dst = dst[:0]
	if maxPoints <= 0 || len(points) <= maxPoints {
		return append(dst, points...)
	}
	step := float64(len(points)-1) / float64(maxPoints-1)
	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= len(points) {
			idx = len(points) - 1
		}
		dst = append(dst, points[idx])
	}
	return dst
}
