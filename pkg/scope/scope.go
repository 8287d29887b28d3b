// Package scope is a custom Fyne widget that plots the controller's
// telemetry: commanded duty, estimated RPM and run start/stop edges.
package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gospin/pkg/trace"
)

// ScopeWidget displays a scrolling strip chart of telemetry points.
type ScopeWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu     sync.RWMutex
	points []trace.Point

	// Display buffer (reused for downsampling)
	display []trace.Point

	// Auto-scaling. Duty uses a fixed 0-100 scale; RPM scales to the data.
	rpmMax     float64
	xMin, xMax time.Time

	window           time.Duration
	maxDisplayPoints int
}

// New creates a scope that always shows at least window of history.
func New(window time.Duration) *ScopeWidget {
	if window <= 0 {
		window = 60 * time.Second
	}
	s := &ScopeWidget{
		display:          make([]trace.Point, 0, 1000),
		window:           window,
		maxDisplayPoints: 1000,
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the plotted points. Call from the frame consumer
// via fyne.Do().
func (s *ScopeWidget) UpdateData(points []trace.Point) {
	s.mu.Lock()
	s.display = trace.Downsample(s.display, points, s.maxDisplayPoints)
	s.points = points
	s.updateScale()
	s.mu.Unlock()

	// Refresh must run outside the lock; the renderer takes it again.
	s.Refresh()
}

// updateScale derives the RPM and time ranges from the displayed points.
func (s *ScopeWidget) updateScale() {
	if len(s.display) == 0 {
		s.rpmMax = 1000
		s.xMin = time.Now()
		s.xMax = s.xMin.Add(s.window)
		return
	}

	s.rpmMax = 0
	for _, p := range s.display {
		if p.Rpm > s.rpmMax {
			s.rpmMax = p.Rpm
		}
	}
	if s.rpmMax == 0 {
		s.rpmMax = 1000
	}
	// Headroom so the curve does not touch the frame.
	s.rpmMax *= 1.1

	s.xMin = s.display[0].Timestamp
	s.xMax = s.display[len(s.display)-1].Timestamp
	if s.xMax.Sub(s.xMin) < s.window {
		s.xMax = s.xMin.Add(s.window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &scopeRenderer{
		scope:   s,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}
