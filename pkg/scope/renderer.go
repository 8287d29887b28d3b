package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/gospin/pkg/trace"
)

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	dutyColor  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	rpmColor   = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	edgeColor  = color.RGBA{R: 0, G: 100, B: 200, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	bg      *canvas.Rectangle
	objects []fyne.CanvasObject

	lastSize fyne.Size
}

func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

func (r *scopeRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the canvas objects from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.display
	rpmMax := r.scope.rpmMax
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)

	marginLeft := float32(55)
	marginRight := float32(45)
	marginTop := float32(15)
	marginBottom := float32(35)

	plot := plotArea{
		x:      marginLeft,
		y:      marginTop,
		w:      size.Width - marginLeft - marginRight,
		h:      size.Height - marginTop - marginBottom,
		rpmMax: rpmMax,
		xMin:   xMin,
		xMax:   xMax,
	}

	r.drawGrid(plot)
	if len(points) > 1 {
		r.drawRunEdges(plot, points)
		r.drawCurve(plot, points, dutyColor, 1.5, func(p trace.Point) float32 {
			return plot.yDuty(p.Duty)
		})
		r.drawCurve(plot, points, rpmColor, 2.5, func(p trace.Point) float32 {
			return plot.yRpm(p.Rpm)
		})
	}
}

// plotArea maps data coordinates to widget coordinates.
type plotArea struct {
	x, y, w, h float32
	rpmMax     float64
	xMin, xMax time.Time
}

func (p plotArea) xAt(t time.Time) float32 {
	span := p.xMax.Sub(p.xMin).Seconds()
	if span <= 0 {
		return p.x
	}
	return p.x + float32(t.Sub(p.xMin).Seconds()/span)*p.w
}

func (p plotArea) yDuty(duty float64) float32 {
	return p.y + p.h - float32(duty/100)*p.h
}

func (p plotArea) yRpm(rpm float64) float32 {
	return p.y + p.h - float32(rpm/p.rpmMax)*p.h
}

// drawGrid draws the chart grid with RPM labels on the left, duty percent
// labels on the right and elapsed time along the bottom.
func (r *scopeRenderer) drawGrid(p plotArea) {
	numHLines := 5
	for i := 0; i <= numHLines; i++ {
		y := p.y + float32(i)*p.h/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(p.x, y)
		line.Position2 = fyne.NewPos(p.x+p.w, y)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		rpm := p.rpmMax * float64(numHLines-i) / float64(numHLines)
		left := canvas.NewText(strconv.FormatFloat(rpm, 'f', 0, 64)+"R", labelColor)
		left.TextSize = 10
		left.Alignment = fyne.TextAlignTrailing
		left.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, left)

		duty := 100 * float64(numHLines-i) / float64(numHLines)
		right := canvas.NewText(strconv.FormatFloat(duty, 'f', 0, 64)+"%", labelColor)
		right.TextSize = 10
		right.Alignment = fyne.TextAlignLeading
		right.Move(fyne.NewPos(p.x+p.w+5, y-6))
		r.objects = append(r.objects, right)
	}

	numVLines := 6
	span := p.xMax.Sub(p.xMin)
	for i := 0; i <= numVLines; i++ {
		x := p.x + float32(i)*p.w/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, p.y)
		line.Position2 = fyne.NewPos(x, p.y+p.h)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		offset := span * time.Duration(i) / time.Duration(numVLines)
		text := canvas.NewText(formatElapsed(offset), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawCurve draws one polyline through the points.
func (r *scopeRenderer) drawCurve(p plotArea, points []trace.Point, col color.RGBA, stroke float32, yAt func(trace.Point) float32) {
	prev := fyne.NewPos(p.xAt(points[0].Timestamp), yAt(points[0]))
	for _, pt := range points[1:] {
		pos := fyne.NewPos(p.xAt(pt.Timestamp), yAt(pt))
		line := canvas.NewLine(col)
		line.Position1 = prev
		line.Position2 = pos
		line.StrokeWidth = stroke
		r.objects = append(r.objects, line)
		prev = pos
	}
}

// drawRunEdges draws a vertical marker wherever a run starts or stops.
func (r *scopeRenderer) drawRunEdges(p plotArea, points []trace.Point) {
	for i := 1; i < len(points); i++ {
		if points[i].Running == points[i-1].Running {
			continue
		}
		x := p.xAt(points[i].Timestamp)
		line := canvas.NewLine(edgeColor)
		line.Position1 = fyne.NewPos(x, p.y)
		line.Position2 = fyne.NewPos(x, p.y+p.h)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)
	}
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func formatElapsed(d time.Duration) string {
	s := d.Seconds()
	if s < 10 {
		return strconv.FormatFloat(s, 'f', 1, 64) + "s"
	}
	return strconv.FormatFloat(s, 'f', 0, 64) + "s"
}
