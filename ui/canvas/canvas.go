// Package canvas provides the heat map canvas widget.
package canvas

import (
	"image"
	"sync"

	"tree-heat/internal/app"
	"tree-heat/internal/raster"
	"tree-heat/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// HeatCanvas displays rendered frames at a fixed raster size and tracks the
// pointer in raster pixel coordinates.
type HeatCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	width   int
	height  int
	frame   *image.RGBA
	pointer app.PointerEvent
	inside  bool

	raster *fynecanvas.Raster
}

// NewHeatCanvas creates a canvas for width x height frames.
func NewHeatCanvas(width, height int) *HeatCanvas {
	hc := &HeatCanvas{
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	hc.raster = fynecanvas.NewRaster(hc.draw)
	hc.raster.ScaleMode = fynecanvas.ImageScalePixels
	hc.raster.SetMinSize(fyne.NewSize(float32(width), float32(height)))

	hc.ExtendBaseWidget(hc)
	return hc
}

// CreateRenderer implements fyne.Widget.
func (hc *HeatCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &heatCanvasRenderer{canvas: hc}
}

// MinSize returns the configured raster size.
func (hc *HeatCanvas) MinSize() fyne.Size {
	return hc.raster.MinSize()
}

// SetFrame replaces the displayed frame.
func (hc *HeatCanvas) SetFrame(r *raster.Raster) {
	if r == nil {
		return
	}
	img := r.ToRGBA()
	hc.mu.Lock()
	hc.frame = img
	hc.mu.Unlock()
	hc.raster.Refresh()
}

// Pointer returns the latest pointer state and whether the pointer is over the canvas.
func (hc *HeatCanvas) Pointer() (app.PointerEvent, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.pointer, hc.inside
}

func (hc *HeatCanvas) draw(w, h int) image.Image {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.frame
}

// toRaster converts a widget position to raster pixels.
func (hc *HeatCanvas) toRaster(pos fyne.Position) geometry.Point2D {
	size := hc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
	}
	t := geometry.Scale(float64(hc.width)/float64(size.Width), float64(hc.height)/float64(size.Height))
	return t.Apply(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

func (hc *HeatCanvas) move(pos fyne.Position) {
	p := hc.toRaster(pos)
	hc.mu.Lock()
	hc.pointer.X, hc.pointer.Y = p.X, p.Y
	hc.inside = true
	hc.mu.Unlock()
}

// MouseIn implements desktop.Hoverable.
func (hc *HeatCanvas) MouseIn(ev *desktop.MouseEvent) {
	hc.move(ev.Position)
}

// MouseMoved implements desktop.Hoverable.
func (hc *HeatCanvas) MouseMoved(ev *desktop.MouseEvent) {
	hc.move(ev.Position)
}

// MouseOut implements desktop.Hoverable. The last position is kept.
func (hc *HeatCanvas) MouseOut() {
	hc.mu.Lock()
	hc.inside = false
	hc.pointer.PrimaryDown = false
	hc.mu.Unlock()
}

// MouseDown implements desktop.Mouseable.
func (hc *HeatCanvas) MouseDown(ev *desktop.MouseEvent) {
	hc.move(ev.Position)
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	hc.mu.Lock()
	hc.pointer.PrimaryDown = true
	hc.mu.Unlock()
}

// MouseUp implements desktop.Mouseable.
func (hc *HeatCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	hc.mu.Lock()
	hc.pointer.PrimaryDown = false
	hc.mu.Unlock()
}

type heatCanvasRenderer struct {
	canvas *HeatCanvas
}

func (r *heatCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *heatCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *heatCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *heatCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *heatCanvasRenderer) Destroy() {}
