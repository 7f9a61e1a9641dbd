package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"

	"LaneLabeller/internal/state"
)

// Style controls how markers and lanes are drawn.
type Style struct {
	MarkerRadius float32
	MarkerAlpha  float64
	LineWidth    float32
}

// AnnotatorWidget shows the current image with its lanes drawn on top and
// turns mouse input into session presses, moves and releases.
type AnnotatorWidget struct {
	widget.BaseWidget
	session *state.Session
	style   Style
	image   image.Image
	// target is false until an image path is current; presses are ignored.
	target  bool
	pressed state.Button
}

var _ fyne.Widget = (*AnnotatorWidget)(nil)
var _ fyne.Draggable = (*AnnotatorWidget)(nil)
var _ desktop.Mouseable = (*AnnotatorWidget)(nil)

func NewAnnotatorWidget(session *state.Session, style Style) *AnnotatorWidget {
	a := &AnnotatorWidget{session: session, style: style}
	a.ExtendBaseWidget(a)
	session.Subscribe(func(state.Event) { a.Refresh() })
	return a
}

// SetImage shows img for the current image path. A nil img means the pixels
// could not be decoded; points are then drawn in raw image coordinates.
func (a *AnnotatorWidget) SetImage(img image.Image) {
	a.image = img
	a.target = true
	a.syncViewport()
	a.Refresh()
}

// Blank removes the image and stops accepting presses.
func (a *AnnotatorWidget) Blank() {
	a.image = nil
	a.target = false
	a.syncViewport()
	a.Refresh()
}

func (a *AnnotatorWidget) syncViewport() {
	size := a.Size()
	switch {
	case !a.target:
		a.session.SetViewport(state.Viewport{})
	case a.image != nil:
		b := a.image.Bounds()
		a.session.SetViewport(state.Fit(float64(b.Dx()), float64(b.Dy()), float64(size.Width), float64(size.Height)))
	default:
		a.session.SetViewport(state.Identity(float64(size.Width), float64(size.Height)))
	}
}

func (a *AnnotatorWidget) Resize(size fyne.Size) {
	a.BaseWidget.Resize(size)
	a.syncViewport()
}

func toVec(p fyne.Position) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func toPos(v r2.Vec) fyne.Position {
	return fyne.NewPos(float32(v.X), float32(v.Y))
}

func toButton(b desktop.MouseButton) state.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return state.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return state.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return state.ButtonTertiary
	}
	return state.ButtonNone
}

func (a *AnnotatorWidget) MouseDown(e *desktop.MouseEvent) {
	a.pressed = toButton(e.Button)
	a.syncViewport()
	a.session.Press(a.pressed, toVec(e.Position))
}

func (a *AnnotatorWidget) MouseUp(e *desktop.MouseEvent) {
	a.session.Release(toButton(e.Button))
	a.pressed = state.ButtonNone
}

func (a *AnnotatorWidget) Dragged(e *fyne.DragEvent) {
	a.session.Move(a.pressed, toVec(e.Position))
}

func (a *AnnotatorWidget) DragEnd() {
	a.session.Release(a.pressed)
	a.pressed = state.ButtonNone
}

func (a *AnnotatorWidget) MouseIn(*desktop.MouseEvent) {}
func (a *AnnotatorWidget) MouseOut() {}
func (a *AnnotatorWidget) MouseMoved(*desktop.MouseEvent) {}

func (a *AnnotatorWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &annotatorRenderer{
		annotator:  a,
		background: canvas.NewRectangle(color.NRGBA{R: 40, G: 40, B: 40, A: 255}),
		raster:     canvas.NewImageFromImage(nil),
	}
	r.raster.FillMode = canvas.ImageFillStretch
	r.raster.ScaleMode = canvas.ImageScaleFastest
	r.rebuild()
	return r
}

type annotatorRenderer struct {
	annotator  *AnnotatorWidget
	background *canvas.Rectangle
	raster     *canvas.Image
	overlay    []fyne.CanvasObject
}

func (r *annotatorRenderer) rebuild() {
	a := r.annotator
	view := a.session.Viewport()

	if a.image != r.raster.Image {
		r.raster.Image = a.image
		r.raster.Refresh()
	}
	r.raster.Move(fyne.NewPos(float32(view.Area.X), float32(view.Area.Y)))
	r.raster.Resize(fyne.NewSize(float32(view.Area.Width), float32(view.Area.Height)))
	if a.image == nil {
		r.raster.Hide()
	} else {
		r.raster.Show()
	}

	r.overlay = r.overlay[:0]
	if !a.target {
		return
	}
	for _, c := range state.Categories() {
		r.overlay = append(r.overlay, laneSegments(a.session.PointsOfCategory(c), view, c, a.style.LineWidth)...)
	}

	last, active := a.session.LastIndex(), a.session.ActiveIndex()
	for i, p := range a.session.Points() {
		r.overlay = append(r.overlay, r.marker(view.ToScreen(p.Pos()), p.Category, i == last, i == active))
	}
}

func laneSegments(points []r2.Vec, view state.Viewport, c state.Category, width float32) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	for i := 1; i < len(points); i++ {
		seg := canvas.NewLine(c.Color())
		seg.StrokeWidth = width
		seg.Position1 = toPos(view.ToScreen(points[i-1]))
		seg.Position2 = toPos(view.ToScreen(points[i]))
		out = append(out, seg)
	}
	return out
}

func (r *annotatorRenderer) marker(at r2.Vec, c state.Category, last, active bool) fyne.CanvasObject {
	fill := c.Color()
	fill.A = uint8(r.annotator.style.MarkerAlpha * 255)
	radius := r.annotator.style.MarkerRadius
	if active {
		radius *= 1.5
	}

	dot := canvas.NewCircle(fill)
	if last {
		dot.StrokeColor = color.White
		dot.StrokeWidth = 2
	}
	dot.Move(fyne.NewPos(float32(at.X)-radius, float32(at.Y)-radius))
	dot.Resize(fyne.NewSize(2*radius, 2*radius))
	return dot
}

func (r *annotatorRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.background, r.raster}
	return append(objects, r.overlay...)
}

func (r *annotatorRenderer) Refresh() {
	r.rebuild()
	r.background.Refresh()
	canvas.Refresh(r.annotator)
}

func (r *annotatorRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.annotator.syncViewport()
	r.rebuild()
}

func (r *annotatorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *annotatorRenderer) Destroy() {}
