package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"LaneLabeller/internal/state"
)

var testStyle = Style{MarkerRadius: 5, MarkerAlpha: 0.8, LineWidth: 2}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func newTestAnnotator(t *testing.T) (*AnnotatorWidget, *state.Session) {
	t.Helper()
	test.NewTempApp(t)

	session := state.NewSession(0)
	a := NewAnnotatorWidget(session, testStyle)
	a.Resize(fyne.NewSize(200, 100))
	a.SetImage(image.NewRGBA(image.Rect(0, 0, 100, 50)))
	return a, session
}

func tap(a *AnnotatorWidget, x, y float32, b desktop.MouseButton) {
	a.MouseDown(mouse(x, y, b))
	a.MouseUp(mouse(x, y, b))
}

func TestAnnotator_ClickMapsToImagePixels(t *testing.T) {
	a, session := newTestAnnotator(t)

	tap(a, 20, 40, desktop.MouseButtonPrimary)

	points := session.Points()
	require.Len(t, points, 1)
	assert.Equal(t, r2.Vec{X: 10, Y: 20}, points[0].Pos())
	assert.Equal(t, state.Red, points[0].Category)
}

func TestAnnotator_DragMovesPoint(t *testing.T) {
	a, session := newTestAnnotator(t)
	tap(a, 20, 20, desktop.MouseButtonPrimary)

	a.MouseDown(mouse(21, 21, desktop.MouseButtonPrimary))
	require.Equal(t, state.Dragging, session.Mode())
	a.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 80)}})
	a.DragEnd()

	assert.Equal(t, state.Idle, session.Mode())
	assert.Equal(t, []r2.Vec{{X: 30, Y: 40}}, session.PointsOfCategory(state.Red))
}

func TestAnnotator_SecondaryClickRemoves(t *testing.T) {
	a, session := newTestAnnotator(t)
	tap(a, 20, 20, desktop.MouseButtonPrimary)
	tap(a, 40, 40, desktop.MouseButtonPrimary)

	tap(a, 41, 39, desktop.MouseButtonSecondary)
	assert.Equal(t, []r2.Vec{{X: 10, Y: 10}}, session.PointsOfCategory(state.Red))
}

func TestAnnotator_BlankIgnoresPresses(t *testing.T) {
	a, session := newTestAnnotator(t)
	a.Blank()

	tap(a, 20, 20, desktop.MouseButtonPrimary)
	assert.Equal(t, 0, session.Len())
	assert.True(t, session.Viewport().Empty())
}

func TestAnnotator_MissingPixelsUseRawCoordinates(t *testing.T) {
	a, session := newTestAnnotator(t)
	a.SetImage(nil)

	tap(a, 150, 90, desktop.MouseButtonPrimary)
	assert.Equal(t, []r2.Vec{{X: 150, Y: 90}}, session.PointsOfCategory(state.Red))
}

func TestAnnotator_RendererDrawsLanes(t *testing.T) {
	a, session := newTestAnnotator(t)
	tap(a, 20, 20, desktop.MouseButtonPrimary)
	tap(a, 40, 40, desktop.MouseButtonPrimary)
	session.SwitchCategory()
	tap(a, 60, 60, desktop.MouseButtonPrimary)

	r := test.WidgetRenderer(a)
	r.Refresh()

	var lines, circles int
	for _, o := range r.Objects() {
		switch o.(type) {
		case *canvas.Line:
			lines++
		case *canvas.Circle:
			circles++
		}
	}
	assert.Equal(t, 1, lines, "one red segment, a single green point has none")
	assert.Equal(t, 3, circles)
}
