package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestSession(t *testing.T) (*Session, *[]Event) {
	t.Helper()
	s := NewSession(0)
	s.SetViewport(Identity(100, 100))
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })
	return s, &events
}

func click(s *Session, b Button, x, y float64) {
	s.Press(b, r2.Vec{X: x, Y: y})
	s.Release(b)
}

// threeLanePoints builds (10,10,r), (20,20,r), (15,30,g) by clicking.
func threeLanePoints(s *Session) {
	click(s, ButtonPrimary, 10, 10)
	click(s, ButtonPrimary, 20, 20)
	s.SwitchCategory()
	click(s, ButtonPrimary, 15, 30)
}

func TestSession_ClickBuildsPolylines(t *testing.T) {
	s, _ := newTestSession(t)
	threeLanePoints(s)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.LastIndex())
	assert.Equal(t, []r2.Vec{{X: 10, Y: 10}, {X: 20, Y: 20}}, s.PointsOfCategory(Red))
	assert.Equal(t, []r2.Vec{{X: 15, Y: 30}}, s.PointsOfCategory(Green))
}

func TestSession_SecondaryClickRemoves(t *testing.T) {
	s, events := newTestSession(t)
	threeLanePoints(s)

	click(s, ButtonSecondary, 20, 20)
	removed := (*events)[len(*events)-1]
	assert.Equal(t, EventRemoved, removed.Type)
	assert.Equal(t, 1, removed.Index)
	assert.Equal(t, 20.0, removed.Point.X)

	points := s.Points()
	require.Len(t, points, 2)
	assert.Equal(t, Point{ID: points[0].ID, X: 10, Y: 10, Category: Red}, points[0])
	assert.Equal(t, Point{ID: points[1].ID, X: 15, Y: 30, Category: Green}, points[1])
	assert.Equal(t, 1, s.LastIndex())
	assert.Equal(t, Idle, s.Mode())
}

func TestSession_SecondaryClickOnEmptySpaceIsNoop(t *testing.T) {
	s, events := newTestSession(t)
	click(s, ButtonSecondary, 50, 50)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, *events)
}

func TestSession_LastFloorsAtMinusOne(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)
	click(s, ButtonSecondary, 10, 10)
	assert.Equal(t, -1, s.LastIndex())

	click(s, ButtonPrimary, 40, 40)
	assert.Equal(t, 0, s.LastIndex())
}

func TestSession_InsertsAfterLast(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)
	click(s, ButtonPrimary, 50, 50)

	// Selecting the first point moves the insertion cursor back to it.
	click(s, ButtonPrimary, 10, 10)
	assert.Equal(t, 0, s.LastIndex())

	click(s, ButtonPrimary, 30, 30)
	xs, _, _ := s.Snapshot().Columns()
	assert.Equal(t, []float64{10, 30, 50}, xs)
	assert.Equal(t, 1, s.LastIndex())
}

func TestSession_DragMovesActivePoint(t *testing.T) {
	s, events := newTestSession(t)
	threeLanePoints(s)

	s.Press(ButtonPrimary, r2.Vec{X: 20, Y: 20})
	require.Equal(t, Dragging, s.Mode())
	assert.Equal(t, 1, s.ActiveIndex())
	assert.Equal(t, 1, s.LastIndex())

	s.Move(ButtonSecondary, r2.Vec{X: 90, Y: 90})
	s.Move(ButtonPrimary, r2.Vec{X: 200, Y: 200})
	s.Move(ButtonPrimary, r2.Vec{X: 25, Y: 22})
	s.Release(ButtonPrimary)

	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, -1, s.ActiveIndex())
	assert.Equal(t, 1, s.LastIndex())
	assert.Equal(t, []r2.Vec{{X: 10, Y: 10}, {X: 25, Y: 22}}, s.PointsOfCategory(Red))

	var moves int
	for _, e := range *events {
		if e.Type == EventMoved {
			moves++
			assert.Equal(t, Red, e.Point.Category)
		}
	}
	assert.Equal(t, 1, moves)
}

func TestSession_MoveWithoutDragIsNoop(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)
	s.Move(ButtonPrimary, r2.Vec{X: 60, Y: 60})
	assert.Equal(t, []r2.Vec{{X: 10, Y: 10}}, s.PointsOfCategory(Red))
}

func TestSession_IgnoresPressOutsideImage(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetViewport(Fit(100, 50, 100, 100))
	s.Press(ButtonPrimary, r2.Vec{X: 50, Y: 5})
	assert.Equal(t, 0, s.Len())

	s.Press(ButtonPrimary, r2.Vec{X: 50, Y: 50})
	require.Equal(t, 1, s.Len())
	assert.Equal(t, []r2.Vec{{X: 50, Y: 25}}, s.PointsOfCategory(Red))
}

func TestSession_SwitchCategoryKeepsPoints(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)

	for _, want := range []Category{Green, Blue, Yellow, Red} {
		assert.Equal(t, want, s.SwitchCategory())
	}
	p := s.Points()[0]
	assert.Equal(t, Red, p.Category)
}

func TestSession_EventsAreSequenced(t *testing.T) {
	s, events := newTestSession(t)
	threeLanePoints(s)
	click(s, ButtonSecondary, 10, 10)

	require.NotEmpty(t, *events)
	for i := 1; i < len(*events); i++ {
		assert.Greater(t, (*events)[i].Seq, (*events)[i-1].Seq)
	}
	assert.Equal(t, (*events)[len(*events)-1].Seq, s.Revision())
}

func TestSession_LoadSeedsCursor(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)
	require.True(t, s.Dirty())

	s.Load([]Point{NewPoint(1, 1, Blue), NewPoint(2, 2, Blue)})
	assert.Equal(t, 0, s.LastIndex())
	assert.Equal(t, -1, s.ActiveIndex())
	assert.False(t, s.Dirty())

	s.Load(nil)
	assert.Equal(t, -1, s.LastIndex())
	assert.Equal(t, 0, s.Len())
}

func TestSession_RemoveActiveEndsDrag(t *testing.T) {
	s, _ := newTestSession(t)
	click(s, ButtonPrimary, 10, 10)
	s.Press(ButtonPrimary, r2.Vec{X: 10, Y: 10})
	require.Equal(t, Dragging, s.Mode())

	id := s.Points()[0].ID
	require.True(t, s.RemoveID(id))
	assert.Equal(t, Idle, s.Mode())
	assert.False(t, s.RemoveID(id))
}

func TestNewSession_Tolerance(t *testing.T) {
	assert.Equal(t, DefaultTolerance, NewSession(0).Tolerance())
	assert.Equal(t, 12.0, NewSession(12).Tolerance())
}
