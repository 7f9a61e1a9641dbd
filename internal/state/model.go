package state

import (
	"fmt"
	"image/color"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Category is one of the fixed lane labels a point can carry.
type Category int

const (
	Red Category = iota
	Green
	Blue
	Yellow
)

type categoryInfo struct {
	token string
	name  string
	color color.NRGBA
}

// Order matters: Next cycles through this table.
var categoryTable = [...]categoryInfo{
	Red:    {token: "r", name: "red lane", color: color.NRGBA{R: 255, A: 255}},
	Green:  {token: "g", name: "green lane", color: color.NRGBA{G: 128, A: 255}},
	Blue:   {token: "b", name: "blue lane", color: color.NRGBA{B: 255, A: 255}},
	Yellow: {token: "y", name: "yellow lane", color: color.NRGBA{R: 191, G: 191, A: 255}},
}

// Categories returns every category in cycle order.
func Categories() []Category {
	out := make([]Category, len(categoryTable))
	for i := range categoryTable {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryTable)
}

// Next returns the category after c, wrapping at the end of the list.
func (c Category) Next() Category {
	if !c.Valid() {
		return Red
	}
	return Category((int(c) + 1) % len(categoryTable))
}

// Token is the short label written to annotation files.
func (c Category) Token() string {
	if !c.Valid() {
		return "?"
	}
	return categoryTable[c].token
}

// Name is the human readable label.
func (c Category) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryTable[c].name
}

// Color is the opaque display color of the lane.
func (c Category) Color() color.NRGBA {
	if !c.Valid() {
		return color.NRGBA{A: 255}
	}
	return categoryTable[c].color
}

func (c Category) String() string { return c.Name() }

// ParseCategory maps a file token back to its category.
func ParseCategory(token string) (Category, error) {
	for i, info := range categoryTable {
		if info.token == token {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category token %q", token)
}

// Point is one annotated position in image pixel coordinates.
type Point struct {
	ID       string
	X        float64
	Y        float64
	Category Category
}

// NewPoint returns a point with a freshly generated id.
func NewPoint(x, y float64, c Category) Point {
	return Point{ID: uuid.NewString(), X: x, Y: y, Category: c}
}

// Pos returns the point position as a vector.
func (p Point) Pos() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

type EventType string

const (
	EventInserted EventType = "inserted"
	EventMoved    EventType = "moved"
	EventRemoved  EventType = "removed"
	EventCursor   EventType = "cursor"
	EventCategory EventType = "category"
	EventReset    EventType = "reset"
)

// Event describes one change to a Session. Index is the position of Point
// at the time of the change (-1 when not applicable).
type Event struct {
	Type     EventType
	Point    Point
	Index    int
	Category Category
	Seq      uint64
}
