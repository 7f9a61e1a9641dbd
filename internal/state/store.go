package state

import (
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Store is the ordered annotation set of one image. Order defines both the
// polyline connectivity and where new points are inserted.
type Store struct {
	points []Point
}

// NewStore creates an empty annotation set.
func NewStore() *Store {
	return &Store{points: make([]Point, 0)}
}

// Len returns the number of points.
func (s *Store) Len() int { return len(s.points) }

// At returns the point at index i.
func (s *Store) At(i int) (Point, bool) {
	if i < 0 || i >= len(s.points) {
		return Point{}, false
	}
	return s.points[i], true
}

// IndexOf returns the current index of the point with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range s.points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Insert adds a point at index, shifting later points. The index is clamped
// to [0, Len()].
func (s *Store) Insert(index int, x, y float64, c Category) Point {
	index = max(0, min(index, len(s.points)))
	p := NewPoint(x, y, c)
	s.points = slices.Insert(s.points, index, p)
	return p
}

// Remove deletes the point at index. Invalid indices are a no-op.
func (s *Store) Remove(index int) (Point, bool) {
	if index < 0 || index >= len(s.points) {
		return Point{}, false
	}
	p := s.points[index]
	s.points = slices.Delete(s.points, index, index+1)
	return p, true
}

// RemoveID deletes the point with the given id and reports the index it had.
func (s *Store) RemoveID(id string) (Point, int, bool) {
	i := s.IndexOf(id)
	p, ok := s.Remove(i)
	return p, i, ok
}

// Update moves the point at index. The category never changes.
func (s *Store) Update(index int, x, y float64) bool {
	if index < 0 || index >= len(s.points) {
		return false
	}
	s.points[index].X = x
	s.points[index].Y = y
	return true
}

// UpdateID moves the point with the given id and returns its index.
func (s *Store) UpdateID(id string, x, y float64) (int, bool) {
	i := s.IndexOf(id)
	return i, s.Update(i, x, y)
}

// PointsOfCategory returns the positions of one category in sequence order.
func (s *Store) PointsOfCategory(c Category) []r2.Vec {
	var out []r2.Vec
	for _, p := range s.points {
		if p.Category == c {
			out = append(out, p.Pos())
		}
	}
	return out
}

// Points returns a copy of the sequence.
func (s *Store) Points() []Point {
	return slices.Clone(s.points)
}

// Columns returns the set as parallel x, y and category lists.
func (s *Store) Columns() (xs, ys []float64, cats []Category) {
	xs = make([]float64, len(s.points))
	ys = make([]float64, len(s.points))
	cats = make([]Category, len(s.points))
	for i, p := range s.points {
		xs[i], ys[i], cats[i] = p.X, p.Y, p.Category
	}
	return xs, ys, cats
}

// Reset replaces the whole sequence. Points without an id get one.
func (s *Store) Reset(points []Point) {
	s.points = make([]Point, len(points))
	for i, p := range points {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.points[i] = p
	}
}

// Clone returns an independent copy that keeps the point ids.
func (s *Store) Clone() *Store {
	return &Store{points: s.Points()}
}

// Equal compares positions, categories and order. Ids are ignored.
func (s *Store) Equal(o *Store) bool {
	return slices.EqualFunc(s.points, o.points, func(a, b Point) bool {
		return a.X == b.X && a.Y == b.Y && a.Category == b.Category
	})
}
