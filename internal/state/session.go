package state

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Button identifies a pointer button independently of the UI toolkit.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonTertiary
)

// Mode is the interaction state of a Session.
type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Session is the annotation state of the image on screen: the point
// sequence, the active and last cursors, and the current category.
// Subscribers are told about every change so the renderer can redraw.
type Session struct {
	store     *Store
	view      Viewport
	tolerance float64
	category  Category
	mode      Mode
	active    string
	last      string
	dirty     bool
	clock     clock
	listeners []func(Event)
}

// NewSession creates an empty session. A non-positive tolerance falls back
// to DefaultTolerance.
func NewSession(tolerance float64) *Session {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Session{store: NewStore(), tolerance: tolerance, category: Red}
}

// Subscribe registers fn to be called after every change.
func (s *Session) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) emit(e Event) {
	e.Seq = s.clock.Tick()
	for _, fn := range s.listeners {
		fn(e)
	}
}

// SetViewport sets the image to screen mapping used for input events.
func (s *Session) SetViewport(v Viewport) { s.view = v }

// Viewport returns the current image to screen mapping.
func (s *Session) Viewport() Viewport { return s.view }

// Tolerance returns the pick radius in screen pixels.
func (s *Session) Tolerance() float64 { return s.tolerance }

func (s *Session) Len() int { return s.store.Len() }

// Points returns a copy of the point sequence.
func (s *Session) Points() []Point { return s.store.Points() }

func (s *Session) Mode() Mode { return s.mode }

// Category is the category given to new points.
func (s *Session) Category() Category { return s.category }

// Dirty reports whether points changed since the last Load or MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

// Revision is the sequence number of the last emitted event.
func (s *Session) Revision() uint64 { return s.clock.Now() }

// PointsOfCategory returns one category's polyline in sequence order.
func (s *Session) PointsOfCategory(c Category) []r2.Vec {
	return s.store.PointsOfCategory(c)
}

// Snapshot returns an independent copy of the annotation set.
func (s *Session) Snapshot() *Store { return s.store.Clone() }

// ActiveIndex is the index of the point being dragged, or -1.
func (s *Session) ActiveIndex() int { return s.store.IndexOf(s.active) }

// LastIndex is the insertion cursor, or -1 when nothing precedes new points.
func (s *Session) LastIndex() int { return s.store.IndexOf(s.last) }

// SetCategory selects the category for new points.
func (s *Session) SetCategory(c Category) {
	if !c.Valid() || c == s.category {
		return
	}
	s.category = c
	s.emit(Event{Type: EventCategory, Index: -1, Category: c})
}

// SwitchCategory advances to the next category in the cycle.
func (s *Session) SwitchCategory() Category {
	s.SetCategory(s.category.Next())
	return s.category
}

// Press handles a button press at a screen position. Presses outside the
// image are ignored.
func (s *Session) Press(b Button, screen r2.Vec) {
	if !s.view.Inside(screen) {
		return
	}
	idx, hit := FindNearest(s.store.points, screen, s.tolerance, s.view)

	switch b {
	case ButtonPrimary:
		if hit {
			p, _ := s.store.At(idx)
			s.active, s.last = p.ID, p.ID
			s.mode = Dragging
			s.emit(Event{Type: EventCursor, Point: p, Index: idx, Category: p.Category})
			return
		}
		pos := s.view.ToImage(screen)
		at := s.LastIndex() + 1
		p := s.store.Insert(at, pos.X, pos.Y, s.category)
		s.last = p.ID
		s.dirty = true
		s.emit(Event{Type: EventInserted, Point: p, Index: at, Category: p.Category})
	case ButtonSecondary:
		if hit {
			p, _ := s.store.At(idx)
			s.RemoveID(p.ID)
		}
	}
}

// Move drags the active point. Only primary-button motion inside the image
// while dragging has an effect.
func (s *Session) Move(b Button, screen r2.Vec) {
	if s.mode != Dragging || b != ButtonPrimary || !s.view.Inside(screen) {
		return
	}
	pos := s.view.ToImage(screen)
	idx, ok := s.store.UpdateID(s.active, pos.X, pos.Y)
	if !ok {
		return
	}
	s.dirty = true
	p, _ := s.store.At(idx)
	s.emit(Event{Type: EventMoved, Point: p, Index: idx, Category: p.Category})
}

// Release ends a drag. The last cursor stays where the drag left it.
func (s *Session) Release(b Button) {
	if b != ButtonPrimary || s.mode != Dragging {
		return
	}
	s.mode = Idle
	s.active = ""
	idx := s.LastIndex()
	p, _ := s.store.At(idx)
	s.emit(Event{Type: EventCursor, Point: p, Index: idx, Category: p.Category})
}

// RemoveID deletes a point by id, as a secondary click on it would.
func (s *Session) RemoveID(id string) bool {
	lastIdx := s.LastIndex()
	p, idx, ok := s.store.RemoveID(id)
	if !ok {
		return false
	}
	if p.ID == s.active {
		s.active = ""
		s.mode = Idle
	}
	lastIdx = max(lastIdx-1, -1)
	lastIdx = min(lastIdx, s.store.Len()-1)
	s.last = ""
	if q, ok := s.store.At(lastIdx); ok {
		s.last = q.ID
	}
	s.dirty = true
	s.emit(Event{Type: EventRemoved, Point: p, Index: idx, Category: p.Category})
	return true
}

// ResetTransient drops any drag in progress.
func (s *Session) ResetTransient() {
	s.mode = Idle
	s.active = ""
}

// Load replaces the annotation set, for example when a new image arrives.
// The last cursor is placed on the first point if there is one.
func (s *Session) Load(points []Point) {
	s.store.Reset(points)
	s.ResetTransient()
	s.last = ""
	if p, ok := s.store.At(0); ok {
		s.last = p.ID
	}
	s.dirty = false
	s.emit(Event{Type: EventReset, Index: -1, Category: s.category})
}

// Clear removes every point and marks the session dirty.
func (s *Session) Clear() {
	s.store.Reset(nil)
	s.ResetTransient()
	s.last = ""
	s.dirty = true
	s.emit(Event{Type: EventReset, Index: -1, Category: s.category})
}
