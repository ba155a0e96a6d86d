package engine

import (
	"tempo/internal/application/dto"
	"tempo/pkg/geometry"
)

// SessionState is the drag lifecycle state.
type SessionState int

const (
	// StateIdle means no gesture is in progress.
	StateIdle SessionState = iota
	// StateDragging means a gesture is live; Over* refresh on every
	// drag-over tick until end or cancel.
	StateDragging
)

// ActiveEntity is the snapshot of the dragged task or instance, resolved
// at gesture start. Exactly one of Task or Instance is set.
type ActiveEntity struct {
	Task      *dto.TaskDTO
	Instance  *dto.InstanceDTO
	IsSubtask bool
}

// Title returns the display title of whichever entity is set.
func (e ActiveEntity) Title() string {
	switch {
	case e.Task != nil:
		return e.Task.Title
	case e.Instance != nil:
		return e.Instance.Title
	default:
		return ""
	}
}

// Session is the single source of truth for one drag gesture. It exists
// only between drag-start and drag-end/cancel and is owned exclusively by
// the drag coordinator; it is never persisted.
type Session struct {
	state  SessionState
	active DragID
	entity ActiveEntity

	overID   string
	overKind ZoneKind
	hasOver  bool

	// origin is the source card rect at grab time; grabRatioX/Y the
	// fractional point inside it where the pointer first touched. The
	// floating preview is aligned through this ratio so it does not jump
	// when its rendered size differs from the source.
	origin     geometry.Rect
	grabRatioX float64
	grabRatioY float64
}

// Start enters the dragging state, recording the active element and its
// grab geometry and clearing any previous hover classification.
func (s *Session) Start(id DragID, entity ActiveEntity, grab geometry.Point, origin geometry.Rect) {
	s.state = StateDragging
	s.active = id
	s.entity = entity
	s.overID = ""
	s.overKind = 0
	s.hasOver = false
	s.origin = origin
	if w := origin.Width(); w > 0 {
		s.grabRatioX = float64(grab.X-origin.Min.X) / float64(w)
	} else {
		s.grabRatioX = 0
	}
	if h := origin.Height(); h > 0 {
		s.grabRatioY = float64(grab.Y-origin.Min.Y) / float64(h)
	} else {
		s.grabRatioY = 0
	}
}

// SetOver refreshes the hovered zone classification.
func (s *Session) SetOver(z Zone) {
	if s.state != StateDragging {
		return
	}
	s.overID = z.ID
	s.overKind = z.Target.Kind
	s.hasOver = true
}

// ClearOver drops the hover classification while remaining in-drag.
func (s *Session) ClearOver() {
	s.overID = ""
	s.overKind = 0
	s.hasOver = false
}

// Reset returns the session to idle, discarding all gesture state.
func (s *Session) Reset() {
	*s = Session{}
}

// Dragging reports whether a gesture is live.
func (s *Session) Dragging() bool {
	return s.state == StateDragging
}

// Active returns the decoded identifier of the dragged element.
func (s *Session) Active() DragID {
	return s.active
}

// Entity returns the resolved snapshot of the dragged entity.
func (s *Session) Entity() ActiveEntity {
	return s.entity
}

// Over returns the currently hovered zone id and kind; the bool is false
// when nothing has been classified yet.
func (s *Session) Over() (string, ZoneKind, bool) {
	return s.overID, s.overKind, s.hasOver
}

// PreviewRect places the origin-sized floating preview so the grab point
// stays under the pointer.
func (s *Session) PreviewRect(pointer geometry.Point) geometry.Rect {
	w := s.origin.Width()
	h := s.origin.Height()
	x := pointer.X - int(s.grabRatioX*float64(w))
	y := pointer.Y - int(s.grabRatioY*float64(h))
	return geometry.NewRect(x, y, w, h)
}
