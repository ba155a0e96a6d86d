package engine

import (
	"fmt"
	"strconv"
	"strings"

	"tempo/internal/domain/entity"
	"tempo/pkg/geometry"
)

// ZoneKind classifies a drop target. The declared order is the collision
// priority: when the pointer sits inside several overlapping zones, the
// lowest value wins.
type ZoneKind int

const (
	// ZoneDateGroup reschedules to a date without a time.
	ZoneDateGroup ZoneKind = iota
	// ZoneAnytime schedules date-only, explicitly untimed.
	ZoneAnytime
	// ZoneCalendarOverlay schedules with a precise time.
	ZoneCalendarOverlay
	// ZoneTaskDrop reparents under the target task.
	ZoneTaskDrop
	// ZoneTaskGap promotes a subtask dropped between list rows.
	ZoneTaskGap
	// ZoneTaskList promotes or unschedules on the list surface.
	ZoneTaskList
	// ZoneLegacyTask is a bare task id target, kept for reparent-by-hover.
	ZoneLegacyTask
)

// Drop-zone identifier prefixes; the identifier grammar is the external
// contract shared with the layout code that registers zones.
const (
	dateGroupPrefix = "date-group-"
	anytimePrefix   = "anytime-drop-"
	overlayPrefix   = "calendar-overlay-"
	taskDropPrefix  = "task-drop-"
	taskGapPrefix   = "task-gap-"
	taskListPrefix  = "task-list-"
	taskListPromote = "task-list-promote"
)

// Overlay carries the ancillary data of the time-precise calendar
// surface: which dates its three day sections show, the x boundaries
// between them, the vertical geometry, and live accessors so the mapping
// survives scroll and layout shifts mid-drag.
type Overlay struct {
	CenterDate string
	PrevDate   string
	NextDate   string

	// PrevBoundary/NextBoundary are the x coordinates separating the
	// prev|center and center|next day sections.
	PrevBoundary int
	NextBoundary int

	HourHeight  int
	StartHour   int
	SnapMinutes int

	Rect      func() geometry.Rect
	ScrollTop func() int
}

// DateAt picks the day section under the given x coordinate.
func (o Overlay) DateAt(x int) string {
	switch {
	case o.PrevDate != "" && x < o.PrevBoundary:
		return o.PrevDate
	case o.NextDate != "" && x >= o.NextBoundary:
		return o.NextDate
	default:
		return o.CenterDate
	}
}

// TimeAt maps a pointer position to a time of day using the overlay's
// live geometry.
func (o Overlay) TimeAt(p geometry.Point) entity.ClockTime {
	top := 0
	if o.Rect != nil {
		top = o.Rect().Min.Y
	}
	scroll := 0
	if o.ScrollTop != nil {
		scroll = o.ScrollTop()
	}
	return MapTime(p.Y-top+scroll, o.HourHeight, o.StartHour, o.SnapMinutes)
}

// DropTarget is the decoded classification of a drop zone identifier.
type DropTarget struct {
	Kind    ZoneKind
	Date    string
	TaskID  int64
	Overlay *Overlay
}

// Zone is a registered drop candidate: its identifier, its decoded
// target, and its bounding box at registration time.
type Zone struct {
	ID     string
	Rect   geometry.Rect
	Target DropTarget
}

// DateGroupZone builds a date-header drop zone.
func DateGroupZone(date string, rect geometry.Rect) Zone {
	return Zone{
		ID:     dateGroupPrefix + date,
		Rect:   rect,
		Target: DropTarget{Kind: ZoneDateGroup, Date: date},
	}
}

// AnytimeZone builds an untimed scheduling drop zone for a date.
func AnytimeZone(date string, rect geometry.Rect) Zone {
	return Zone{
		ID:     anytimePrefix + date,
		Rect:   rect,
		Target: DropTarget{Kind: ZoneAnytime, Date: date},
	}
}

// OverlayZone builds the time-precise calendar surface.
func OverlayZone(overlay Overlay, rect geometry.Rect) Zone {
	ov := overlay
	return Zone{
		ID:     overlayPrefix + overlay.CenterDate,
		Rect:   rect,
		Target: DropTarget{Kind: ZoneCalendarOverlay, Date: overlay.CenterDate, Overlay: &ov},
	}
}

// TaskDropZone builds a reparent target for the given task.
func TaskDropZone(taskID int64, rect geometry.Rect) Zone {
	return Zone{
		ID:     fmt.Sprintf("%s%d", taskDropPrefix, taskID),
		Rect:   rect,
		Target: DropTarget{Kind: ZoneTaskDrop, TaskID: taskID},
	}
}

// TaskGapZone builds a promote strip between list rows.
func TaskGapZone(suffix string, rect geometry.Rect) Zone {
	return Zone{
		ID:     taskGapPrefix + suffix,
		Rect:   rect,
		Target: DropTarget{Kind: ZoneTaskGap},
	}
}

// TaskListZone builds the list surface used for promote and unschedule.
func TaskListZone(suffix string, rect geometry.Rect) Zone {
	id := taskListPromote
	if suffix != "" && suffix != "promote" {
		id = taskListPrefix + suffix
	}
	return Zone{
		ID:     id,
		Rect:   rect,
		Target: DropTarget{Kind: ZoneTaskList},
	}
}

// LegacyTaskZone builds a bare-numeric-id reparent target.
func LegacyTaskZone(taskID int64, rect geometry.Rect) Zone {
	return Zone{
		ID:     strconv.FormatInt(taskID, 10),
		Rect:   rect,
		Target: DropTarget{Kind: ZoneLegacyTask, TaskID: taskID},
	}
}

// DateGroupID returns the zone id of a date header cell.
func DateGroupID(date string) string { return dateGroupPrefix + date }

// AnytimeID returns the zone id of a date's anytime row cell.
func AnytimeID(date string) string { return anytimePrefix + date }

// OverlayID returns the zone id of a day column's hour grid.
func OverlayID(date string) string { return overlayPrefix + date }

// TaskDropID returns the zone id of a task's reparent target.
func TaskDropID(taskID int64) string {
	return fmt.Sprintf("%s%d", taskDropPrefix, taskID)
}

// TaskGapID returns the zone id of the gap strip below a given row.
func TaskGapID(index int) string {
	return fmt.Sprintf("%s%d", taskGapPrefix, index)
}

// ParseDropID decodes a drop zone identifier without geometry. Overlay
// zones decoded this way carry only the center date; full overlay data
// exists only on registered zones.
func ParseDropID(id string) (DropTarget, error) {
	switch {
	case strings.HasPrefix(id, dateGroupPrefix):
		return DropTarget{Kind: ZoneDateGroup, Date: id[len(dateGroupPrefix):]}, nil
	case strings.HasPrefix(id, anytimePrefix):
		return DropTarget{Kind: ZoneAnytime, Date: id[len(anytimePrefix):]}, nil
	case strings.HasPrefix(id, overlayPrefix):
		return DropTarget{Kind: ZoneCalendarOverlay, Date: id[len(overlayPrefix):]}, nil
	case strings.HasPrefix(id, taskDropPrefix):
		taskID, err := strconv.ParseInt(id[len(taskDropPrefix):], 10, 64)
		if err != nil {
			return DropTarget{}, fmt.Errorf("malformed task-drop id %q", id)
		}
		return DropTarget{Kind: ZoneTaskDrop, TaskID: taskID}, nil
	case strings.HasPrefix(id, taskGapPrefix):
		return DropTarget{Kind: ZoneTaskGap}, nil
	case id == taskListPromote || strings.HasPrefix(id, taskListPrefix):
		return DropTarget{Kind: ZoneTaskList}, nil
	default:
		taskID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return DropTarget{}, fmt.Errorf("unknown drop id %q", id)
		}
		return DropTarget{Kind: ZoneLegacyTask, TaskID: taskID}, nil
	}
}

// Classifier resolves which of the registered drop zones a drag is over.
// Zones are re-registered by the layout pass each render so their rects
// track the live layout.
type Classifier struct {
	zones []Zone
}

// NewClassifier creates an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Reset clears all registered zones; called before each layout pass.
func (c *Classifier) Reset() {
	c.zones = c.zones[:0]
}

// Register adds a drop zone candidate.
func (c *Classifier) Register(z Zone) {
	c.zones = append(c.zones, z)
}

// Zones returns the registered candidates.
func (c *Classifier) Zones() []Zone {
	return c.zones
}

// Classify resolves the zone for the current pointer position and the
// dragged card's rectangle. Strategies are layered: pointer containment
// under the fixed priority order, then bounding-box intersection with the
// dragged card (preferring the calendar overlay), then nearest center. A
// result is always returned when any zone is registered.
func (c *Classifier) Classify(pointer geometry.Point, active geometry.Rect) (Zone, bool) {
	if len(c.zones) == 0 {
		return Zone{}, false
	}

	if z, ok := c.byPointer(pointer); ok {
		return z, true
	}
	if z, ok := c.byIntersection(active); ok {
		return z, true
	}
	return c.byNearestCenter(pointer)
}

// byPointer picks among zones whose box contains the pointer, by the
// fixed kind priority; registration order breaks ties.
func (c *Classifier) byPointer(pointer geometry.Point) (Zone, bool) {
	var best Zone
	found := false
	for _, z := range c.zones {
		if !z.Rect.Contains(pointer) {
			continue
		}
		if !found || z.Target.Kind < best.Target.Kind {
			best = z
			found = true
		}
	}
	return best, found
}

// byIntersection covers partially clipped targets the pointer itself
// misses: any zone overlapping the dragged card counts, and the calendar
// overlay wins over everything else since it is the easiest surface to
// overshoot during a fast drag.
func (c *Classifier) byIntersection(active geometry.Rect) (Zone, bool) {
	var best Zone
	found := false
	for _, z := range c.zones {
		if !z.Rect.Intersects(active) {
			continue
		}
		if z.Target.Kind == ZoneCalendarOverlay {
			return z, true
		}
		if !found || z.Target.Kind < best.Target.Kind {
			best = z
			found = true
		}
	}
	return best, found
}

// byNearestCenter guarantees a result whenever any zone exists.
func (c *Classifier) byNearestCenter(pointer geometry.Point) (Zone, bool) {
	best := c.zones[0]
	bestDist := geometry.DistanceSq(pointer, best.Rect.Center())
	for _, z := range c.zones[1:] {
		if d := geometry.DistanceSq(pointer, z.Rect.Center()); d < bestDist {
			best = z
			bestDist = d
		}
	}
	return best, true
}
