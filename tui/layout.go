package tui

import (
	"fmt"
	"sort"
	"time"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
	"tempo/internal/engine"
	"tempo/internal/infrastructure/config"
	"tempo/pkg/geometry"
)

const (
	footerHeight = 3
	hourGutter   = 6
	headerLines  = 2 // date header + anytime row
)

// rowKind tags one line of the board pane's virtual list
type rowKind int

const (
	rowDomain rowKind = iota
	rowTask
	rowSubtask
	rowGap
)

// boardRow is one line of the board pane
type boardRow struct {
	kind   rowKind
	title  string
	hint   string
	dragID string
	taskID int64
	index  int // index into the full row list
}

// calCard is a scheduled card placed on the calendar grid
type calCard struct {
	dragID string
	title  string
	day    int // day column index
	row    int // grid row relative to scroll top
	span   int // rows covered
}

// cardHit is a draggable region for mouse hit-testing
type cardHit struct {
	dragID string
	rect   geometry.Rect
	title  string
}

// boardLayout is the geometry of one render pass. It is rebuilt whenever
// size, data or scroll changes, and it re-registers every drop zone so
// the classifier always matches what is on screen.
type boardLayout struct {
	boardPane  geometry.Rect
	calPane    geometry.Rect
	boardInner geometry.Rect
	calInner   geometry.Rect

	rows        []boardRow
	visibleRows []boardRow
	rowRects    []geometry.Rect

	days     []string
	dayCols  []geometry.Rect
	gridRect geometry.Rect

	cards    []cardHit
	calCards []calCard
}

// relayout recomputes geometry and re-registers all drop zones.
func (m *Model) relayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	boardWidth := m.width * 2 / 5
	if boardWidth < 28 {
		boardWidth = 28
	}
	usableHeight := m.height - footerHeight

	l := boardLayout{
		boardPane: geometry.NewRect(0, 0, boardWidth, usableHeight),
		calPane:   geometry.NewRect(boardWidth, 0, m.width-boardWidth, usableHeight),
	}
	// Border plus horizontal padding on each pane.
	l.boardInner = insetPane(l.boardPane, m.cfg.TUI.Styles.Pane)
	l.calInner = insetPane(l.calPane, m.cfg.TUI.Styles.Pane)

	l.rows = m.buildRows()
	m.clampBoardScroll(len(l.rows), l.boardInner.Height())

	visible := l.boardInner.Height()
	start := m.boardScroll
	end := start + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}
	for i := start; i < end; i++ {
		r := geometry.NewRect(
			l.boardInner.Min.X,
			l.boardInner.Min.Y+(i-start),
			l.boardInner.Width(),
			1,
		)
		l.visibleRows = append(l.visibleRows, l.rows[i])
		l.rowRects = append(l.rowRects, r)
	}

	l.days = m.visibleDays()
	m.layoutCalendar(&l)
	m.collectCalendarCards(&l)

	m.shared.gridRect = l.gridRect
	m.registerZones(&l)
	m.layout = l
}

// buildRows flattens the cache into the board pane's virtual list:
// domain headers, task cards, indented subtasks, and gap lines.
func (m *Model) buildRows() []boardRow {
	store := m.container.Store

	groups := make(map[int64][]dto.TaskDTO)
	var thoughts []dto.TaskDTO
	for _, t := range store.Tasks {
		if t.DomainID == nil {
			thoughts = append(thoughts, t)
			continue
		}
		groups[*t.DomainID] = append(groups[*t.DomainID], t)
	}
	domainIDs := make([]int64, 0, len(groups))
	for id := range groups {
		domainIDs = append(domainIDs, id)
	}
	sort.Slice(domainIDs, func(i, j int) bool { return domainIDs[i] < domainIDs[j] })

	var rows []boardRow
	addGroup := func(title string, tasks []dto.TaskDTO) {
		if len(tasks) == 0 {
			return
		}
		rows = append(rows, boardRow{kind: rowDomain, title: title, index: len(rows)})
		for _, t := range tasks {
			rows = append(rows, boardRow{
				kind:   rowTask,
				title:  t.Title,
				hint:   scheduleHint(t.ScheduledDate, t.ScheduledTime),
				dragID: engine.TaskDragID(t.ID),
				taskID: t.ID,
				index:  len(rows),
			})
			for _, sub := range t.Subtasks {
				rows = append(rows, boardRow{
					kind:   rowSubtask,
					title:  sub.Title,
					hint:   scheduleHint(sub.ScheduledDate, sub.ScheduledTime),
					dragID: engine.TaskDragID(sub.ID),
					taskID: sub.ID,
					index:  len(rows),
				})
			}
			rows = append(rows, boardRow{kind: rowGap, index: len(rows)})
		}
	}

	addGroup("Thoughts", thoughts)
	for _, id := range domainIDs {
		addGroup(fmt.Sprintf("Domain %d", id), groups[id])
	}
	return rows
}

// visibleDays returns the ISO dates of the calendar's day columns,
// centered on the model's center day.
func (m *Model) visibleDays() []string {
	n := m.cfg.Calendar.VisibleDays
	days := make([]string, n)
	first := m.centerDay.AddDate(0, 0, -(n / 2))
	for i := range days {
		days[i] = first.AddDate(0, 0, i).Format(entity.DateLayout)
	}
	return days
}

// layoutCalendar splits the calendar pane into header, anytime row and
// the hour grid with one column per day.
func (m *Model) layoutCalendar(l *boardLayout) {
	inner := l.calInner
	if len(l.days) == 0 || inner.Width() <= hourGutter {
		return
	}
	colWidth := (inner.Width() - hourGutter) / len(l.days)
	gridTop := inner.Min.Y + headerLines
	gridHeight := inner.Max.Y - gridTop
	if gridHeight < 0 {
		gridHeight = 0
	}
	l.gridRect = geometry.NewRect(inner.Min.X+hourGutter, gridTop, colWidth*len(l.days), gridHeight)

	for i := range l.days {
		x := inner.Min.X + hourGutter + i*colWidth
		l.dayCols = append(l.dayCols, geometry.NewRect(x, gridTop, colWidth, gridHeight))
	}
}

// collectCalendarCards places scheduled tasks and instances on the grid.
func (m *Model) collectCalendarCards(l *boardLayout) {
	cal := m.cfg.Calendar
	store := m.container.Store
	dayIndex := make(map[string]int, len(l.days))
	for i, d := range l.days {
		dayIndex[d] = i
	}

	place := func(dragID, title, date string, clock entity.ClockTime, duration *int) {
		day, ok := dayIndex[date]
		if !ok {
			return
		}
		row := (clock.Hour-cal.StartHour)*cal.HourHeight +
			clock.Minute*cal.HourHeight/60 -
			m.shared.calendarScroll
		span := 1
		if duration != nil && *duration > 0 {
			span = *duration * cal.HourHeight / 60
			if span < 1 {
				span = 1
			}
		}
		l.calCards = append(l.calCards, calCard{
			dragID: dragID,
			title:  title,
			day:    day,
			row:    row,
			span:   span,
		})
	}

	for _, t := range store.Tasks {
		if t.ScheduledDate != nil && t.ScheduledTime != nil {
			if clock, err := entity.ParseClockTime(*t.ScheduledTime); err == nil {
				place(engine.ScheduledCopyDragID(t.ID), t.Title, *t.ScheduledDate, clock, t.DurationMinutes)
			}
		}
		for _, sub := range t.Subtasks {
			if sub.ScheduledDate != nil && sub.ScheduledTime != nil {
				if clock, err := entity.ParseClockTime(*sub.ScheduledTime); err == nil {
					place(engine.ScheduledCopyDragID(sub.ID), sub.Title, *sub.ScheduledDate, clock, sub.DurationMinutes)
				}
			}
		}
	}
	for _, inst := range store.Instances {
		if inst.ScheduledDatetime == nil {
			continue
		}
		if dt, err := time.Parse("2006-01-02T15:04:05", *inst.ScheduledDatetime); err == nil {
			clock := entity.ClockTime{Hour: dt.Hour(), Minute: dt.Minute()}
			place(engine.InstanceDragID(inst.ID), inst.Title, dt.Format(entity.DateLayout), clock, inst.DurationMinutes)
		}
	}
}

// registerZones rebuilds the classifier's candidate set and the
// hit-testable card list from the computed layout.
func (m *Model) registerZones(l *boardLayout) {
	cal := m.cfg.Calendar
	classifier := m.drag.Classifier()
	classifier.Reset()
	l.cards = l.cards[:0]

	// Board pane: the list surface first (lowest priority wins anyway),
	// then per-row reparent targets and promote gaps.
	classifier.Register(engine.TaskListZone("promote", l.boardInner))
	for i, row := range l.visibleRows {
		r := l.rowRects[i]
		switch row.kind {
		case rowTask:
			classifier.Register(engine.TaskDropZone(row.taskID, r))
			l.cards = append(l.cards, cardHit{dragID: row.dragID, rect: r, title: row.title})
		case rowSubtask:
			l.cards = append(l.cards, cardHit{dragID: row.dragID, rect: r, title: row.title})
		case rowGap:
			classifier.Register(engine.TaskGapZone(fmt.Sprintf("%d", row.index), r))
		}
	}

	// Calendar pane: date headers, anytime row, and one time-precision
	// overlay per day column.
	inner := l.calInner
	for i, date := range l.days {
		if i >= len(l.dayCols) {
			break
		}
		col := l.dayCols[i]
		headerRect := geometry.NewRect(col.Min.X, inner.Min.Y, col.Width(), 1)
		anytimeRect := geometry.NewRect(col.Min.X, inner.Min.Y+1, col.Width(), 1)
		classifier.Register(engine.DateGroupZone(date, headerRect))
		classifier.Register(engine.AnytimeZone(date, anytimeRect))

		overlay := engine.Overlay{
			CenterDate:   date,
			PrevBoundary: col.Min.X,
			NextBoundary: col.Max.X,
			HourHeight:   cal.HourHeight,
			StartHour:    cal.StartHour,
			SnapMinutes:  cal.SnapMinutes,
			Rect:         m.liveGridRect(),
			ScrollTop:    m.liveScrollTop(),
		}
		if i > 0 {
			overlay.PrevDate = l.days[i-1]
		}
		if i < len(l.days)-1 {
			overlay.NextDate = l.days[i+1]
		}
		classifier.Register(engine.OverlayZone(overlay, col))
	}

	// Scheduled cards are draggable copies.
	for _, card := range l.calCards {
		if card.day >= len(l.dayCols) || card.row < 0 {
			continue
		}
		col := l.dayCols[card.day]
		y := l.gridRect.Min.Y + card.row
		if y >= l.gridRect.Max.Y {
			continue
		}
		l.cards = append(l.cards, cardHit{
			dragID: card.dragID,
			rect:   geometry.NewRect(col.Min.X, y, col.Width(), card.span),
			title:  card.title,
		})
	}
}

// liveGridRect returns an accessor that follows layout changes mid-drag.
func (m *Model) liveGridRect() func() geometry.Rect {
	shared := m.shared
	return func() geometry.Rect { return shared.gridRect }
}

// liveScrollTop returns an accessor for the calendar's live scroll
// offset in rows.
func (m *Model) liveScrollTop() func() int {
	shared := m.shared
	return func() int { return shared.calendarScroll }
}

// cardAt hit-tests the draggable cards; later cards (calendar copies)
// win over board rows.
func (m *Model) cardAt(p geometry.Point) (cardHit, bool) {
	for i := len(m.layout.cards) - 1; i >= 0; i-- {
		if m.layout.cards[i].rect.Contains(p) {
			return m.layout.cards[i], true
		}
	}
	return cardHit{}, false
}

func (m *Model) clampBoardScroll(total, visible int) {
	maxScroll := total - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.boardScroll > maxScroll {
		m.boardScroll = maxScroll
	}
	if m.boardScroll < 0 {
		m.boardScroll = 0
	}
}

// insetPane shrinks a pane rect by its border and padding.
func insetPane(r geometry.Rect, ps config.PaneStyle) geometry.Rect {
	return geometry.NewRect(
		r.Min.X+1+ps.PaddingHorizontal,
		r.Min.Y+1+ps.PaddingVertical,
		r.Width()-2*(1+ps.PaddingHorizontal),
		r.Height()-2*(1+ps.PaddingVertical),
	)
}

// scheduleHint renders a compact schedule suffix for a board row.
func scheduleHint(date, clock *string) string {
	switch {
	case date != nil && clock != nil:
		return fmt.Sprintf("%s %s", *date, (*clock)[:5])
	case date != nil:
		return *date
	default:
		return ""
	}
}
