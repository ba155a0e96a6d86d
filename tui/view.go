package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tempo/internal/engine"
	"tempo/tui/style"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.loading {
		return "Fetching tasks..."
	}
	if m.loadErr != nil {
		return fmt.Sprintf("Could not reach the API: %v\n\nPress r to retry, q to quit.", m.loadErr)
	}

	board := m.renderBoard()
	calendar := m.renderCalendar()

	panes := lipgloss.JoinHorizontal(lipgloss.Top, board, calendar)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, panes, footer)
}

// renderBoard renders the left pane: domain headers, task cards and
// indented subtasks, one line each.
func (m Model) renderBoard() string {
	l := m.layout
	width := l.boardInner.Width()
	session := m.drag.Session()
	overID, _, hovering := session.Over()

	var lines []string
	for _, row := range l.visibleRows {
		var rendered string
		switch row.kind {
		case rowDomain:
			rendered = style.DomainTitleStyle.Render(padLine(row.title, width))
		case rowGap:
			if hovering && overID == engine.TaskGapID(row.index) {
				rendered = style.DropHighlightStyle.Render(padLine("──── drop here ────", width))
			} else {
				rendered = padLine("", width)
			}
		default:
			text := row.title
			if row.kind == rowSubtask {
				text = "  " + text
			}
			if row.hint != "" {
				text = fmt.Sprintf("%s  %s", text, row.hint)
			}
			text = padLine(text, width)
			switch {
			case hovering && overID == engine.TaskDropID(row.taskID):
				rendered = style.DropHighlightStyle.Render(text)
			case m.focused == paneBoard && row.index == m.selectedRow:
				rendered = style.SelectedTaskStyle.Render(text)
			default:
				rendered = style.TaskStyle.Render(text)
			}
		}
		lines = append(lines, rendered)
	}
	for len(lines) < l.boardInner.Height() {
		lines = append(lines, padLine("", width))
	}

	content := strings.Join(lines, "\n")
	pane := style.PaneStyle
	if m.focused == paneBoard {
		pane = style.FocusedPaneStyle
	}
	return pane.Width(l.boardPane.Width() - 2).Height(l.boardPane.Height() - 2).Render(content)
}

// renderCalendar renders the right pane: a date header, the anytime
// row, and the scrollable hour grid with scheduled cards placed in it.
func (m Model) renderCalendar() string {
	l := m.layout
	cal := m.cfg.Calendar
	session := m.drag.Session()
	overID, _, hovering := session.Over()

	colWidth := 0
	if len(l.dayCols) > 0 {
		colWidth = l.dayCols[0].Width()
	}

	var lines []string

	// Date header, one cell per visible day.
	var header strings.Builder
	header.WriteString(strings.Repeat(" ", hourGutter))
	for _, date := range l.days {
		cell := padLine(date, colWidth)
		if hovering && overID == engine.DateGroupID(date) {
			cell = style.DropHighlightStyle.Render(cell)
		} else {
			cell = style.DomainTitleStyle.Render(cell)
		}
		header.WriteString(cell)
	}
	lines = append(lines, header.String())

	// Anytime row: accepts date-only drops.
	var anytime strings.Builder
	anytime.WriteString(padLine("any", hourGutter))
	for _, date := range l.days {
		cell := padLine("· anytime ·", colWidth)
		if hovering && overID == engine.AnytimeID(date) {
			cell = style.DropHighlightStyle.Render(cell)
		} else {
			cell = style.HelpStyle.Render(cell)
		}
		anytime.WriteString(cell)
	}
	lines = append(lines, anytime.String())

	// Hour grid.
	gridHeight := l.gridRect.Height()
	for y := 0; y < gridHeight; y++ {
		absRow := y + m.shared.calendarScroll
		var line strings.Builder

		if absRow%cal.HourHeight == 0 {
			hour := absRow/cal.HourHeight + cal.StartHour
			line.WriteString(style.CalendarHourStyle.Render(padLine(fmt.Sprintf("%02d:00", hour%24), hourGutter)))
		} else {
			line.WriteString(strings.Repeat(" ", hourGutter))
		}

		for day := range l.days {
			line.WriteString(m.renderGridCell(day, y, absRow, colWidth, overID, hovering))
		}
		lines = append(lines, line.String())
	}

	content := strings.Join(lines, "\n")
	pane := style.PaneStyle
	if m.focused == paneCalendar {
		pane = style.FocusedPaneStyle
	}
	return pane.Width(l.calPane.Width() - 2).Height(l.calPane.Height() - 2).Render(content)
}

// renderGridCell renders one day-column cell of one grid line.
func (m Model) renderGridCell(day, row, absRow, width int, overID string, hovering bool) string {
	for _, card := range m.layout.calCards {
		if card.day != day {
			continue
		}
		if row < card.row || row >= card.row+card.span {
			continue
		}
		text := "│"
		if row == card.row {
			text = card.title
		}
		cell := padLine(text, width)
		session := m.drag.Session()
		if m.drag.Dragging() && session.Active().Raw == card.dragID {
			return style.DragPreviewStyle.Render(cell)
		}
		return style.TaskStyle.Render(cell)
	}

	filler := " "
	if absRow%m.cfg.Calendar.HourHeight == 0 {
		filler = "─"
	}
	cell := strings.Repeat(filler, width)
	if hovering && day < len(m.layout.days) && overID == engine.OverlayID(m.layout.days[day]) {
		return style.DropHighlightStyle.Render(cell)
	}
	return cell
}

// renderFooter renders the notification line, the drag status line,
// and the help line.
func (m Model) renderFooter() string {
	var note string
	if n, ok := m.container.Center.Latest(); ok {
		text := n.Message
		if n.Action != nil {
			text = fmt.Sprintf("%s  [u] %s", text, n.Action.Label)
		}
		note = style.NotificationStyle.Render(text)
	}

	var status string
	if m.drag.Dragging() {
		session := m.drag.Session()
		title := session.Entity().Title()
		if overID, _, ok := session.Over(); ok {
			status = style.DragPreviewStyle.Render(fmt.Sprintf("moving %q → %s  (esc to cancel)", title, overID))
		} else {
			status = style.DragPreviewStyle.Render(fmt.Sprintf("moving %q  (esc to cancel)", title))
		}
	}

	help := style.HelpStyle.Render("drag with mouse  •  h/l days  •  j/k scroll  •  tab pane  •  u undo  •  r refresh  •  q quit")

	return lipgloss.JoinVertical(lipgloss.Left, note, status, help)
}

// padLine pads or truncates s to exactly width cells.
func padLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
