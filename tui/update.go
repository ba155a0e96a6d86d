package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tempo/pkg/geometry"
	"tempo/tui/style"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		// Active() drops expired notifications as a side effect.
		m.container.Center.Active()
		return m, doTick()

	case refreshedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.container.Store.ReplaceAll(msg.tasks, msg.instances)
			m.relayout()
		}
		return m, nil

	case mutationResultMsg:
		m.mut.Resolve(msg.result)
		m.relayout()
		if msg.result.NeedsRefresh() {
			return m, m.refreshCmd()
		}
		return m, nil

	case pendingMsg:
		timeout := time.Duration(m.cfg.API.TimeoutSeconds) * time.Second
		return m, tea.Batch(
			runPendingCmd(msg.pending, timeout),
			m.waitPendingCmd(),
		)

	case configReloadMsg:
		m.cfg = msg.cfg
		m.container.Config = msg.cfg
		m.keys = newKeyMap(msg.cfg.Keybindings)
		style.InitStyles(msg.cfg)
		m.relayout()
		cmd := m.waitConfigCmd()
		return m, cmd
	}

	return m, nil
}

// handleMouse maps terminal mouse events onto the drag engine's four
// gesture events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := geometry.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.drag.OnDragOver(p)
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.drag.Dragging() {
				return m, nil
			}
			if card, ok := m.cardAt(p); ok {
				// Errors here mean the card vanished between render and
				// press; treat the gesture as never started.
				_ = m.drag.OnDragStart(card.dragID, p, card.rect)
			}
		case tea.MouseButtonWheelUp:
			m.scrollAt(p, -1)
			m.relayout()
		case tea.MouseButtonWheelDown:
			m.scrollAt(p, 1)
			m.relayout()
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.drag.Dragging() {
			return m, nil
		}
		pending, err := m.drag.OnDragEnd()
		m.relayout()
		if err != nil || pending == nil {
			return m, nil
		}
		timeout := time.Duration(m.cfg.API.TimeoutSeconds) * time.Second
		return m, runPendingCmd(pending, timeout)
	}

	return m, nil
}

// handleKey processes key bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		if m.drag.Dragging() {
			m.drag.OnDragCancel()
			return m, nil
		}
		if n, ok := m.container.Center.Latest(); ok {
			m.container.Center.Dismiss(n.Key)
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		// Undo rides on the most recent success notification; the
		// invoked action pushes its pending mutation onto the channel.
		if n, ok := m.container.Center.Latest(); ok {
			m.container.Center.InvokeAction(n.Key)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.NextPane):
		if m.focused == paneBoard {
			m.focused = paneCalendar
		} else {
			m.focused = paneBoard
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		m.centerDay = m.centerDay.AddDate(0, 0, -1)
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.NextDay):
		m.centerDay = m.centerDay.AddDate(0, 0, 1)
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.scrollFocused(-1)
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.scrollFocused(1)
		m.relayout()
		return m, nil
	}

	return m, nil
}

// scrollAt scrolls whichever pane is under the pointer.
func (m *Model) scrollAt(p geometry.Point, delta int) {
	if m.layout.calPane.Contains(p) {
		m.scrollCalendar(delta)
		return
	}
	m.boardScroll += delta
}

// scrollFocused scrolls the keyboard-focused pane.
func (m *Model) scrollFocused(delta int) {
	if m.focused == paneCalendar {
		m.scrollCalendar(delta)
		return
	}
	m.boardScroll += delta
}

func (m *Model) scrollCalendar(delta int) {
	cal := m.cfg.Calendar
	next := m.shared.calendarScroll + delta
	maxScroll := 24*cal.HourHeight - m.layout.gridRect.Height()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if next < 0 {
		next = 0
	}
	if next > maxScroll {
		next = maxScroll
	}
	m.shared.calendarScroll = next
}
