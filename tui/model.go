package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tempo/internal/application/dto"
	"tempo/internal/di"
	"tempo/internal/engine"
	"tempo/internal/infrastructure/config"
	"tempo/internal/mutation"
	"tempo/pkg/geometry"
)

// pane identifies which half of the screen has keyboard focus
type pane int

const (
	paneBoard pane = iota
	paneCalendar
)

// viewState is layout state shared across model copies so the drag
// engine's live accessors (calendar rect, scroll top) keep reading
// current values while bubbletea passes the model by value.
type viewState struct {
	calendarScroll int
	gridRect       geometry.Rect
}

// Model represents the TUI state
type Model struct {
	container *di.Container
	cfg       *config.Config
	keys      keyMap

	drag *engine.Coordinator
	mut  *mutation.Coordinator

	width  int
	height int

	focused     pane
	selectedRow int
	boardScroll int
	centerDay   time.Time

	shared  *viewState
	layout  boardLayout
	pending chan *mutation.Pending
	watcher *config.Watcher

	loading bool
	loadErr error
}

// NewModel creates a new TUI model
func NewModel(container *di.Container) Model {
	m := Model{
		container: container,
		cfg:       container.Config,
		keys:      newKeyMap(container.Config.Keybindings),
		drag:      container.Drag,
		mut:       container.Mutations,
		centerDay: time.Now(),
		shared:    &viewState{},
		pending:   make(chan *mutation.Pending, 8),
		loading:   true,
	}

	// Undo actions fire from notifications; route their network work
	// through the program's command loop instead of blocking the UI.
	container.Mutations.SetRunner(func(p *mutation.Pending) {
		m.pending <- p
	})

	if w, err := config.NewWatcher(container.Loader); err == nil {
		m.watcher = w
	}

	return m
}

// tickMsg is sent when the ticker fires
type tickMsg time.Time

// refreshedMsg carries freshly fetched collections
type refreshedMsg struct {
	tasks     []dto.TaskDTO
	instances []dto.InstanceDTO
	err       error
}

// mutationResultMsg carries the resolution of a pending network patch
type mutationResultMsg struct {
	result mutation.Result
}

// pendingMsg hands an undo's pending mutation to the command loop
type pendingMsg struct {
	pending *mutation.Pending
}

// configReloadMsg carries a hot-reloaded configuration
type configReloadMsg struct {
	cfg *config.Config
}

// doTick returns a command that waits for a tick
func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd fetches both collections from the task service
func (m Model) refreshCmd() tea.Cmd {
	api := m.container.TaskAPI
	timeout := time.Duration(m.cfg.API.TimeoutSeconds) * time.Second
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tasks, err := api.ListTasks(ctx)
		if err != nil {
			return refreshedMsg{err: err}
		}
		instances, err := api.ListInstances(ctx)
		if err != nil {
			return refreshedMsg{err: err}
		}
		return refreshedMsg{tasks: tasks, instances: instances}
	}
}

// runPendingCmd performs a pending mutation's network patch
func runPendingCmd(p *mutation.Pending, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutationResultMsg{result: p.Do(ctx)}
	}
}

// waitPendingCmd blocks on the undo channel; re-armed after each receive
func (m Model) waitPendingCmd() tea.Cmd {
	ch := m.pending
	return func() tea.Msg {
		return pendingMsg{pending: <-ch}
	}
}

// waitConfigCmd blocks on the config watcher; re-armed after each receive
func (m Model) waitConfigCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Updates()
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadMsg{cfg: cfg}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.refreshCmd(),
		doTick(),
		m.waitPendingCmd(),
	}
	if cmd := m.waitConfigCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
