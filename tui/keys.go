package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"tempo/internal/infrastructure/config"
)

// keyMap holds the active key bindings
type keyMap struct {
	Quit     key.Binding
	Undo     key.Binding
	Refresh  key.Binding
	NextPane key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Up       key.Binding
	Down     key.Binding
	Dismiss  key.Binding
}

// newKeyMap builds the bindings from config, falling back to defaults for
// unset entries
func newKeyMap(cfg config.KeybindingsConfig) keyMap {
	bind := func(configured, fallback, help string) key.Binding {
		k := configured
		if k == "" {
			k = fallback
		}
		return key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, help),
		)
	}

	return keyMap{
		Quit:     bind(cfg.Quit, "q", "quit"),
		Undo:     bind(cfg.Undo, "u", "undo"),
		Refresh:  bind(cfg.Refresh, "r", "refresh"),
		NextPane: bind(cfg.NextPane, "tab", "switch pane"),
		PrevDay:  bind(cfg.PrevDay, "h", "earlier day"),
		NextDay:  bind(cfg.NextDay, "l", "later day"),
		Up:       bind(cfg.ScrollUp, "k", "up"),
		Down:     bind(cfg.ScrollDn, "j", "down"),
		Dismiss:  bind(cfg.Dismiss, "esc", "dismiss/cancel"),
	}
}
