package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tempo/tui"
	"tempo/tui/style"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal user interface",
	Long: `Launch the interactive TUI for dragging tasks between the list and the
calendar.

Mouse:
  drag a card       - Pick it up; drop on a day header, the anytime
                      row, the hour grid, another task, or a gap
  wheel             - Scroll the pane under the pointer

Keyboard shortcuts:
  h/l       - Previous / next day
  j/k       - Scroll the focused pane
  tab       - Switch focused pane
  u         - Undo the last mutation
  r         - Refresh from the backend
  esc       - Cancel an active drag / dismiss a notification
  q/Ctrl+C  - Quit

Examples:
  # Launch TUI
  tempo tui

  # Launch TUI (shorthand - default command)
  tempo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		style.InitStyles(cfg)

		m := tui.NewModel(container)

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
