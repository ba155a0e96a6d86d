package style

import (
	"github.com/charmbracelet/lipgloss"

	"tempo/internal/infrastructure/config"
)

var (
	PaneStyle          lipgloss.Style
	FocusedPaneStyle   lipgloss.Style
	DomainTitleStyle   lipgloss.Style
	TaskStyle          lipgloss.Style
	SelectedTaskStyle  lipgloss.Style
	DragPreviewStyle   lipgloss.Style
	DropHighlightStyle lipgloss.Style
	CalendarHourStyle  lipgloss.Style
	NotificationStyle  lipgloss.Style
	HelpStyle          lipgloss.Style
)

// InitStyles initializes the styles from config
func InitStyles(cfg *config.Config) {
	styles := cfg.TUI.Styles

	PaneStyle = lipgloss.NewStyle().
		Padding(styles.Pane.PaddingVertical, styles.Pane.PaddingHorizontal).
		Border(getBorder(styles.Pane.BorderStyle)).
		BorderForeground(lipgloss.Color(styles.Pane.BorderColor))

	FocusedPaneStyle = lipgloss.NewStyle().
		Padding(styles.FocusedPane.PaddingVertical, styles.FocusedPane.PaddingHorizontal).
		Border(getBorder(styles.FocusedPane.BorderStyle)).
		BorderForeground(lipgloss.Color(styles.FocusedPane.BorderColor))

	DomainTitleStyle = textStyle(styles.DomainTitle)
	TaskStyle = textStyle(styles.Task)
	SelectedTaskStyle = textStyle(styles.SelectedTask)
	DragPreviewStyle = textStyle(styles.DragPreview)
	DropHighlightStyle = textStyle(styles.DropHighlight)
	CalendarHourStyle = textStyle(styles.CalendarHour)
	NotificationStyle = textStyle(styles.Notification)
	HelpStyle = textStyle(styles.Help)
}

// textStyle builds a lipgloss style from a config text style
func textStyle(ts config.TextStyle) lipgloss.Style {
	s := lipgloss.NewStyle()
	if ts.Foreground != "" {
		s = s.Foreground(lipgloss.Color(ts.Foreground))
	}
	if ts.Background != "" {
		s = s.Background(lipgloss.Color(ts.Background))
	}
	if ts.Bold {
		s = s.Bold(true)
	}
	if ts.Italic {
		s = s.Italic(true)
	}
	if ts.Align != "" {
		s = s.Align(getAlign(ts.Align))
	}
	return s
}

// getBorder returns the border style based on the name
func getBorder(name string) lipgloss.Border {
	switch name {
	case "rounded":
		return lipgloss.RoundedBorder()
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// getAlign returns the alignment based on the name
func getAlign(name string) lipgloss.Position {
	switch name {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}
