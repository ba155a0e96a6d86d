package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"tempo/pkg/filesystem"
)

const (
	defaultConfigFileName = "config.yml"
	defaultConfigDirName  = ".config/tempo"
)

// Config holds application configuration
type Config struct {
	API         APIConfig         `yaml:"api"`
	Calendar    CalendarConfig    `yaml:"calendar"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
}

// APIConfig holds task-service connection settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"TEMPO_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TEMPO_API_TIMEOUT"`
}

// CalendarConfig holds the calendar grid geometry and scheduling
// granularity
type CalendarConfig struct {
	// HourHeight is the rendered height of one hour in rows.
	HourHeight int `yaml:"hour_height" env:"TEMPO_HOUR_HEIGHT"`
	// StartHour is the hour shown at the top of a day column; it may
	// place the column start before midnight.
	StartHour int `yaml:"start_hour" env:"TEMPO_START_HOUR"`
	// SnapMinutes is the drag scheduling granularity (5, 10, 15, 30, 60).
	SnapMinutes int `yaml:"snap_minutes" env:"TEMPO_SNAP_MINUTES"`
	// VisibleDays is how many day columns the calendar pane shows.
	VisibleDays int `yaml:"visible_days" env:"TEMPO_VISIBLE_DAYS"`
	// NotificationSeconds is the lifetime of transient notifications.
	NotificationSeconds int `yaml:"notification_seconds"`
}

// TUIConfig holds TUI styling configuration
type TUIConfig struct {
	Styles StylesConfig `yaml:"styles"`
}

// StylesConfig holds color and styling configuration
type StylesConfig struct {
	Pane          PaneStyle `yaml:"pane"`
	FocusedPane   PaneStyle `yaml:"focused_pane"`
	DomainTitle   TextStyle `yaml:"domain_title"`
	Task          TextStyle `yaml:"task"`
	SelectedTask  TextStyle `yaml:"selected_task"`
	DragPreview   TextStyle `yaml:"drag_preview"`
	DropHighlight TextStyle `yaml:"drop_highlight"`
	CalendarHour  TextStyle `yaml:"calendar_hour"`
	Notification  TextStyle `yaml:"notification"`
	Help          TextStyle `yaml:"help"`
}

// PaneStyle holds border and padding settings for a pane
type PaneStyle struct {
	PaddingVertical   int    `yaml:"padding_vertical"`
	PaddingHorizontal int    `yaml:"padding_horizontal"`
	BorderStyle       string `yaml:"border_style"`
	BorderColor       string `yaml:"border_color"`
}

// TextStyle holds foreground/background and emphasis settings
type TextStyle struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
	Align      string `yaml:"align"`
}

// KeybindingsConfig holds remappable key bindings
type KeybindingsConfig struct {
	Quit      string `yaml:"quit"`
	Undo      string `yaml:"undo"`
	Refresh   string `yaml:"refresh"`
	NextPane  string `yaml:"next_pane"`
	PrevDay   string `yaml:"prev_day"`
	NextDay   string `yaml:"next_day"`
	ScrollUp  string `yaml:"scroll_up"`
	ScrollDn  string `yaml:"scroll_down"`
	Dismiss   string `yaml:"dismiss"`
	ToggleAny string `yaml:"toggle_anytime"`
}

// Loader reads and writes the configuration file
type Loader struct {
	configPath string
}

// NewLoader resolves the configuration path under the user's home
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, defaultConfigDirName)
	configPath := filepath.Join(configDir, defaultConfigFileName)

	return &Loader{configPath: configPath}, nil
}

// NewLoaderAt uses an explicit configuration file path.
func NewLoaderAt(path string) *Loader {
	return &Loader{configPath: path}
}

// Load loads the configuration, creating defaults if it doesn't exist.
// Environment variables override file values.
func (l *Loader) Load() (*Config, error) {
	config := Default()

	if _, err := os.Stat(l.configPath); err == nil {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := l.Save(config); err != nil {
		return nil, err
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	config.normalize()
	return config, nil
}

// Save persists the configuration to disk. The write is atomic so the
// file watcher never observes a half-written file.
func (l *Loader) Save(config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := filesystem.SafeWrite(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the resolved configuration file path
func (l *Loader) GetConfigPath() string {
	return l.configPath
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8712",
			TimeoutSeconds: 10,
		},
		Calendar: CalendarConfig{
			HourHeight:          4,
			StartHour:           6,
			SnapMinutes:         15,
			VisibleDays:         3,
			NotificationSeconds: 8,
		},
		TUI: TUIConfig{
			Styles: StylesConfig{
				Pane: PaneStyle{
					PaddingVertical:   0,
					PaddingHorizontal: 1,
					BorderStyle:       "rounded",
					BorderColor:       "240",
				},
				FocusedPane: PaneStyle{
					PaddingVertical:   0,
					PaddingHorizontal: 1,
					BorderStyle:       "rounded",
					BorderColor:       "62",
				},
				DomainTitle:   TextStyle{Foreground: "99", Bold: true},
				Task:          TextStyle{Foreground: "252"},
				SelectedTask:  TextStyle{Foreground: "229", Background: "57"},
				DragPreview:   TextStyle{Foreground: "229", Background: "93", Italic: true},
				DropHighlight: TextStyle{Background: "236"},
				CalendarHour:  TextStyle{Foreground: "240"},
				Notification:  TextStyle{Foreground: "252", Background: "235"},
				Help:          TextStyle{Foreground: "241"},
			},
		},
		Keybindings: KeybindingsConfig{
			Quit:      "q",
			Undo:      "u",
			Refresh:   "r",
			NextPane:  "tab",
			PrevDay:   "h",
			NextDay:   "l",
			ScrollUp:  "k",
			ScrollDn:  "j",
			Dismiss:   "esc",
			ToggleAny: "a",
		},
	}
}

// normalize clamps values the rest of the app assumes are sane.
func (c *Config) normalize() {
	if c.Calendar.HourHeight <= 0 {
		c.Calendar.HourHeight = 4
	}
	if c.Calendar.SnapMinutes <= 0 || c.Calendar.SnapMinutes > 60 {
		c.Calendar.SnapMinutes = 15
	}
	if c.Calendar.VisibleDays <= 0 {
		c.Calendar.VisibleDays = 3
	}
	if c.Calendar.NotificationSeconds <= 0 {
		c.Calendar.NotificationSeconds = 8
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 10
	}
	c.Calendar.StartHour = ((c.Calendar.StartHour % 24) + 24) % 24
}
