package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Calendar  CalendarConfig  `json:"calendar"`
	Render    RenderConfig    `json:"render,omitempty"`
	Wallpaper WallpaperConfig `json:"wallpaper,omitempty"`
	Schedule  ScheduleConfig  `json:"schedule,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty"`
	Daemon    DaemonConfig    `json:"daemon,omitempty"`
}

// CalendarConfig describes the life being drawn.
//
// Birthday is a calendar date in "2006-01-02" form. LifespanYears is the
// number of grid rows (one row per year of life).
type CalendarConfig struct {
	Birthday      string `json:"birthday"`
	LifespanYears int    `json:"lifespan_years,omitempty"`
}

// RenderConfig controls the generated image.
//
// Defaults (when fields are omitted/zero):
//   - width/height: 2560x1664
//   - cell_size: 13, cell_gap: 2
//   - title: "life  in  weeks"
//   - output: ~/Desktop/life_calendar.png
//   - colors: dark theme (see ThemeConfig)
type RenderConfig struct {
	Width    int         `json:"width,omitempty"`
	Height   int         `json:"height,omitempty"`
	CellSize int         `json:"cell_size,omitempty"`
	CellGap  int         `json:"cell_gap,omitempty"`
	Theme    ThemeConfig `json:"theme,omitempty"`
	Title    string      `json:"title,omitempty"`
	Output   string      `json:"output,omitempty"`

	// FontPaths overrides the built-in system font search list.
	// The first readable TTF/TTC wins; a bitmap fallback is used otherwise.
	FontPaths []string `json:"font_paths,omitempty"`
}

// ThemeConfig holds "#RRGGBB" colors for the grid.
type ThemeConfig struct {
	Background string `json:"background,omitempty"`
	Past       string `json:"past,omitempty"`
	Future     string `json:"future,omitempty"`
	Current    string `json:"current,omitempty"`
	Text       string `json:"text,omitempty"`
}

// WallpaperConfig controls whether the generated image is also applied as the
// desktop wallpaper.
//
// Set is a pointer so we can distinguish "omitted" (default true) from an
// explicit false.
type WallpaperConfig struct {
	Set *bool `json:"set,omitempty"`
}

// ScheduleConfig describes the weekly refresh registration.
//
// Backend is one of "launchd", "systemd", "cron" or "auto" (pick the native
// backend for the current OS, falling back to cron). Hour is a pointer so an
// explicit 0 (midnight) is distinguishable from "omitted" (default 9).
type ScheduleConfig struct {
	Backend string `json:"backend,omitempty"`
	Weekday string `json:"weekday,omitempty"`
	Hour    *int   `json:"hour,omitempty"`
	Minute  int    `json:"minute,omitempty"`
	Label   string `json:"label,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"`
	Console *bool         `json:"console,omitempty"`
	File    LogFileConfig `json:"file,omitempty"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// DaemonConfig controls the long-running refresh mode.
//
// MinRefreshInterval is a Go duration string (e.g. "30s", "5m"). Config-watch
// triggered regenerations are throttled to at most one per interval so editor
// save storms cause a single refresh.
type DaemonConfig struct {
	MinRefreshInterval string `json:"min_refresh_interval,omitempty"`
}

const (
	DefaultLifespanYears = 90

	DefaultWidth    = 2560
	DefaultHeight   = 1664
	DefaultCellSize = 13
	DefaultCellGap  = 2

	DefaultTitle = "life  in  weeks"

	DefaultBackground = "#111111"
	DefaultPast       = "#DEDEDE"
	DefaultFuture     = "#252525"
	DefaultCurrent    = "#FF6B35"
	DefaultText       = "#4A4A4A"

	DefaultWeekday = "monday"
	DefaultHour    = 9
	DefaultMinute  = 0
	DefaultLabel   = "com.lifecal.refresh"
)

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "lifecal", "config.yaml")
}

// DefaultOutput returns the per-user wallpaper output location.
func DefaultOutput() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "life_calendar.png"
	}
	return filepath.Join(home, "Desktop", "life_calendar.png")
}

// ApplyDefaults fills omitted fields in place.
// Validation happens separately (see Validate).
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Calendar.LifespanYears == 0 {
		cfg.Calendar.LifespanYears = DefaultLifespanYears
	}

	r := &cfg.Render
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if r.CellSize == 0 {
		r.CellSize = DefaultCellSize
	}
	if r.CellGap == 0 {
		r.CellGap = DefaultCellGap
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Output == "" {
		r.Output = DefaultOutput()
	}
	t := &r.Theme
	if t.Background == "" {
		t.Background = DefaultBackground
	}
	if t.Past == "" {
		t.Past = DefaultPast
	}
	if t.Future == "" {
		t.Future = DefaultFuture
	}
	if t.Current == "" {
		t.Current = DefaultCurrent
	}
	if t.Text == "" {
		t.Text = DefaultText
	}

	s := &cfg.Schedule
	if s.Backend == "" {
		s.Backend = "auto"
	}
	if s.Weekday == "" {
		s.Weekday = DefaultWeekday
	}
	if s.Hour == nil {
		h := DefaultHour
		s.Hour = &h
	}
	if s.Label == "" {
		s.Label = DefaultLabel
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Console == nil {
		c := true
		cfg.Logging.Console = &c
	}
}

// WallpaperSet reports whether the wallpaper should be applied after
// generation (defaults to true when omitted).
func (c *Config) WallpaperSet() bool {
	if c == nil || c.Wallpaper.Set == nil {
		return true
	}
	return *c.Wallpaper.Set
}

// ScheduleHour returns the configured trigger hour (default 9).
func (c *Config) ScheduleHour() int {
	if c == nil || c.Schedule.Hour == nil {
		return DefaultHour
	}
	return *c.Schedule.Hour
}

// ConsoleLogging reports whether console log output is enabled
// (defaults to true when omitted).
func (c *Config) ConsoleLogging() bool {
	if c == nil || c.Logging.Console == nil {
		return true
	}
	return *c.Logging.Console
}
