package config

import (
	"fmt"
	"strings"
	"time"
)

const birthdayLayout = "2006-01-02"

// ParseBirthday parses the calendar.birthday field.
func ParseBirthday(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("calendar.birthday required")
	}
	t, err := time.Parse(birthdayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar.birthday: invalid date %q (want YYYY-MM-DD)", raw)
	}
	return t, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday parses the schedule.weekday field ("monday", "mon", ...).
func ParseWeekday(raw string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("schedule.weekday: unknown weekday %q", raw)
	}
	return wd, nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Validate checks a config after defaults have been applied.
//
// It is intentionally strict: a config that passes here must be renderable
// and registrable without further checks.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if _, err := ParseBirthday(cfg.Calendar.Birthday); err != nil {
		return err
	}
	if y := cfg.Calendar.LifespanYears; y < 1 || y > 150 {
		return fmt.Errorf("calendar.lifespan_years: %d out of range [1,150]", y)
	}

	r := cfg.Render
	if r.Width < 320 || r.Height < 240 {
		return fmt.Errorf("render: resolution %dx%d too small", r.Width, r.Height)
	}
	if r.CellSize < 1 {
		return fmt.Errorf("render.cell_size: must be >= 1")
	}
	if r.CellGap < 0 {
		return fmt.Errorf("render.cell_gap: must be >= 0")
	}
	if strings.TrimSpace(r.Output) == "" {
		return fmt.Errorf("render.output required")
	}
	for _, c := range []struct{ name, val string }{
		{"background", r.Theme.Background},
		{"past", r.Theme.Past},
		{"future", r.Theme.Future},
		{"current", r.Theme.Current},
		{"text", r.Theme.Text},
	} {
		if !validHexColor(c.val) {
			return fmt.Errorf("render.theme.%s: invalid color %q (want #RRGGBB)", c.name, c.val)
		}
	}

	s := cfg.Schedule
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "auto", "launchd", "systemd", "cron":
	default:
		return fmt.Errorf("schedule.backend: unknown backend %q", s.Backend)
	}
	if _, err := ParseWeekday(s.Weekday); err != nil {
		return err
	}
	if h := cfg.ScheduleHour(); h < 0 || h > 23 {
		return fmt.Errorf("schedule.hour: %d out of range [0,23]", h)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("schedule.minute: %d out of range [0,59]", s.Minute)
	}
	if strings.TrimSpace(s.Label) == "" {
		return fmt.Errorf("schedule.label required")
	}

	if _, err := ParseDurationField("daemon.min_refresh_interval", cfg.Daemon.MinRefreshInterval); err != nil {
		return err
	}
	return nil
}
