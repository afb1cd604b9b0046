// Package schedule registers the weekly wallpaper refresh with the OS.
//
// All backends share one Entry shape (label, program, args, weekly trigger)
// and one Registrar interface. Registration is an idempotent replace: running
// it again with the same label overwrites the previous entry, and removing an
// entry that does not exist is not an error.
package schedule

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	logx "lifecal/pkg/logx"
)

// Entry describes one scheduled invocation.
type Entry struct {
	// Label identifies the registration (e.g. "com.lifecal.refresh").
	Label string
	// Program is the absolute path of the binary to run.
	Program string
	// Args are passed to Program.
	Args []string

	// Weekly trigger. RunAtLoad is always false: the entry fires on the
	// trigger only, never at registration time.
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Validate checks the entry fields all backends rely on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("schedule entry: label required")
	}
	if strings.TrimSpace(e.Program) == "" {
		return fmt.Errorf("schedule entry: program required")
	}
	if e.Weekday < time.Sunday || e.Weekday > time.Saturday {
		return fmt.Errorf("schedule entry: invalid weekday %d", e.Weekday)
	}
	if e.Hour < 0 || e.Hour > 23 {
		return fmt.Errorf("schedule entry: hour %d out of range", e.Hour)
	}
	if e.Minute < 0 || e.Minute > 59 {
		return fmt.Errorf("schedule entry: minute %d out of range", e.Minute)
	}
	return nil
}

// CronExpr renders the trigger as a five-field cron expression
// ("0 9 * * 1" for Monday 09:00).
func (e Entry) CronExpr() string {
	return fmt.Sprintf("%d %d * * %d", e.Minute, e.Hour, int(e.Weekday))
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// NextRun returns the first trigger time strictly after now, according to the
// entry's cron expression.
func (e Entry) NextRun(now time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(e.CronExpr())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", e.CronExpr(), err)
	}
	return sched.Next(now), nil
}

// Registrar installs and removes weekly schedule entries.
//
// Register replaces any prior entry with the same label. Unregister of an
// unknown label succeeds.
type Registrar interface {
	// Name identifies the backend ("launchd", "systemd", "cron").
	Name() string
	Register(ctx context.Context, e Entry) error
	Unregister(ctx context.Context, label string) error
}

// ResolveBackend maps a configured backend name to the backend to use.
// "auto" picks the OS-native scheduler, falling back to cron elsewhere.
func ResolveBackend(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "launchd", "systemd", "cron":
		return strings.ToLower(strings.TrimSpace(name)), nil
	case "", "auto":
		switch runtime.GOOS {
		case "darwin":
			return "launchd", nil
		case "linux":
			return "systemd", nil
		default:
			return "cron", nil
		}
	default:
		return "", fmt.Errorf("unknown schedule backend %q", name)
	}
}

// New constructs the registrar for the given backend name ("auto" allowed).
func New(backend string, log logx.Logger) (Registrar, error) {
	b, err := ResolveBackend(backend)
	if err != nil {
		return nil, err
	}
	switch b {
	case "launchd":
		return NewLaunchd(log)
	case "systemd":
		return NewSystemd(log)
	case "cron":
		return NewCron(log), nil
	}
	return nil, fmt.Errorf("unknown schedule backend %q", backend)
}
