//go:build linux

package schedule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	logx "lifecal/pkg/logx"
)

// Systemd registers a per-user service+timer pair under
// ~/.config/systemd/user and drives systemd over the user D-Bus connection.
type Systemd struct {
	// Dir is the user unit directory (default ~/.config/systemd/user).
	Dir string

	log logx.Logger

	// newConn is swapped out in tests.
	newConn func(ctx context.Context) (systemdConn, error)
}

// systemdConn is the slice of dbus.Conn this backend needs.
type systemdConn interface {
	ReloadContext(ctx context.Context) error
	EnableUnitFilesContext(ctx context.Context, files []string, runtime bool, force bool) (bool, []dbus.EnableUnitFileChange, error)
	DisableUnitFilesContext(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error)
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	Close()
}

func NewSystemd(log logx.Logger) (*Systemd, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &Systemd{
		Dir: filepath.Join(home, ".config", "systemd", "user"),
		log: log,
		newConn: func(ctx context.Context) (systemdConn, error) {
			return dbus.NewUserConnectionContext(ctx)
		},
	}, nil
}

func (s *Systemd) Name() string { return "systemd" }

func (s *Systemd) servicePath(label string) string { return filepath.Join(s.Dir, label+".service") }
func (s *Systemd) timerPath(label string) string   { return filepath.Join(s.Dir, label+".timer") }

// Register writes both unit files, reloads the user manager, then enables and
// starts the timer. Re-registering the same label overwrites the files and
// restarts the timer.
func (s *Systemd) Register(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.servicePath(e.Label), []byte(RenderServiceUnit(e)), 0o644); err != nil {
		return fmt.Errorf("write service unit: %w", err)
	}
	if err := os.WriteFile(s.timerPath(e.Label), []byte(RenderTimerUnit(e)), 0o644); err != nil {
		return fmt.Errorf("write timer unit: %w", err)
	}

	conn, err := s.newConn(ctx)
	if err != nil {
		return fmt.Errorf("connect to user systemd: %w", err)
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	timer := e.Label + ".timer"
	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{timer}, false, true); err != nil {
		return fmt.Errorf("enable %s: %w", timer, err)
	}
	done := make(chan string, 1)
	if _, err := conn.StartUnitContext(ctx, timer, "replace", done); err != nil {
		return fmt.Errorf("start %s: %w", timer, err)
	}
	select {
	case res := <-done:
		if res != "done" {
			return fmt.Errorf("start %s: job result %q", timer, res)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	if !s.log.IsZero() {
		s.log.Info("systemd timer registered", logx.String("unit", timer))
	}
	return nil
}

// Unregister stops and disables the timer and removes both unit files.
// Unknown units and missing files are ignored.
func (s *Systemd) Unregister(ctx context.Context, label string) error {
	conn, err := s.newConn(ctx)
	if err == nil {
		defer conn.Close()
		timer := label + ".timer"
		done := make(chan string, 1)
		if _, err := conn.StopUnitContext(ctx, timer, "replace", done); err != nil {
			if !s.log.IsZero() {
				s.log.Debug("stop timer (entry absent)", logx.String("unit", timer), logx.Err(err))
			}
		} else {
			select {
			case <-done:
			case <-ctx.Done():
			}
		}
		if _, err := conn.DisableUnitFilesContext(ctx, []string{timer}, false); err != nil {
			if !s.log.IsZero() {
				s.log.Debug("disable timer (entry absent)", logx.String("unit", timer), logx.Err(err))
			}
		}
		defer func() { _ = conn.ReloadContext(ctx) }()
	} else if !s.log.IsZero() {
		s.log.Debug("user systemd unavailable; removing unit files only", logx.Err(err))
	}

	for _, p := range []string{s.timerPath(label), s.servicePath(label)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	if !s.log.IsZero() {
		s.log.Info("systemd timer removed", logx.String("label", label))
	}
	return nil
}

// systemdWeekdays maps time.Weekday to OnCalendar abbreviations.
var systemdWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// OnCalendar renders the weekly trigger ("Mon *-*-* 09:00:00").
func OnCalendar(e Entry) string {
	return fmt.Sprintf("%s *-*-* %02d:%02d:00", systemdWeekdays[int(e.Weekday)%7], e.Hour, e.Minute)
}

// RenderServiceUnit produces the oneshot service fired by the timer.
func RenderServiceUnit(e Entry) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=lifecal wallpaper refresh (%s)\n\n", e.Label)
	b.WriteString("[Service]\n")
	b.WriteString("Type=oneshot\n")
	fmt.Fprintf(&b, "ExecStart=%s\n", strings.Join(append([]string{e.Program}, e.Args...), " "))
	return b.String()
}

// RenderTimerUnit produces the weekly timer. Persistent stays false so a
// missed window does not fire at boot, matching RunAtLoad=false on launchd.
func RenderTimerUnit(e Entry) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=weekly trigger for %s\n\n", e.Label)
	b.WriteString("[Timer]\n")
	fmt.Fprintf(&b, "OnCalendar=%s\n", OnCalendar(e))
	b.WriteString("Persistent=false\n\n")
	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=timers.target\n")
	return b.String()
}
