package schedule

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	logx "lifecal/pkg/logx"
)

// Launchd writes a per-user LaunchAgent property list and reloads it with
// launchctl. The plist rendering is plain code (not build-tagged) so it can
// be exercised in tests on any OS; only launchctl itself is darwin-only.
type Launchd struct {
	// Dir is the LaunchAgents directory (default ~/Library/LaunchAgents).
	Dir string

	log logx.Logger

	// run executes launchctl; swapped out in tests.
	run func(ctx context.Context, args ...string) error
}

func NewLaunchd(log logx.Logger) (*Launchd, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &Launchd{
		Dir: filepath.Join(home, "Library", "LaunchAgents"),
		log: log,
		run: runLaunchctl,
	}, nil
}

func runLaunchctl(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, "launchctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("launchctl %s: %w (%s)", args[0], err, bytes.TrimSpace(out))
	}
	return nil
}

func (l *Launchd) Name() string { return "launchd" }

// PlistPath returns the agent file location for a label.
func (l *Launchd) PlistPath(label string) string {
	return filepath.Join(l.Dir, label+".plist")
}

// Register writes the plist and performs the unload+load replace cycle.
// Unloading a label that was never loaded fails inside launchctl; that error
// is deliberately ignored.
func (l *Launchd) Register(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", l.Dir, err)
	}

	path := l.PlistPath(e.Label)
	body := RenderPlist(e)

	tmp, err := os.CreateTemp(l.Dir, "."+e.Label+"-*.plist")
	if err != nil {
		return fmt.Errorf("create temp plist: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write([]byte(body)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write plist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write plist: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace plist: %w", err)
	}

	if err := l.run(ctx, "unload", path); err != nil {
		// Expected on first registration.
		if !l.log.IsZero() {
			l.log.Debug("launchctl unload (prior entry absent)", logx.String("label", e.Label), logx.Err(err))
		}
	}
	if err := l.run(ctx, "load", path); err != nil {
		return err
	}
	if !l.log.IsZero() {
		l.log.Info("launch agent registered", logx.String("label", e.Label), logx.String("path", path))
	}
	return nil
}

// Unregister unloads and deletes the agent. A missing file or an unload
// failure for an unknown label is not an error.
func (l *Launchd) Unregister(ctx context.Context, label string) error {
	path := l.PlistPath(label)
	if err := l.run(ctx, "unload", path); err != nil {
		if !l.log.IsZero() {
			l.log.Debug("launchctl unload (entry absent)", logx.String("label", label), logx.Err(err))
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}
	if !l.log.IsZero() {
		l.log.Info("launch agent removed", logx.String("label", label))
	}
	return nil
}

// RenderPlist produces the LaunchAgent XML for an entry. RunAtLoad is always
// false: the agent fires on the calendar trigger only.
func RenderPlist(e Entry) string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString("<plist version=\"1.0\">\n<dict>\n")
	fmt.Fprintf(&b, "\t<key>Label</key>\n\t<string>%s</string>\n", xmlEscape(e.Label))
	b.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n")
	fmt.Fprintf(&b, "\t\t<string>%s</string>\n", xmlEscape(e.Program))
	for _, a := range e.Args {
		fmt.Fprintf(&b, "\t\t<string>%s</string>\n", xmlEscape(a))
	}
	b.WriteString("\t</array>\n")
	b.WriteString("\t<key>StartCalendarInterval</key>\n\t<dict>\n")
	fmt.Fprintf(&b, "\t\t<key>Weekday</key>\n\t\t<integer>%d</integer>\n", int(e.Weekday))
	fmt.Fprintf(&b, "\t\t<key>Hour</key>\n\t\t<integer>%d</integer>\n", e.Hour)
	fmt.Fprintf(&b, "\t\t<key>Minute</key>\n\t\t<integer>%d</integer>\n", e.Minute)
	b.WriteString("\t</dict>\n")
	b.WriteString("\t<key>RunAtLoad</key>\n\t<false/>\n")
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
