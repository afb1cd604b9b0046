package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lifecal/internal/schedule"
	logx "lifecal/pkg/logx"
)

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newTestApp(t *testing.T, outputDir string) *App {
	t.Helper()
	cfg := `
calendar:
  birthday: "2005-04-06"
render:
  width: 400
  height: 300
  cell_size: 3
  cell_gap: 1
  output: "` + filepath.Join(outputDir, "life_calendar.png") + `"
wallpaper:
  set: false
logging:
  console: false
`
	a, err := New(writeTestConfig(t, cfg))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// recordingRegistrar counts calls; optionally fails registration.
type recordingRegistrar struct {
	registered   []schedule.Entry
	unregistered []string
	failWith     error
}

func (r *recordingRegistrar) Name() string { return "test" }

func (r *recordingRegistrar) Register(_ context.Context, e schedule.Entry) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.registered = append(r.registered, e)
	return nil
}

func (r *recordingRegistrar) Unregister(_ context.Context, label string) error {
	r.unregistered = append(r.unregistered, label)
	return nil
}

func useRegistrar(a *App, r schedule.Registrar) {
	a.newRegistrar = func(string, logx.Logger) (schedule.Registrar, error) {
		return r, nil
	}
}

func TestGenerateWritesImage(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	a := newTestApp(t, out)

	if err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	fi, err := os.Stat(filepath.Join(out, "life_calendar.png"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatal("output file is empty")
	}

	// Second run overwrites the same file.
	if err := a.Generate(context.Background()); err != nil {
		t.Fatalf("second Generate error: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single output file, got %d", len(entries))
	}
}

func TestEntryUsesConfigTrigger(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, t.TempDir())

	e, err := a.Entry()
	if err != nil {
		t.Fatalf("Entry error: %v", err)
	}
	if e.Weekday != time.Monday || e.Hour != 9 || e.Minute != 0 {
		t.Fatalf("trigger = %v %d:%02d, want Monday 9:00", e.Weekday, e.Hour, e.Minute)
	}
	if e.Label != "com.lifecal.refresh" {
		t.Fatalf("label = %q", e.Label)
	}
	if !filepath.IsAbs(e.Program) {
		t.Fatalf("program %q must be absolute", e.Program)
	}
	if len(e.Args) != 3 || e.Args[0] != "--config" || e.Args[2] != "generate" {
		t.Fatalf("args = %v, want --config <path> generate", e.Args)
	}
}

func TestInstallRunsGenerateThenRegister(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	a := newTestApp(t, out)
	reg := &recordingRegistrar{}
	useRegistrar(a, reg)

	if err := a.Install(context.Background()); err != nil {
		t.Fatalf("Install error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "life_calendar.png")); err != nil {
		t.Fatalf("wallpaper not generated: %v", err)
	}
	if len(reg.registered) != 1 {
		t.Fatalf("expected one registration, got %d", len(reg.registered))
	}

	// Running the whole flow again lands in the same end state.
	if err := a.Install(context.Background()); err != nil {
		t.Fatalf("second Install error: %v", err)
	}
	if len(reg.registered) != 2 {
		t.Fatalf("expected re-registration, got %d", len(reg.registered))
	}
}

func TestInstallSkipsRegistrationWhenGenerateFails(t *testing.T) {
	t.Parallel()
	// Point the output below a regular file so the directory create fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	a := newTestApp(t, filepath.Join(blocker, "nested"))
	reg := &recordingRegistrar{}
	useRegistrar(a, reg)

	err := a.Install(context.Background())
	if err == nil {
		t.Fatal("expected Install to fail")
	}
	if !strings.Contains(err.Error(), "generate:") {
		t.Fatalf("failure should come from the generate step, got: %v", err)
	}
	if len(reg.registered) != 0 {
		t.Fatal("no registration may happen after a failed generation")
	}
}

func TestInstallPropagatesRegistrationFailure(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, t.TempDir())
	reg := &recordingRegistrar{failWith: errors.New("scheduler says no")}
	useRegistrar(a, reg)

	err := a.Install(context.Background())
	if err == nil || !strings.Contains(err.Error(), "scheduler says no") {
		t.Fatalf("expected registration failure to propagate, got: %v", err)
	}
}

func TestUnregisterUsesConfiguredLabel(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, t.TempDir())
	reg := &recordingRegistrar{}
	useRegistrar(a, reg)

	if err := a.Unregister(context.Background()); err != nil {
		t.Fatalf("Unregister error: %v", err)
	}
	if len(reg.unregistered) != 1 || reg.unregistered[0] != "com.lifecal.refresh" {
		t.Fatalf("unregistered = %v", reg.unregistered)
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if got := expandHome("~/Desktop/x.png"); got != filepath.Join(home, "Desktop", "x.png") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/abs/path.png"); got != "/abs/path.png" {
		t.Fatalf("expandHome must not touch absolute paths, got %q", got)
	}
	if got := expandHome("~"); got != home {
		t.Fatalf("expandHome(~) = %q, want %q", got, home)
	}
}
