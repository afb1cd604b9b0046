package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lifecal/internal/app"
)

func newTestApp(t *testing.T, out string) *app.App {
	t.Helper()
	cfg := `
calendar:
  birthday: "2005-04-06"
render:
  width: 400
  height: 300
  cell_size: 3
  cell_gap: 1
  output: "` + filepath.Join(out, "life_calendar.png") + `"
wallpaper:
  set: false
logging:
  level: error
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	a, err := app.New(path)
	if err != nil {
		t.Fatalf("app.New error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRunGeneratesOnStartupAndStops(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	a := newTestApp(t, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(a).Run(ctx) }()

	// The startup refresh should produce the file shortly.
	deadline := time.After(10 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(out, "life_calendar.png")); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("startup refresh did not produce the wallpaper")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
