//go:build linux

package schedule

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/coreos/go-systemd/v22/dbus"

	logx "lifecal/pkg/logx"
)

// fakeConn implements systemdConn in memory.
type fakeConn struct {
	reloads int
	enabled map[string]bool
	started map[string]bool
	stopErr error
	disErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{enabled: map[string]bool{}, started: map[string]bool{}}
}

func (f *fakeConn) ReloadContext(context.Context) error { f.reloads++; return nil }

func (f *fakeConn) EnableUnitFilesContext(_ context.Context, files []string, _ bool, _ bool) (bool, []dbus.EnableUnitFileChange, error) {
	for _, u := range files {
		f.enabled[u] = true
	}
	return true, nil, nil
}

func (f *fakeConn) DisableUnitFilesContext(_ context.Context, files []string, _ bool) ([]dbus.DisableUnitFileChange, error) {
	if f.disErr != nil {
		return nil, f.disErr
	}
	for _, u := range files {
		delete(f.enabled, u)
	}
	return nil, nil
}

func (f *fakeConn) StartUnitContext(_ context.Context, name string, _ string, ch chan<- string) (int, error) {
	f.started[name] = true
	if ch != nil {
		ch <- "done"
	}
	return 1, nil
}

func (f *fakeConn) StopUnitContext(_ context.Context, name string, _ string, ch chan<- string) (int, error) {
	if f.stopErr != nil {
		return 0, f.stopErr
	}
	delete(f.started, name)
	if ch != nil {
		ch <- "done"
	}
	return 1, nil
}

func (f *fakeConn) Close() {}

func newTestSystemd(t *testing.T, conn *fakeConn) *Systemd {
	t.Helper()
	return &Systemd{
		Dir: t.TempDir(),
		log: logx.Nop(),
		newConn: func(context.Context) (systemdConn, error) {
			return conn, nil
		},
	}
}

func TestOnCalendar(t *testing.T) {
	t.Parallel()
	if got := OnCalendar(testEntry()); got != "Mon *-*-* 09:00:00" {
		t.Fatalf("OnCalendar = %q", got)
	}
}

func TestRenderUnits(t *testing.T) {
	t.Parallel()
	e := testEntry()

	svc := RenderServiceUnit(e)
	if !strings.Contains(svc, "Type=oneshot") {
		t.Fatalf("service unit missing oneshot:\n%s", svc)
	}
	if !strings.Contains(svc, "ExecStart=/usr/local/bin/lifecal --config") {
		t.Fatalf("service unit missing ExecStart:\n%s", svc)
	}

	tm := RenderTimerUnit(e)
	if !strings.Contains(tm, "OnCalendar=Mon *-*-* 09:00:00") {
		t.Fatalf("timer unit missing trigger:\n%s", tm)
	}
	// The timer must not catch up missed windows; that mirrors the
	// run-at-load=false launchd behavior.
	if !strings.Contains(tm, "Persistent=false") {
		t.Fatalf("timer unit missing Persistent=false:\n%s", tm)
	}
}

func TestSystemdRegisterEnablesAndStarts(t *testing.T) {
	t.Parallel()
	conn := newFakeConn()
	s := newTestSystemd(t, conn)
	e := testEntry()

	if err := s.Register(context.Background(), e); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := os.Stat(s.servicePath(e.Label)); err != nil {
		t.Fatalf("service unit not written: %v", err)
	}
	if _, err := os.Stat(s.timerPath(e.Label)); err != nil {
		t.Fatalf("timer unit not written: %v", err)
	}
	if conn.reloads == 0 {
		t.Fatal("expected a daemon-reload")
	}
	if !conn.enabled[e.Label+".timer"] || !conn.started[e.Label+".timer"] {
		t.Fatalf("timer not enabled/started: enabled=%v started=%v", conn.enabled, conn.started)
	}

	// Registering again replaces in place.
	if err := s.Register(context.Background(), e); err != nil {
		t.Fatalf("second Register error: %v", err)
	}
}

func TestSystemdUnregisterMissingEntry(t *testing.T) {
	t.Parallel()
	conn := newFakeConn()
	conn.stopErr = errors.New("Unit com.lifecal.refresh.timer not loaded.")
	conn.disErr = errors.New("no such unit")
	s := newTestSystemd(t, conn)

	if err := s.Unregister(context.Background(), "com.lifecal.refresh"); err != nil {
		t.Fatalf("Unregister of missing entry failed: %v", err)
	}
}

func TestSystemdUnregisterRemovesFiles(t *testing.T) {
	t.Parallel()
	conn := newFakeConn()
	s := newTestSystemd(t, conn)
	e := testEntry()

	if err := s.Register(context.Background(), e); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := s.Unregister(context.Background(), e.Label); err != nil {
		t.Fatalf("Unregister error: %v", err)
	}
	for _, p := range []string{s.timerPath(e.Label), s.servicePath(e.Label)} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s still present after Unregister (err=%v)", p, err)
		}
	}
}
