package schedule

import (
	"runtime"
	"testing"
	"time"
)

func testEntry() Entry {
	return Entry{
		Label:   "com.lifecal.refresh",
		Program: "/usr/local/bin/lifecal",
		Args:    []string{"--config", "/home/u/.config/lifecal/config.yaml", "generate"},
		Weekday: time.Monday,
		Hour:    9,
		Minute:  0,
	}
}

func TestCronExpr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{name: "default monday 9am", entry: testEntry(), want: "0 9 * * 1"},
		{
			name: "sunday midnight",
			entry: Entry{
				Label: "x", Program: "/bin/x",
				Weekday: time.Sunday, Hour: 0, Minute: 0,
			},
			want: "0 0 * * 0",
		},
		{
			name: "saturday evening",
			entry: Entry{
				Label: "x", Program: "/bin/x",
				Weekday: time.Saturday, Hour: 18, Minute: 30,
			},
			want: "30 18 * * 6",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.CronExpr(); got != tt.want {
				t.Fatalf("CronExpr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	t.Parallel()
	e := testEntry()

	// Wednesday 2026-01-07 12:00 → next Monday 09:00 is 2026-01-12.
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	next, err := e.NextRun(now)
	if err != nil {
		t.Fatalf("NextRun error: %v", err)
	}
	want := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("NextRun = %v, want %v", next, want)
	}
	if next.Weekday() != time.Monday {
		t.Fatalf("NextRun weekday = %v, want Monday", next.Weekday())
	}
}

func TestEntryValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Entry)
	}{
		{name: "empty label", mutate: func(e *Entry) { e.Label = " " }},
		{name: "empty program", mutate: func(e *Entry) { e.Program = "" }},
		{name: "hour too big", mutate: func(e *Entry) { e.Hour = 24 }},
		{name: "negative minute", mutate: func(e *Entry) { e.Minute = -1 }},
		{name: "weekday out of range", mutate: func(e *Entry) { e.Weekday = time.Weekday(7) }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := testEntry()
			tt.mutate(&e)
			if err := e.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if err := testEntry().Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
}

func TestResolveBackend(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"launchd", "systemd", "cron"} {
		got, err := ResolveBackend(name)
		if err != nil {
			t.Fatalf("ResolveBackend(%q) error: %v", name, err)
		}
		if got != name {
			t.Fatalf("ResolveBackend(%q) = %q", name, got)
		}
	}

	auto, err := ResolveBackend("auto")
	if err != nil {
		t.Fatalf("ResolveBackend(auto) error: %v", err)
	}
	switch runtime.GOOS {
	case "darwin":
		if auto != "launchd" {
			t.Fatalf("auto on darwin = %q, want launchd", auto)
		}
	case "linux":
		if auto != "systemd" {
			t.Fatalf("auto on linux = %q, want systemd", auto)
		}
	default:
		if auto != "cron" {
			t.Fatalf("auto on %s = %q, want cron", runtime.GOOS, auto)
		}
	}

	if _, err := ResolveBackend("taskschd"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
