package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lifecal/internal/calendar"
)

func TestParseHexColor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#111111", want: color.RGBA{0x11, 0x11, 0x11, 0xFF}},
		{in: "#FF6B35", want: color.RGBA{0xFF, 0x6B, 0x35, 0xFF}},
		{in: "#dedede", want: color.RGBA{0xDE, 0xDE, 0xDE, 0xFF}},
		{in: "FF6B35", wantErr: true},
		{in: "#FF6B3", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseHexColor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHexColor(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testTheme(t *testing.T) Theme {
	t.Helper()
	th, err := ParseTheme("#111111", "#DEDEDE", "#252525", "#FF6B35", "#4A4A4A")
	if err != nil {
		t.Fatalf("ParseTheme error: %v", err)
	}
	return th
}

func TestImageGridColors(t *testing.T) {
	t.Parallel()

	birthday := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := birthday.AddDate(0, 0, 8) // one full week lived, current week index 1
	life, err := calendar.At(birthday, 2, now)
	if err != nil {
		t.Fatalf("calendar.At error: %v", err)
	}

	opts := Options{
		Width:    800,
		Height:   600,
		CellSize: 10,
		CellGap:  2,
		Theme:    testTheme(t),
		Title:    "life  in  weeks",
	}
	img, err := Image(life, opts)
	if err != nil {
		t.Fatalf("Image error: %v", err)
	}

	if got := img.Bounds().Dx(); got != opts.Width {
		t.Fatalf("width = %d, want %d", got, opts.Width)
	}

	// Recompute the layout the same way the renderer does.
	step := opts.CellSize + opts.CellGap
	gridW := calendar.WeeksPerRow*step - opts.CellGap
	gridH := life.Rows()*step - opts.CellGap
	ox := (opts.Width - gridW + labelMargin) / 2
	oy := topReserve + (opts.Height-topReserve-bottomReserve-gridH)/2

	at := func(col, row int) color.RGBA {
		return img.RGBAAt(ox+col*step+opts.CellSize/2, oy+row*step+opts.CellSize/2)
	}

	if got := at(0, 0); got != opts.Theme.Past {
		t.Fatalf("cell 0 = %v, want past %v", got, opts.Theme.Past)
	}
	if got := at(1, 0); got != opts.Theme.Current {
		t.Fatalf("cell 1 = %v, want current %v", got, opts.Theme.Current)
	}
	if got := at(2, 0); got != opts.Theme.Future {
		t.Fatalf("cell 2 = %v, want future %v", got, opts.Theme.Future)
	}

	// Gap pixels keep the background color.
	if got := img.RGBAAt(ox+opts.CellSize, oy); got != opts.Theme.Background {
		t.Fatalf("gap = %v, want background %v", got, opts.Theme.Background)
	}
	// Corners too.
	if got := img.RGBAAt(0, 0); got != opts.Theme.Background {
		t.Fatalf("corner = %v, want background %v", got, opts.Theme.Background)
	}
}

func TestImageRejectsBadGeometry(t *testing.T) {
	t.Parallel()
	life, err := calendar.At(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 90, time.Now())
	if err != nil {
		t.Fatalf("calendar.At error: %v", err)
	}
	if _, err := Image(life, Options{Width: 0, Height: 600}); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := Image(life, Options{Width: 800, Height: 600, CellSize: 0}); err == nil {
		t.Fatal("expected error for zero cell size")
	}
}

func TestWritePNGOverwrites(t *testing.T) {
	t.Parallel()

	life, err := calendar.At(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 1, time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("calendar.At error: %v", err)
	}
	img, err := Image(life, Options{Width: 400, Height: 300, CellSize: 4, CellGap: 1, Theme: testTheme(t), Title: "t"})
	if err != nil {
		t.Fatalf("Image error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "life_calendar.png")
	if err := WritePNG(img, path); err != nil {
		t.Fatalf("WritePNG error: %v", err)
	}
	fi1, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	// Second write replaces the file in place, no versions left behind.
	if err := WritePNG(img, path); err != nil {
		t.Fatalf("WritePNG (second) error: %v", err)
	}
	fi2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi1.Size() != fi2.Size() {
		t.Fatalf("size changed across identical writes: %d != %d", fi1.Size(), fi2.Size())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in output dir, got %d", len(entries))
	}
}

func TestResolveFontPathFallsThrough(t *testing.T) {
	t.Parallel()
	if _, err := ResolveFontPath([]string{filepath.Join(t.TempDir(), "missing.ttf")}); err == nil {
		t.Fatal("expected error when no font exists")
	}
}
