// Package render draws the life-calendar wallpaper: the week grid, year
// labels, title and stats line, encoded as a PNG.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"lifecal/internal/calendar"
)

// Layout constants, fixed by the original design: the top band holds the
// title, the bottom band the stats line, and the label margin makes room for
// right-aligned year numbers left of the grid.
const (
	topReserve    = 90
	bottomReserve = 60
	labelMargin   = 36

	titleBaselineY = 48
	statsOffsetY   = 32
	labelGapX      = 10

	titleFontSize = 15
	smallFontSize = 11
)

// Options controls a single render.
type Options struct {
	Width    int
	Height   int
	CellSize int
	CellGap  int
	Theme    Theme
	Title    string

	// FontPaths overrides the system font search list (empty means default).
	FontPaths []string
}

// Image draws the full wallpaper for the given life state.
func Image(life calendar.Life, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", opts.Width, opts.Height)
	}
	if opts.CellSize < 1 || opts.CellGap < 0 {
		return nil, fmt.Errorf("invalid cell geometry size=%d gap=%d", opts.CellSize, opts.CellGap)
	}

	step := opts.CellSize + opts.CellGap
	cols := calendar.WeeksPerRow
	rows := life.Rows()
	gridW := cols*step - opts.CellGap
	gridH := rows*step - opts.CellGap

	usableH := opts.Height - topReserve - bottomReserve
	ox := (opts.Width - gridW + labelMargin) / 2
	oy := topReserve + (usableH-gridH)/2

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Theme.Background), image.Point{}, draw.Src)

	drawGrid(img, life, opts, ox, oy)

	smallFace := loadFace(opts.FontPaths, smallFontSize)
	drawYearLabels(img, opts, rows, ox, oy, smallFace)

	titleFace := loadFace(opts.FontPaths, titleFontSize)
	drawCentered(img, titleFace, opts.Theme.Text, opts.Title, opts.Width/2, titleBaselineY)

	drawCentered(img, smallFace, opts.Theme.Text, life.Stats(), opts.Width/2, oy+gridH+statsOffsetY)

	return img, nil
}

func drawGrid(img *image.RGBA, life calendar.Life, opts Options, ox, oy int) {
	step := opts.CellSize + opts.CellGap
	past := image.NewUniform(opts.Theme.Past)
	future := image.NewUniform(opts.Theme.Future)
	current := image.NewUniform(opts.Theme.Current)

	for row := 0; row < life.Rows(); row++ {
		for col := 0; col < calendar.WeeksPerRow; col++ {
			idx := row*calendar.WeeksPerRow + col
			var src *image.Uniform
			switch life.Cell(idx) {
			case calendar.CellPast:
				src = past
			case calendar.CellCurrent:
				src = current
			default:
				src = future
			}
			x := ox + col*step
			y := oy + row*step
			r := image.Rect(x, y, x+opts.CellSize, y+opts.CellSize)
			draw.Draw(img, r, src, image.Point{}, draw.Src)
		}
	}
}

// drawYearLabels writes a right-aligned year number every ten rows, including
// the final lifespan year below the last row.
func drawYearLabels(img *image.RGBA, opts Options, rows, ox, oy int, face font.Face) {
	step := opts.CellSize + opts.CellGap
	for year := 0; year <= rows; year += 10 {
		label := strconv.Itoa(year)
		y := oy + year*step
		drawRightAligned(img, face, opts.Theme.Text, label, ox-labelGapX, y)
	}
}

// drawCentered draws s horizontally centered on cx and vertically centered on cy.
func drawCentered(img *image.RGBA, face font.Face, col color.RGBA, s string, cx, cy int) {
	adv := font.MeasureString(face, s)
	m := face.Metrics()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cx) - adv/2,
			Y: fixed.I(cy) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(s)
}

// drawRightAligned draws s with its right edge at rx, vertically centered on cy.
func drawRightAligned(img *image.RGBA, face font.Face, col color.RGBA, s string, rx, cy int) {
	adv := font.MeasureString(face, s)
	m := face.Metrics()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(rx) - adv,
			Y: fixed.I(cy) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(s)
}

// WritePNG encodes img and atomically replaces the file at path.
// The parent directory is created when missing.
func WritePNG(img image.Image, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".lifecal-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
