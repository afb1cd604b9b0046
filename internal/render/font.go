package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// systemFontPaths is tried in order when the config does not override it.
// The macOS entries come first (the tool's original home), then common
// Linux and Windows locations.
var systemFontPaths = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/SFNSText.ttf",
	"/System/Library/Fonts/SFNS.ttf",
	"/System/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// ResolveFontPath returns the first readable font file from paths, or from the
// built-in system list when paths is empty.
func ResolveFontPath(paths []string) (string, error) {
	if len(paths) == 0 {
		paths = systemFontPaths
	}
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no usable font found (tried %d paths)", len(paths))
}

// loadFace opens a scalable face at the given pixel size from the first
// usable font file. When no file can be loaded it falls back to a fixed
// bitmap face so rendering always succeeds.
func loadFace(paths []string, size float64) font.Face {
	path, err := ResolveFontPath(paths)
	if err != nil {
		return basicfont.Face7x13
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return basicfont.Face7x13
	}
	// ParseCollection handles both single fonts (.ttf/.otf) and collections (.ttc).
	coll, err := opentype.ParseCollection(b)
	if err != nil {
		return basicfont.Face7x13
	}
	f, err := coll.Font(0)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
