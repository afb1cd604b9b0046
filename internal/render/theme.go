package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme holds the parsed grid colors.
type Theme struct {
	Background color.RGBA
	Past       color.RGBA
	Future     color.RGBA
	Current    color.RGBA
	Text       color.RGBA
}

// ParseHexColor parses "#RRGGBB" into an opaque RGBA color.
func ParseHexColor(s string) (color.RGBA, error) {
	t := strings.TrimSpace(s)
	if len(t) != 7 || t[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #RRGGBB)", s)
	}
	v, err := strconv.ParseUint(t[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

// ParseTheme parses the five theme colors.
func ParseTheme(background, past, future, current, text string) (Theme, error) {
	var th Theme
	var err error
	if th.Background, err = ParseHexColor(background); err != nil {
		return Theme{}, err
	}
	if th.Past, err = ParseHexColor(past); err != nil {
		return Theme{}, err
	}
	if th.Future, err = ParseHexColor(future); err != nil {
		return Theme{}, err
	}
	if th.Current, err = ParseHexColor(current); err != nil {
		return Theme{}, err
	}
	if th.Text, err = ParseHexColor(text); err != nil {
		return Theme{}, err
	}
	return th, nil
}
