// Package wallpaper applies an image file as the desktop wallpaper.
//
// Each supported OS gets its own build-tagged implementation; Set is the
// single entry point. Failures here are advisory for callers — the generated
// file on disk is the durable artifact, and the original tool only prints a
// hint when the desktop refuses the change.
package wallpaper

import "context"

// Set makes the image at path the desktop wallpaper.
func Set(ctx context.Context, path string) error {
	return set(ctx, path)
}
