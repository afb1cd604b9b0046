//go:build linux

package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
)

// set uses gsettings (GNOME and derivatives). Both the light and dark keys
// are written so the change is visible regardless of the active style.
func set(ctx context.Context, path string) error {
	uri := "file://" + path
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		cmd := exec.CommandContext(ctx, "gsettings", "set", "org.gnome.desktop.background", key, uri)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("gsettings set %s: %w (%s)", key, err, string(out))
		}
	}
	return nil
}
