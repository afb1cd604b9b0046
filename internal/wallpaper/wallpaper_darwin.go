//go:build darwin

package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// set tells System Events to point every desktop at the file, matching the
// original AppleScript invocation.
func set(ctx context.Context, path string) error {
	script := `tell application "System Events" to tell every desktop to set picture to ` + strconv.Quote(path)
	out, err := exec.CommandContext(ctx, "/usr/bin/osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w (%s)", err, string(out))
	}
	return nil
}
