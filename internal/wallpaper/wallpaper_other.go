//go:build !darwin && !linux && !windows

package wallpaper

import (
	"context"
	"fmt"
	"runtime"
)

func set(_ context.Context, _ string) error {
	return fmt.Errorf("setting the wallpaper is not supported on %s", runtime.GOOS)
}
