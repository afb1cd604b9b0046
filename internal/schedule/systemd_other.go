//go:build !linux

package schedule

import (
	"fmt"
	"runtime"

	logx "lifecal/pkg/logx"
)

// NewSystemd is only available on linux.
func NewSystemd(_ logx.Logger) (Registrar, error) {
	return nil, fmt.Errorf("systemd backend is not available on %s", runtime.GOOS)
}
