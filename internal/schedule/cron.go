package schedule

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	logx "lifecal/pkg/logx"
)

// Cron does not talk to the OS at all: it prints the crontab line for the
// user to install by hand (`crontab -e`). This mirrors the original tool's
// cron variant, which never edited the user's crontab itself.
type Cron struct {
	// Out receives the printed line (default os.Stdout).
	Out io.Writer

	log logx.Logger
}

func NewCron(log logx.Logger) *Cron {
	return &Cron{Out: os.Stdout, log: log}
}

func (c *Cron) Name() string { return "cron" }

// Line renders the crontab entry for e. The expression is validated before
// rendering so a bad trigger never reaches the user's crontab.
func (c *Cron) Line(e Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if _, err := e.NextRun(nowFunc()); err != nil {
		return "", err
	}
	parts := append([]string{e.CronExpr(), e.Program}, e.Args...)
	return strings.Join(parts, " "), nil
}

func (c *Cron) Register(_ context.Context, e Entry) error {
	line, err := c.Line(e)
	if err != nil {
		return err
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, "Add this line to your crontab (crontab -e):")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  "+line)
	return nil
}

func (c *Cron) Unregister(_ context.Context, label string) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Remove the %s line from your crontab (crontab -e); nothing was registered automatically.\n", label)
	return nil
}
