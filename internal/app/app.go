// Package app wires config, logging, rendering, wallpaper and scheduling into
// the flows the CLI exposes: generate, install, schedule, unschedule.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifecal/internal/calendar"
	"lifecal/internal/config"
	"lifecal/internal/render"
	"lifecal/internal/schedule"
	"lifecal/internal/wallpaper"
	logx "lifecal/pkg/logx"
)

type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service

	// newRegistrar is swapped out in tests.
	newRegistrar func(backend string, log logx.Logger) (schedule.Registrar, error)
}

// New loads the config at cfgPath and brings up logging.
func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleLogging(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    expandHome(cfg.Logging.File.Path),
		},
	})
	log = log.With(logx.String("comp", "app"))

	cfgm.SetLogger(logs.Logger().With(logx.String("comp", "config")))
	cfgm.SetValidator(func(_ context.Context, c *config.Config) error {
		return config.Validate(c)
	})

	return &App{cfgm: cfgm, log: log, logs: logs, newRegistrar: schedule.New}, nil
}

func (a *App) Close() error { return a.logs.Close() }

func (a *App) Config() *config.Config    { return a.cfgm.Get() }
func (a *App) Manager() *config.Manager  { return a.cfgm }
func (a *App) Log() logx.Logger          { return a.log }
func (a *App) LogService() *logx.Service { return a.logs }

// OutputPath returns the resolved wallpaper file location.
func (a *App) OutputPath() string {
	return expandHome(a.Config().Render.Output)
}

// Generate renders the life calendar, replaces the output file and, when
// enabled, applies it as the desktop wallpaper. A wallpaper-set failure is
// logged but does not fail the generation: the file on disk is the result.
func (a *App) Generate(ctx context.Context) error {
	return a.generate(ctx, a.Config())
}

func (a *App) generate(ctx context.Context, cfg *config.Config) error {
	birthday, err := config.ParseBirthday(cfg.Calendar.Birthday)
	if err != nil {
		return err
	}
	life, err := calendar.At(birthday, cfg.Calendar.LifespanYears, time.Now())
	if err != nil {
		return err
	}

	th := cfg.Render.Theme
	theme, err := render.ParseTheme(th.Background, th.Past, th.Future, th.Current, th.Text)
	if err != nil {
		return err
	}

	img, err := render.Image(life, render.Options{
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		CellSize:  cfg.Render.CellSize,
		CellGap:   cfg.Render.CellGap,
		Theme:     theme,
		Title:     cfg.Render.Title,
		FontPaths: cfg.Render.FontPaths,
	})
	if err != nil {
		return err
	}

	out := expandHome(cfg.Render.Output)
	if err := render.WritePNG(img, out); err != nil {
		return err
	}
	a.log.Info("wallpaper generated",
		logx.String("path", out),
		logx.Int("weeks_lived", life.WeeksLived),
		logx.Int("weeks_remaining", life.Remaining()),
		logx.Float64("percent", life.Percent()),
	)

	if cfg.WallpaperSet() {
		if err := wallpaper.Set(ctx, out); err != nil {
			a.log.Warn("could not set wallpaper automatically; set it manually from your system settings",
				logx.String("path", out), logx.Err(err))
		} else {
			a.log.Info("wallpaper set", logx.String("path", out))
		}
	}
	return nil
}

// Entry builds the schedule entry that re-invokes this binary weekly.
func (a *App) Entry() (schedule.Entry, error) {
	cfg := a.Config()
	wd, err := config.ParseWeekday(cfg.Schedule.Weekday)
	if err != nil {
		return schedule.Entry{}, err
	}
	prog, err := os.Executable()
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("resolve executable path: %w", err)
	}
	prog, err = filepath.Abs(prog)
	if err != nil {
		return schedule.Entry{}, err
	}
	return schedule.Entry{
		Label:   cfg.Schedule.Label,
		Program: prog,
		// Global flags precede the command with urfave/cli.
		Args:    []string{"--config", a.cfgm.Path(), "generate"},
		Weekday: wd,
		Hour:    cfg.ScheduleHour(),
		Minute:  cfg.Schedule.Minute,
	}, nil
}

func (a *App) registrar() (schedule.Registrar, error) {
	return a.newRegistrar(a.Config().Schedule.Backend, a.log.With(logx.String("comp", "schedule")))
}

// Register performs the idempotent weekly-schedule replace.
func (a *App) Register(ctx context.Context) error {
	e, err := a.Entry()
	if err != nil {
		return err
	}
	reg, err := a.registrar()
	if err != nil {
		return err
	}
	if err := reg.Register(ctx, e); err != nil {
		return err
	}
	if next, err := e.NextRun(time.Now()); err == nil {
		a.log.Info("weekly refresh scheduled",
			logx.String("backend", reg.Name()),
			logx.String("cron", e.CronExpr()),
			logx.Time("next_run", next),
		)
	}
	return nil
}

// Unregister removes the schedule entry; a missing entry is not an error.
func (a *App) Unregister(ctx context.Context) error {
	reg, err := a.registrar()
	if err != nil {
		return err
	}
	return reg.Unregister(ctx, a.Config().Schedule.Label)
}

// Install is the linear install flow: check prerequisites, generate once,
// then register the weekly schedule. The first failing step aborts; in
// particular a failed generation means no registration is attempted.
func (a *App) Install(ctx context.Context) error {
	cfg := a.Config()

	if path, err := render.ResolveFontPath(cfg.Render.FontPaths); err != nil {
		a.log.Warn("no scalable font found; labels will use the built-in bitmap font", logx.Err(err))
	} else {
		a.log.Debug("font resolved", logx.String("path", path))
	}

	if err := a.Generate(ctx); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := a.Register(ctx); err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}
	return nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
