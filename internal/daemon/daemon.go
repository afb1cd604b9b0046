// Package daemon runs lifecal as a long-lived process: an in-process cron
// fires the weekly refresh and the config file is hot-reloaded on change.
// This is an alternative to registering an OS scheduler entry.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"lifecal/internal/app"
	"lifecal/internal/config"
	logx "lifecal/pkg/logx"
)

const defaultMinRefreshInterval = 30 * time.Second

type Service struct {
	app *app.App
	log logx.Logger
}

func New(a *app.App) *Service {
	return &Service{
		app: a,
		log: a.Log().With(logx.String("comp", "daemon")),
	}
}

// Run blocks until ctx is done. It generates once at startup, then on the
// weekly trigger, and again whenever the config changes on disk. Watch-driven
// refreshes are throttled so editor save storms cause a single render.
func (s *Service) Run(ctx context.Context) error {
	cfg := s.app.Config()

	minInterval, err := config.ParseDurationOrDefault(
		"daemon.min_refresh_interval", cfg.Daemon.MinRefreshInterval, defaultMinRefreshInterval)
	if err != nil {
		return err
	}
	limiter := rate.NewLimiter(rate.Every(minInterval), 1)

	refresh := func(reason string) {
		if !limiter.Allow() {
			s.log.Debug("refresh throttled", logx.String("reason", reason))
			return
		}
		if err := s.app.Generate(ctx); err != nil {
			s.log.Error("refresh failed", logx.String("reason", reason), logx.Err(err))
			return
		}
		s.log.Info("refreshed", logx.String("reason", reason))
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	entry, err := s.app.Entry()
	if err != nil {
		return err
	}
	id, err := c.AddFunc(entry.CronExpr(), func() { refresh("schedule") })
	if err != nil {
		return fmt.Errorf("add weekly trigger %q: %w", entry.CronExpr(), err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	s.log.Info("daemon started",
		logx.String("cron", entry.CronExpr()),
		logx.Duration("min_refresh_interval", minInterval),
	)

	// Watch the config file for the lifetime of the daemon.
	sub := s.app.Manager().Subscribe(2)
	defer s.app.Manager().Unsubscribe(sub)
	go func() {
		_ = s.app.Manager().Watch(ctx)
	}()

	refresh("startup")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daemon stopping")
			return nil
		case newCfg, ok := <-sub:
			if !ok {
				return nil
			}
			s.applyConfig(c, &id, newCfg, refresh)
			refresh("config change")
		}
	}
}

// applyConfig swaps logging sinks and re-derives the weekly trigger after a
// config reload. The config has already been validated by the manager.
func (s *Service) applyConfig(c *cron.Cron, id *cron.EntryID, cfg *config.Config, refresh func(string)) {
	s.app.LogService().Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleLogging(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	entry, err := s.app.Entry()
	if err != nil {
		s.log.Warn("keeping previous trigger", logx.Err(err))
		return
	}
	c.Remove(*id)
	newID, err := c.AddFunc(entry.CronExpr(), func() { refresh("schedule") })
	if err != nil {
		s.log.Warn("invalid trigger after reload; weekly refresh disabled until next valid config",
			logx.String("cron", entry.CronExpr()), logx.Err(err))
		return
	}
	*id = newID
	s.log.Info("config reloaded", logx.String("cron", entry.CronExpr()))
}
