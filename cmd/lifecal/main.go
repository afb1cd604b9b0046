package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"lifecal/internal/app"
	"lifecal/internal/config"
	"lifecal/internal/daemon"
)

var version = "dev"

func main() {
	if err := execute(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lifecal:", err)
		os.Exit(1)
	}
}

func execute(args []string) error {
	cl := cli.App{
		Name:    "lifecal",
		Usage:   "life-calendar wallpaper: generate a \"life in weeks\" image and refresh it weekly",
		Version: version,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "config file `PATH`",
				Value: config.DefaultPath(),
			},
		},
		Commands: []cli.Command{
			{
				Name:  "install",
				Usage: "generate the wallpaper once and register the weekly refresh",
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "birthday",
						Usage: "seed a new config with this `DATE` (YYYY-MM-DD) when none exists",
					},
				},
				Action: installAction,
			},
			{
				Name:   "generate",
				Usage:  "render the wallpaper image and apply it",
				Action: generateAction,
			},
			{
				Name:   "schedule",
				Usage:  "register the weekly refresh (idempotent replace)",
				Action: scheduleAction,
			},
			{
				Name:   "unschedule",
				Usage:  "remove the weekly refresh registration",
				Action: unscheduleAction,
			},
			{
				Name:   "daemon",
				Usage:  "run in the foreground, refreshing weekly and reloading config on change",
				Action: daemonAction,
			},
		},
	}
	return cl.Run(args)
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openApp(c *cli.Context) (*app.App, error) {
	return app.New(c.GlobalString("config"))
}

func installAction(c *cli.Context) error {
	cfgPath := c.GlobalString("config")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		birthday := c.String("birthday")
		if birthday == "" {
			return fmt.Errorf("no config at %s; pass --birthday YYYY-MM-DD to create one", cfgPath)
		}
		if err := config.WriteStarter(cfgPath, birthday); err != nil {
			return err
		}
		fmt.Println("created", cfgPath)
	}

	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return a.Install(ctx)
}

func generateAction(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return a.Generate(ctx)
}

func scheduleAction(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return a.Register(ctx)
}

func unscheduleAction(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return a.Unregister(ctx)
}

func daemonAction(c *cli.Context) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return daemon.New(a).Run(ctx)
}
