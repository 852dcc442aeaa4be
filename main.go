package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getlantern/systray"

	"foretime/internal/app"
	"foretime/internal/config"
	"foretime/internal/web"
)

// CLI flags override the config file and FORETIME_* environment variables.
type CLI struct {
	Config    string        `help:"Path to a config file." type:"path"`
	Listen    string        `help:"Dashboard listen address." placeholder:"HOST:PORT"`
	DB        string        `help:"Path to the SQLite database file." type:"path"`
	Tick      time.Duration `help:"Foreground sampling interval."`
	Flush     time.Duration `help:"Database flush interval."`
	Headless  bool          `help:"Run without the system tray icon."`
	NoBrowser bool          `help:"Do not open the dashboard on startup."`
}

func (c *CLI) applyTo(cfg *config.Config) {
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}
	if c.DB != "" {
		cfg.DBPath = c.DB
	}
	if c.Tick > 0 {
		cfg.TickInterval = c.Tick
	}
	if c.Flush > 0 {
		cfg.FlushInterval = c.Flush
	}
	if c.NoBrowser {
		cfg.OpenBrowser = false
	}
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("foretime"),
		kong.Description("Tracks foreground application usage and serves a local dashboard."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foretime: %v\n", err)
		os.Exit(1)
	}
	cli.applyTo(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "foretime: %v\n", err)
		os.Exit(1)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "foretime: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.Headless {
		runHeadless(ctx, a)
		return
	}
	runTray(ctx, a)
}

func runHeadless(ctx context.Context, a *app.App) {
	if err := a.Startup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "foretime: %v\n", err)
		os.Exit(1)
	}
	<-ctx.Done()
	a.Shutdown()
}

// runTray parks the main goroutine in the systray loop. Quit comes from
// either the tray menu or a termination signal.
func runTray(ctx context.Context, a *app.App) {
	onReady := func() {
		systray.SetTitle("foretime")
		systray.SetTooltip("Foreground activity tracker")

		if err := a.Startup(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "foretime: %v\n", err)
			systray.Quit()
			return
		}

		mOpen := systray.AddMenuItem("Open dashboard", "Open the usage dashboard in a browser")
		mQuit := systray.AddMenuItem("Quit", "Stop tracking and exit")

		go func() {
			for {
				select {
				case <-mOpen.ClickedCh:
					web.OpenDashboard(a.Addr(), nil)
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				case <-ctx.Done():
					systray.Quit()
					return
				}
			}
		}()
	}

	systray.Run(onReady, a.Shutdown)
}
