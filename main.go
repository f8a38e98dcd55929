package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/airguard/internal/api"
	"github.com/luki/airguard/internal/config"
	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/monitor"
	"github.com/luki/airguard/internal/sensor"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command and returns the exit code. Help never touches
// the configuration, so it works even when config.yml is broken.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "help", "-h", "--help":
		printHelp(stdout)
		return 0
	case "", "room", "stub":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printHelp(stderr)
		return 1
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch cmd {
	case "room":
		if len(args) < 2 {
			printHelp(stderr)
			return 1
		}
		room, perr := sensor.ParseRoom(args[1])
		if perr != nil {
			fmt.Fprintf(stderr, "Error: %v\n\n", perr)
			printHelp(stderr)
			return 1
		}
		err = runDashboard(cfg, monitor.RoomRoute(room))
	case "stub":
		err = runStub(cfg, args[1:])
	default:
		err = runDashboard(cfg, monitor.Route{Screen: monitor.Overview})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runDashboard starts the TUI. The TUI owns the terminal, so logs go to
// the configured file.
func runDashboard(cfg config.Config, start monitor.Route) error {
	log := logger.Get(cfg.Log.Level, cfg.Log.File)
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log.Infow("dashboard_start", "base_url", cfg.API.BaseURL, "interval", cfg.Poll.Interval.String(), "route", start.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := monitor.New(monitor.Deps{
		Context:  ctx,
		Client:   api.New(cfg.API.BaseURL, cfg.API.Timeout, log),
		Config:   cfg,
		Location: loc,
		Log:      log,
	}, start)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorw("dashboard_failed", "error", err)
		return err
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: airguard [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  (none)      Overview of all rooms")
	fmt.Fprintln(w, "  room <1-3>  Detail view and alert ranges of one room")
	fmt.Fprintln(w, "  stub        Run a local stub of the sensor API")
	fmt.Fprintln(w, "  help        Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration: configs/config.yml, .env, AIRGUARD_* environment variables")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  airguard room 2")
	fmt.Fprintln(w, "  airguard stub 9090")
	fmt.Fprintln(w, "  AIRGUARD_API_BASE_URL=http://localhost:8080/iot/api airguard")
}
