package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/asheshgoplani/fleet-deck/internal/config"
	"github.com/asheshgoplani/fleet-deck/internal/fleet"
	"github.com/asheshgoplani/fleet-deck/internal/task"
	"github.com/asheshgoplani/fleet-deck/internal/tmux"
	"github.com/asheshgoplani/fleet-deck/internal/ui"
)

// handleDash runs the monitoring dashboard.
func handleDash(args []string) {
	fs := flag.NewFlagSet("dash", flag.ExitOnError)
	logDir := fs.String("log-dir", "", "Override the log sink directory to watch")

	fs.Usage = func() {
		fmt.Println("Usage: fleet-deck dash [options]")
		fmt.Println()
		fmt.Println("Open the fleet dashboard: one card per agent log sink found in")
		fmt.Println("the log directory, with live status, history, and task lists.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		os.Exit(1)
	}

	cfg := config.LoadDefault()
	if *logDir != "" {
		cfg.Fleet.LogDir = *logDir
	}

	dataDir, err := config.DataDir()
	if err != nil {
		fatalf("%v", err)
	}

	// The TUI owns the terminal, so internal logging goes to a rotating
	// file under the data directory instead of stderr.
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "dashboard.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     14, // days
	}
	log.SetOutput(logFile)
	defer logFile.Close()

	registry := fleet.NewRegistry(cfg.Fleet.LogDir)
	tasks := task.NewStore(filepath.Join(dataDir, "fleet_tasks.json"))
	dash := ui.NewDash(cfg, registry, tasks, tmux.New())
	defer dash.Close()

	p := tea.NewProgram(dash, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatalf("dashboard: %v", err)
	}
}
