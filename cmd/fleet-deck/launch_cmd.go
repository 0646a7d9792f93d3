package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/asheshgoplani/fleet-deck/internal/config"
	"github.com/asheshgoplani/fleet-deck/internal/fleet"
	"github.com/asheshgoplani/fleet-deck/internal/tmux"
)

// handleLaunch provisions one agent session per workspace under the root.
func handleLaunch(args []string) {
	cfg := config.LoadDefault()

	fs := flag.NewFlagSet("launch", flag.ExitOnError)
	tool := fs.String("backend", cfg.Fleet.DefaultTool, "Agent tool to launch (claude or gemini)")
	maxAgents := fs.Int("max", cfg.Fleet.MaxAgents, "Maximum number of agent sessions to create")
	logDir := fs.String("log-dir", cfg.Fleet.LogDir, "Directory for session log sinks")
	noWindows := fs.Bool("no-windows", false, "Do not open a terminal window per session")

	fs.Usage = func() {
		fmt.Println("Usage: fleet-deck launch [options] [root]")
		fmt.Println()
		fmt.Println("Launch one agent session per immediate subdirectory of root")
		fmt.Println("(default \".\"), each piping its output to a log sink the")
		fmt.Println("dashboard watches.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  fleet-deck launch ~/repos")
		fmt.Println("  fleet-deck launch -backend gemini -max 2 ~/repos")
		fmt.Println("  fleet-deck launch -no-windows")
	}

	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", fs.Args()[1:])
		fs.Usage()
		os.Exit(1)
	}

	switch *tool {
	case config.ToolClaude, config.ToolGemini:
	default:
		fatalf("unknown backend %q (want %s or %s)", *tool, config.ToolClaude, config.ToolGemini)
	}
	if *maxAgents <= 0 {
		fatalf("-max must be positive")
	}
	if _, err := exec.LookPath("tmux"); err != nil {
		fatalf("tmux not found in PATH; install tmux to host agent sessions")
	}

	controller := fleet.NewController(tmux.New(), fleet.LaunchOptions{
		Root:        root,
		Tool:        *tool,
		MaxAgents:   *maxAgents,
		LogDir:      *logDir,
		OpenWindows: !*noWindows,
	})

	sessions, err := controller.Launch()
	if err != nil {
		if errors.Is(err, fleet.ErrNoWorkspaces) {
			fatalf("no workspaces found under %s (expected subdirectories)", root)
		}
		// Sessions created before the failure stay up; report them.
		for _, s := range sessions {
			fmt.Printf("  launched %s (%s)\n", s.Name, s.Workspace.Name)
		}
		fatalf("%v", err)
	}

	fmt.Printf("Launched %d agent session(s):\n\n", len(sessions))
	for _, s := range sessions {
		fmt.Printf("  %-28s %s\n", s.Name, s.Workspace.Path)
		fmt.Printf("    sink:   %s\n", s.SinkPath)
		fmt.Printf("    attach: %s\n", s.AttachCommand)
	}
	fmt.Println()
	fmt.Println("Run 'fleet-deck dash' to monitor the fleet.")
}
