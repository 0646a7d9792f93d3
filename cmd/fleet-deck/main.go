// fleet-deck launches a fleet of AI agent sessions across the workspaces of
// a project root and monitors them from a terminal dashboard.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const version = "0.1.0"

func printUsage() {
	fmt.Println("Usage: fleet-deck <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  launch [root]   Launch one agent session per workspace under root")
	fmt.Println("  dash            Open the fleet monitoring dashboard")
	fmt.Println("  tasks           Manage per-workspace task lists")
	fmt.Println("  version         Print the fleet-deck version")
	fmt.Println("  help            Show this help")
	fmt.Println()
	fmt.Println("Run 'fleet-deck <command> -h' for command options.")
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "launch":
		handleLaunch(rest)
	case "dash", "dashboard":
		handleDash(rest)
	case "tasks":
		handleTasks(rest)
	case "version", "--version", "-v":
		fmt.Println("fleet-deck " + version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// normalizeArgs reorders args so flags may follow positionals
// ("fleet-deck launch ./repos -max 2" parses the same as
// "fleet-deck launch -max 2 ./repos").
func normalizeArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			continue
		}
		// The flag consumes the next arg as its value.
		if i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
