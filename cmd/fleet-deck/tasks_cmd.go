package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asheshgoplani/fleet-deck/internal/config"
	"github.com/asheshgoplani/fleet-deck/internal/task"
)

func tasksUsage() {
	fmt.Println("Usage: fleet-deck tasks <subcommand> [args]")
	fmt.Println()
	fmt.Println("Manage per-workspace task lists. The same lists appear on the")
	fmt.Println("dashboard cards; edits here show up there within a tick.")
	fmt.Println()
	fmt.Println("Subcommands:")
	fmt.Println("  list [workspace]            Show tasks (all workspaces by default)")
	fmt.Println("  add <workspace> <text...>   Add a task")
	fmt.Println("  toggle <workspace> <id>     Toggle a task done/undone")
	fmt.Println("  rm <workspace> <id>         Delete a task")
	fmt.Println()
	fmt.Println("Ids may be abbreviated to any unique prefix.")
}

// handleTasks is the CLI surface over the task document the dashboard uses.
func handleTasks(args []string) {
	if len(args) == 0 {
		tasksUsage()
		os.Exit(1)
	}

	dataDir, err := config.DataDir()
	if err != nil {
		fatalf("%v", err)
	}
	store := task.NewStore(filepath.Join(dataDir, "fleet_tasks.json"))

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		workspaces := store.Workspaces()
		if len(rest) > 0 {
			workspaces = rest[:1]
		}
		if len(workspaces) == 0 {
			fmt.Println("No tasks.")
			return
		}
		for _, ws := range workspaces {
			items := store.List(ws)
			fmt.Printf("%s (%d)\n", ws, len(items))
			for _, it := range items {
				marker := "[ ]"
				if it.Done {
					marker = "[x]"
				}
				fmt.Printf("  %s %-8s %s\n", marker, shortID(it.ID), it.Text)
			}
		}

	case "add":
		if len(rest) < 2 {
			fatalf("usage: fleet-deck tasks add <workspace> <text...>")
		}
		item, err := store.Add(rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Added %s to %s\n", shortID(item.ID), rest[0])

	case "toggle":
		if len(rest) != 2 {
			fatalf("usage: fleet-deck tasks toggle <workspace> <id>")
		}
		id, err := resolveID(store, rest[0], rest[1])
		if err != nil {
			fatalf("%v", err)
		}
		if err := store.Toggle(rest[0], id); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Toggled %s\n", shortID(id))

	case "rm":
		if len(rest) != 2 {
			fatalf("usage: fleet-deck tasks rm <workspace> <id>")
		}
		id, err := resolveID(store, rest[0], rest[1])
		if err != nil {
			fatalf("%v", err)
		}
		if err := store.Delete(rest[0], id); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Deleted %s\n", shortID(id))

	case "help", "-h", "--help":
		tasksUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown tasks subcommand %q\n\n", sub)
		tasksUsage()
		os.Exit(1)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID expands an id prefix to the full id, erroring when the prefix is
// unknown or ambiguous.
func resolveID(store *task.Store, workspace, prefix string) (string, error) {
	var matches []string
	for _, it := range store.List(workspace) {
		if strings.HasPrefix(it.ID, prefix) {
			matches = append(matches, it.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task in %s matches id %q", workspace, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
