package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenTerminalWindow opens an operator-facing terminal window running the
// given attach command. Failures here are advisory: headless and remote
// environments have no window to open, and the operator can always attach
// manually with the same command.
func OpenTerminalWindow(attachCmd string) error {
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`tell application "Terminal" to do script %q`, attachCmd)
		if err := exec.Command("osascript", "-e", script).Run(); err != nil {
			return fmt.Errorf("open Terminal window: %w", err)
		}
		return nil
	}

	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("no display available")
	}

	// Try the user's preferred terminal first, then common fallbacks.
	candidates := [][]string{
		{os.Getenv("TERMINAL"), "-e", "sh", "-c", attachCmd},
		{"x-terminal-emulator", "-e", "sh", "-c", attachCmd},
		{"gnome-terminal", "--", "sh", "-c", attachCmd},
		{"xterm", "-e", "sh", "-c", attachCmd},
	}
	for _, c := range candidates {
		if c[0] == "" {
			continue
		}
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		if err := exec.Command(c[0], c[1:]...).Start(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no usable terminal emulator found")
}
