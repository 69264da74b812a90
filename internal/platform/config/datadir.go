package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir resolves the per-OS application data directory convention
// named in spec.md §6 ("a writable data directory (located per-OS
// convention)").
func DefaultDataDir() string {
	if dir := os.Getenv("MIMIR_DATA_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "mimir-dm"
		}
		return filepath.Join(home, "Library", "Application Support", "mimir-dm")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mimir-dm")
		}
		return "mimir-dm"
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "mimir-dm")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "mimir-dm"
		}
		return filepath.Join(home, ".local", "share", "mimir-dm")
	}
}
