// Package paths resolves where torch keeps its config.yaml, its catalog data
// and the exports it writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "torch"

	// ConfigFileName is read from the config directory.
	ConfigFileName = "config.yaml"
	// DataDirName is the data directory created under the working directory
	// when nothing else names one.
	DataDirName = ".torch-db"
)

// Environment overrides.
const (
	EnvConfigDir = "TORCH_CONFIG_DIR"
	EnvDataDir   = "TORCH_DATA_DIR"
)

// platform is swapped out by tests.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	workDir       func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	workDir:       os.Getwd,
}

// DefaultConfigDir returns the per-user config directory:
// $XDG_CONFIG_HOME/torch or ~/.config/torch on Linux, os.UserConfigDir()/torch
// elsewhere.
func DefaultConfigDir() (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultDataDir returns DataDirName under the working directory.
func DefaultDataDir() (string, error) {
	cwd, err := platform.workDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DataDirName), nil
}

// firstSet returns the first non-empty candidate made absolute.
func firstSet(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		return abs, true, err
	}
	return "", false, nil
}

// ResolveConfigDir picks the config directory: flag, then $TORCH_CONFIG_DIR,
// then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir, ok, err := firstSet(flag, os.Getenv(EnvConfigDir)); ok {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the data_dir value from
// config.yaml, then $TORCH_DATA_DIR, then DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir, ok, err := firstSet(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return dir, err
	}
	return DefaultDataDir()
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// EnsureDir creates dir and its parents if they are missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// ExportFile returns where an export named name is written under dir,
// creating dir first. An empty dir means the working directory.
func ExportFile(dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
