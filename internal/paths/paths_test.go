package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform pins the OS and every directory lookup for the test.
func fakePlatform(t *testing.T, goos, home, userConfig, cwd string) {
	t.Helper()
	saved := platform
	platform.goos = goos
	platform.homeDir = func() (string, error) { return home, nil }
	platform.userConfigDir = func() (string, error) { return userConfig, nil }
	platform.workDir = func() (string, error) { return cwd, nil }
	t.Cleanup(func() { platform = saved })
}

func TestDefaultConfigDir(t *testing.T) {
	tests := []struct {
		name string
		goos string
		xdg  string
		want string
	}{
		{"linux xdg", "linux", "/xdg/config", "/xdg/config/torch"},
		{"linux home fallback", "linux", "", "/home/amal/.config/torch"},
		{"macos", "darwin", "/xdg/ignored", "/Users/amal/Library/Application Support/torch"},
		{"windows", "windows", "", "/Users/amal/Library/Application Support/torch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, tt.goos, "/home/amal", "/Users/amal/Library/Application Support", "/unused")
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)

			got, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestDefaultConfigDirLookupFailure(t *testing.T) {
	fakePlatform(t, "linux", "", "", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	platform.homeDir = func() (string, error) { return "", errors.New("no home") }

	_, err := DefaultConfigDir()
	assert.Error(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	fakePlatform(t, "linux", "/home/amal", "/unused", "/unused")
	t.Setenv("XDG_CONFIG_HOME", "")

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins over env", "/explicit/config", "/env/config", "/explicit/config"},
		{"env wins when flag empty", "", "/env/config", "/env/config"},
		{"platform default when both empty", "", "", "/home/amal/.config/torch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.env)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	fakePlatform(t, "linux", "/unused", "/unused", "/srv/school")

	tests := []struct {
		name      string
		flag      string
		configVal string
		env       string
		want      string
	}{
		{"flag wins over all", "/flag/data", "/config/data", "/env/data", "/flag/data"},
		{"config wins over env", "", "/config/data", "/env/data", "/config/data"},
		{"env wins when flag and config empty", "", "", "/env/data", "/env/data"},
		{"working directory default", "", "", "", filepath.Join("/srv/school", ".torch-db")},
		{"relative flag made absolute", "rel/data", "", "", filepath.Join(cwd, "rel/data")},
		{"relative config made absolute", "", "rel/config", "", filepath.Join(cwd, "rel/config")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.configVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/torch", "config.yaml"), ConfigFile("/etc/torch"))
}

func TestExportFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "march")

	got, err := ExportFile(dir, "teaching-torch-data-2024-03-01.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "teaching-torch-data-2024-03-01.json"), got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	got, err = ExportFile("", "x.json")
	require.NoError(t, err)
	assert.Equal(t, "x.json", got)
}

func TestEnsureDirReportsPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	err := EnsureDir(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plain")
}
