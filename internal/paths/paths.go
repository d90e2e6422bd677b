// Package paths resolves configuration and schema directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".strictframe"
	DefaultSchemaDirName = "schemas"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "STRICTFRAME_CONFIG_DIR"
	EnvSchemaDir = "STRICTFRAME_SCHEMA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/strictframe (fallback ~/.config/strictframe)
// macOS:   ~/Library/Application Support/strictframe
// Windows: %APPDATA%/strictframe
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "strictframe"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "strictframe"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "strictframe"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > STRICTFRAME_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveSchemaDir returns the directory schema files are looked up in,
// following the precedence chain: flag > config.yaml schema_dir >
// STRICTFRAME_SCHEMA_DIR env > $(CWD)/schemas.
//
// The CWD-relative default keeps bare schema-file names working inside a
// project checkout without any configuration.
func ResolveSchemaDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvSchemaDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultSchemaDirName), nil
}
