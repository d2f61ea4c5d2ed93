// Package paths resolves the warden CLI's configuration directory, guard
// root, and audit database locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AuditDBName is the audit database filename inside the config directory.
const AuditDBName = "audit.db"

// Environment variable names for overrides.
const (
	EnvConfigDir = "WARDEN_CONFIG_DIR"
	EnvRoot      = "WARDEN_ROOT"
	EnvAuditDB   = "WARDEN_AUDIT_DB"
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
// Linux:   $XDG_CONFIG_HOME/warden (fallback ~/.config/warden)
// macOS:   ~/Library/Application Support/warden
// Windows: %APPDATA%/warden
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "warden"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "warden"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "warden"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > WARDEN_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveRoot returns the guard root following the precedence chain:
// flag > WARDEN_ROOT env > config value > current working directory.
//
// The result is only a candidate root; canonicalization and the
// directory-existence check belong to the guard's constructor.
func ResolveRoot(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvRoot); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return os.Getwd()
}

// ResolveAuditDB returns the audit database path following the precedence
// chain: flag > WARDEN_AUDIT_DB env > config value > configDir/audit.db.
func ResolveAuditDB(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvAuditDB); env != "" {
		return filepath.Abs(env)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(configDir, AuditDBName), nil
}
