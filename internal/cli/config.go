// Config loading and per-command environment for the warden CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/warden/internal/audit"
	"github.com/mesh-intelligence/warden/internal/observability"
	"github.com/mesh-intelligence/warden/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyRoot    = "root"
	cfgKeyAuditDB = "audit_db"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Warden CLI configuration

# Guard root directory (optional; overridable by --root or WARDEN_ROOT)
# root:

# Audit database path (optional; overridable by --audit-db or WARDEN_AUDIT_DB)
# audit_db:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// cmdEnv bundles what every subcommand needs: the resolved guard root, the
// open audit store, and the process logger.
type cmdEnv struct {
	log     zerolog.Logger
	root    string
	auditDB string
	store   *audit.Store
}

// newEnv resolves configuration with flag > env > config > default
// precedence and opens the audit store.
func newEnv() (*cmdEnv, error) {
	log := observability.InitLogger("warden", flags.verbose)

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	root, err := paths.ResolveRoot(flags.root, cfg.GetString(cfgKeyRoot))
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	auditDB, err := paths.ResolveAuditDB(flags.auditDB, cfg.GetString(cfgKeyAuditDB), configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve audit db: %w", err)
	}

	store, err := audit.Open(auditDB)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}

	return &cmdEnv{log: log, root: root, auditDB: auditDB, store: store}, nil
}

// close releases the environment's resources.
func (e *cmdEnv) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing audit store")
	}
}

// record writes one decision to the audit store. A failed write must not
// mask the command's own result, so it is logged and dropped here.
func (e *cmdEnv) record(kind, decision, subject, detail string) {
	if _, err := e.store.Record(kind, decision, subject, detail); err != nil {
		e.log.Warn().Err(err).Msg("recording audit event")
	}
}
