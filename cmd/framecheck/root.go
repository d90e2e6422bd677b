// Root command for the framecheck CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strictframe/internal/paths"
	"github.com/mesh-intelligence/strictframe/pkg/strictframe"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError tags an error with the process exit code. Commands return it
// instead of calling os.Exit so deferred cleanup runs; main unwraps the
// code after Execute.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// sysExit marks err as a system failure (exit code 2): unreadable input,
// database access, config directory trouble.
func sysExit(err error) error { return &exitError{code: exitSysError, err: err} }

// quietExit signals a non-zero exit after output has already been printed.
func quietExit(code int) error { return &exitError{code: code} }

// Global flag values.
var (
	flagConfigDir string
	flagSchemaDir string
	flagJSON      bool
)

// configSchemaDir holds the schema_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configSchemaDir string

var rootCmd = &cobra.Command{
	Use:     "framecheck",
	Short:   "Framecheck validates tabular data against declared column schemas",
	Version: strictframe.Version,
	Long: `Framecheck checks that a tabular dataset (CSV file or SQLite table)
carries exactly the columns a schema file declares, with compatible element
types, and reports the full diff when it does not.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return sysExit(err)
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return sysExit(err)
		}

		configSchemaDir = cfg.GetString(cfgKeySchemaDir)
		return loadConfigEquivalence(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagSchemaDir, "schema-dir", "", "schema file directory (default: $(CWD)/schemas)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence flag > STRICTFRAME_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveSchemaDir returns the schema directory following the precedence
// flag > config.yaml schema_dir > STRICTFRAME_SCHEMA_DIR env > CWD default.
func resolveSchemaDir() (string, error) {
	return paths.ResolveSchemaDir(flagSchemaDir, configSchemaDir)
}
