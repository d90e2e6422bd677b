// Config loading for the framecheck CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeySchemaDir   = "schema_dir"
	cfgKeyEquivalence = "equivalence"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Framecheck CLI configuration

# Schema file directory (optional; overridable by --schema-dir flag)
# schema_dir:

# Type equivalence classes used during validation when a schema file does
# not declare its own. Each class lists encodings accepted for one another.
# Uncommenting the block below replaces the built-in default table.
# equivalence:
#   - [int32, int64]
#   - [uint32, uint64]
#   - [float32, float64]
#   - [date, timestamp]
`

// configEquivalence holds the equivalence table loaded from config.yaml,
// or nil when the config declares none.
var configEquivalence schema.Equivalence

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
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

// loadConfigEquivalence parses the equivalence classes from config.yaml
// into configEquivalence. An absent key leaves it nil.
func loadConfigEquivalence(cfg *viper.Viper) error {
	var classes [][]string
	if err := cfg.UnmarshalKey(cfgKeyEquivalence, &classes); err != nil {
		return fmt.Errorf("parse equivalence config: %w", err)
	}
	configEquivalence = nil
	for i, class := range classes {
		types := make([]schema.ColType, len(class))
		for j, name := range class {
			t, err := schema.ParseColType(name)
			if err != nil {
				return fmt.Errorf("equivalence class %d: %w: %q", i, err, name)
			}
			types[j] = t
		}
		configEquivalence = append(configEquivalence, types)
	}
	return nil
}

// effectiveEquivalence picks the equivalence table for a validation run:
// the schema file's own table, else the config table, else the default.
func effectiveEquivalence(fromSchemaFile schema.Equivalence) schema.Equivalence {
	if fromSchemaFile != nil {
		return fromSchemaFile
	}
	if configEquivalence != nil {
		return configEquivalence
	}
	return schema.DefaultEquivalence
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
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
