// Package flatten is the public entry point for converting serialized
// decision trees into conjunction strategy files.
package flatten

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rulemint/treeflat/internal"
)

// Config represents the tool configuration, usually read from a
// .treeflat.yaml file.
type Config struct {
	Name string `yaml:"name"`
	// Root is the id of the node the traversal starts from.
	Root int `yaml:"root"`
	// WarnEmptyOr logs a warning when a decision node carries an empty
	// condition group. Such a group is vacuously false and usually means
	// the upstream tree generator misbehaved.
	WarnEmptyOr bool `yaml:"warn_empty_or"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:        "treeflat",
		Root:        0,
		WarnEmptyOr: true,
	}
}

// New builds a flatten engine for the tree at inputPath. When
// configurationPath is non-empty the configuration file is required to
// exist and parse.
func New(inputPath string, logger *zap.Logger, configurationPath string) (*internal.Engine, error) {
	config := DefaultConfig()
	if configurationPath != "" {
		var err error
		config, err = parseConfigurationFile(configurationPath)
		if err != nil {
			return nil, err
		}
	}

	engine := internal.NewEngine(inputPath, logger)
	engine.SetRoot(config.Root)
	engine.SetWarnEmptyOR(config.WarnEmptyOr)
	return engine, nil
}

// Run flattens the engine's input tree into outputPath and returns the
// run statistics. Fatal input errors (a missing or malformed node) abort
// the run; they are never downgraded to warnings.
func Run(ctx context.Context, logger *zap.Logger, engine *internal.Engine, outputPath string) (internal.Stats, error) {
	stats, err := engine.FlattenFile(ctx, outputPath)
	if err != nil {
		if logger != nil {
			logger.Error("Error flattening tree",
				zap.String("input", engine.InputPath()),
				zap.String("output", outputPath),
				zap.Error(err))
		}
		return stats, err
	}
	return stats, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, fmt.Errorf("opening configuration: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parsing configuration: %w", err)
	}

	return config, nil
}
