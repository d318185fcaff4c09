// Package config wires viper-backed configuration for repopack.
//
// Precedence (highest to lowest):
//  1. CLI flags (bound by the command via BindFlags)
//  2. Environment variables (REPOPACK_OUTPUT_DIR, REPOPACK_TREE_DEPTH, ...)
//  3. repopack.yaml file values
//  4. Defaults from setDefaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Viper keys for every configurable value.
const (
	KeyBranch    = "branch"
	KeyOutputDir = "output_dir"
	KeyTreeDepth = "tree_depth"
	KeyStrict    = "strict"
)

// Defaults for aggregation behavior.
const (
	DefaultBranch    = "main"
	DefaultOutputDir = "output"
	DefaultTreeDepth = 24
)

// Init creates and returns a configured *viper.Viper. It registers
// defaults, reads an optional repopack.yaml from the working directory or
// the user config directory, and binds REPOPACK_-prefixed environment
// variables.
func Init() (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("repopack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("REPOPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// BindFlags connects already-registered cobra flags to viper keys so that
// an explicitly set flag wins over environment and file values. Call from
// PreRunE after Init.
func BindFlags(v *viper.Viper, cmd *cobra.Command, flagToKey map[string]string) error {
	for flagName, key := range flagToKey {
		f := cmd.Flags().Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", flagName, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBranch, DefaultBranch)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyTreeDepth, DefaultTreeDepth)
	v.SetDefault(KeyStrict, false)
}
