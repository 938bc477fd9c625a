package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/liquidchain/internal/config"
)

const defaultPreset = "bridge"

// resolveScenario layers preset, config file, environment and flags, in
// that order, and returns the scenario name with its validated config.
func resolveScenario(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	name := defaultPreset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) == 0 {
			name = "custom"
		}
	} else {
		preset, err := config.GetPreset(name)
		if err != nil {
			return "", nil, err
		}
		cfg = preset
	}

	if err := cfg.ApplyEnv(); err != nil {
		return "", nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("iterations") {
		cfg.Chain.Iterations = iterations
	}
	if flags.Changed("points") {
		cfg.Chain.FreePoints = freePoints
	}

	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return name, cfg, nil
}
