package main

import (
	"github.com/metalagman/flowdebug/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig reads the config file named by --config.
// The default file is optional; an explicit one must exist.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = defaultConfigPath
	}
	required := false
	if flag := cmd.Flags().Lookup("config"); flag != nil && flag.Changed {
		required = true
	}
	return config.Load(viper.GetViper(), path, required)
}

// applyEnvFlags overrides engine settings with flags the user set explicitly.
func applyEnvFlags(cmd *cobra.Command, cfg *config.Config, maxAttempts int, seed int64) {
	if cmd.Flags().Changed("max-attempts") {
		cfg.Env.MaxAttempts = maxAttempts
	}
	if cmd.Flags().Changed("seed") {
		s := seed
		cfg.Env.Seed = &s
	}
}

func addEnvFlags(cmd *cobra.Command, maxAttempts *int, seed *int64) {
	cmd.Flags().IntVar(maxAttempts, "max-attempts", 0, "attempts granted per episode (overrides env.max_attempts)")
	cmd.Flags().Int64Var(seed, "seed", 0, "seed for reproducible case draws (overrides env.seed)")
}
