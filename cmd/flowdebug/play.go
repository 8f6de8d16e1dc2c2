package main

import (
	"github.com/metalagman/flowdebug/internal/logging"
	"github.com/metalagman/flowdebug/internal/tui"
	"github.com/spf13/cobra"
)

func playCmd() *cobra.Command {
	var maxAttempts int
	var seed int64
	cmd := &cobra.Command{
		Use:          "play",
		Short:        "Repair flows interactively in the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyEnvFlags(cmd, &cfg, maxAttempts, seed)

			_, engine, err := openEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			// Log lines would interleave with the rendered view.
			logging.Discard()
			return tui.Run(engine)
		},
	}
	addEnvFlags(cmd, &maxAttempts, &seed)
	return cmd
}
