package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/flowdebug/internal/agent"
	"github.com/metalagman/flowdebug/internal/run"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	solvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func runCmd() *cobra.Command {
	var episodes int
	var policyName string
	var maxAttempts int
	var seed int64
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Play episodes with a built-in repair policy",
		Long:         "Play episodes against the case corpus with a built-in repair policy and print a reward summary.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyEnvFlags(cmd, &cfg, maxAttempts, seed)
			if cmd.Flags().Changed("episodes") {
				cfg.Run.Episodes = episodes
			}
			if cmd.Flags().Changed("policy") {
				cfg.Run.Policy = policyName
			}
			if cfg.Run.Episodes <= 0 {
				return fmt.Errorf("episodes must be > 0")
			}

			_, engine, err := openEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			policy, err := agent.NewPolicy(cfg.Run.Policy)
			if err != nil {
				return err
			}

			summary, err := run.NewRunner(engine, policy).Run(cmd.Context(), cfg.Run.Episodes)
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 1, "number of episodes to play (overrides run.episodes)")
	cmd.Flags().StringVar(&policyName, "policy", agent.RuleBasedName, "repair policy (overrides run.policy)")
	addEnvFlags(cmd, &maxAttempts, &seed)
	return cmd
}

func printSummary(w io.Writer, sum run.Summary) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-4s %-24s %-16s %5s %8s", "#", "case", "result", "steps", "reward")))
	for i, r := range sum.Results {
		style := failedStyle
		if r.Solved() {
			style = solvedStyle
		}
		fmt.Fprintf(w, "%-4d %-24s %s %5d %+8.2f\n", i+1, r.CaseID, style.Render(fmt.Sprintf("%-16s", r.Outcome)), r.Steps, r.TotalReward)
	}
	fmt.Fprintf(w, "solved %d/%d · mean reward %+.3f\n", sum.Solved(), len(sum.Results), sum.MeanReward())
}
