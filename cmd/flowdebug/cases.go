package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/config"
	"github.com/metalagman/flowdebug/internal/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func casesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Inspect and import the case corpus",
	}
	cmd.AddCommand(casesImportCmd())
	cmd.AddCommand(casesListCmd())
	cmd.AddCommand(casesShowCmd())
	return cmd
}

func casesImportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:          "import <file>",
		Short:        "Import a JSON or YAML case file into a SQLite corpus",
		Long:         "Validate a JSON or YAML case file and replace the contents of the SQLite corpus with it.",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cases.Load(args[0])
			if err != nil {
				return err
			}
			if dbPath == "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				if cfg.Cases.SourceKind() != config.SourceSQLite {
					return fmt.Errorf("cases.path %q is not a sqlite corpus; pass --db", cfg.Cases.Path)
				}
				dbPath = cfg.Cases.Path
			}

			database, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.NewCaseRepo(database).Replace(cmd.Context(), store.All()); err != nil {
				return err
			}
			log.Info().Str("db", dbPath).Int("cases", store.Len()).Msg("cases imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "target sqlite corpus (defaults to cases.path)")
	return cmd
}

func casesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List cases in the configured corpus",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range store.All() {
				fmt.Fprintf(out, "%s\t%s\t%d steps\n", c.ID, c.FailedStep, len(c.Steps))
			}
			return nil
		},
	}
}

func casesShowCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:          "show <case-id>",
		Short:        "Show a case with its failing step",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c, ok := store.Find(args[0])
			if !ok {
				return fmt.Errorf("case %q not found", args[0])
			}
			md := caseMarkdown(c)
			if raw {
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			rendered, err := glamour.Render(md, "auto")
			if err != nil {
				return fmt.Errorf("render case: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

// caseMarkdown describes a case without revealing its gold fix.
func caseMarkdown(c cases.Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Case %s\n\n", c.ID)
	fmt.Fprintf(&b, "**Failed step:** `%s`\n\n", c.FailedStep)
	b.WriteString("## Steps\n\n")
	b.WriteString("| Step | Status | Expression |\n|---|---|---|\n")
	for _, s := range c.Steps {
		expr, _ := s.Expression()
		fmt.Fprintf(&b, "| %s | %s | `%s` |\n", s.Name, s.Status, strings.ReplaceAll(expr, "|", `\|`))
	}
	b.WriteString("\n## Error\n\n```json\n")
	payload, err := json.MarshalIndent(c.Error, "", "  ")
	if err != nil {
		payload = []byte(fmt.Sprint(c.Error))
	}
	b.Write(payload)
	b.WriteString("\n```\n")
	return b.String()
}
