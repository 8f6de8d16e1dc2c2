package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const sampleCasesPath = "cases.json"

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "init",
		Short:        "Write a default config and a sample case corpus",
		Long:         "Write flowdebug.yaml and cases.json into the current directory unless they already exist.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeIfMissing(defaultConfigPath, defaultConfigYAML); err != nil {
				return err
			}
			return writeIfMissing(sampleCasesPath, sampleCasesJSON)
		},
	}
}

func writeIfMissing(path string, render func() ([]byte, error)) error {
	if _, err := os.Stat(path); err == nil {
		log.Info().Str("path", path).Msg("already exists, skipping")
		return nil
	}
	data, err := render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("written")
	return nil
}

func defaultConfigYAML() ([]byte, error) {
	cfg := map[string]any{
		"cases": map[string]any{"path": sampleCasesPath},
		"env":   map[string]any{"max_attempts": 3, "seed": 42},
		"run":   map[string]any{"episodes": 1, "policy": "rule_based"},
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}
	return data, nil
}

func sampleCasesJSON() ([]byte, error) {
	sample := []cases.Case{{
		ID: "condition-typo-001",
		Steps: []cases.Step{
			{Name: "Get_File_Content", Status: cases.StatusSucceeded},
			{
				Name:   "Condition_Check",
				Inputs: map[string]any{"expression": "@equal(A,B,xlsx)"},
				Status: cases.StatusFailed,
			},
		},
		Error: map[string]any{
			"code":    "InvalidTemplate",
			"message": "The template function 'equal' is not defined or not valid.",
		},
		FailedStep: "Condition_Check",
		GoldFix: cases.GoldFix{
			Step:  "Condition_Check",
			Field: "inputs.expression",
			Value: "@equals(A,B,'xlsx')",
		},
	}}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sample cases: %w", err)
	}
	return append(data, '\n'), nil
}
