// Package config provides configuration loading and management for flowdebug.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Case source kinds.
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// Config is the root configuration.
type Config struct {
	Cases CasesConfig `json:"cases" mapstructure:"cases"`
	Env   EnvConfig   `json:"env"   mapstructure:"env"`
	Run   RunConfig   `json:"run"   mapstructure:"run"`
}

// CasesConfig locates the case corpus.
type CasesConfig struct {
	Path   string `json:"path"             mapstructure:"path"`
	Source string `json:"source,omitempty" mapstructure:"source"`
}

// EnvConfig configures the episode engine.
type EnvConfig struct {
	MaxAttempts int    `json:"max_attempts"   mapstructure:"max_attempts"`
	Seed        *int64 `json:"seed,omitempty" mapstructure:"seed"`
}

// RunConfig configures batch runs.
type RunConfig struct {
	Episodes int    `json:"episodes"         mapstructure:"episodes"`
	Policy   string `json:"policy,omitempty" mapstructure:"policy"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() map[string]any {
	return map[string]any{
		"cases.path":       "cases.json",
		"env.max_attempts": 3,
		"run.episodes":     1,
		"run.policy":       "rule_based",
	}
}

// SourceKind resolves the corpus kind, inferring it from the file extension when unset.
func (c CasesConfig) SourceKind() string {
	if c.Source != "" {
		return c.Source
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	default:
		return SourceFile
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Cases.Path) == "" {
		return fmt.Errorf("cases.path is required")
	}
	switch c.Cases.SourceKind() {
	case SourceFile, SourceSQLite:
	default:
		return fmt.Errorf("cases.source %q is not supported", c.Cases.Source)
	}
	if c.Env.MaxAttempts <= 0 {
		return fmt.Errorf("env.max_attempts must be > 0")
	}
	if c.Run.Episodes <= 0 {
		return fmt.Errorf("run.episodes must be > 0")
	}
	return nil
}
