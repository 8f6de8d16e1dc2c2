package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flowdebug.yaml")
	writeTestFile(t, path, `cases:
  path: corpus.db
env:
  max_attempts: 5
  seed: 42
run:
  episodes: 10
`)

	cfg, err := Load(viper.New(), path, true)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Env.MaxAttempts != 5 {
		t.Fatalf("env.max_attempts = %d, want %d", cfg.Env.MaxAttempts, 5)
	}
	if cfg.Env.Seed == nil || *cfg.Env.Seed != 42 {
		t.Fatalf("env.seed = %v, want 42", cfg.Env.Seed)
	}
	if cfg.Run.Episodes != 10 {
		t.Fatalf("run.episodes = %d, want %d", cfg.Run.Episodes, 10)
	}
	if got := cfg.Cases.SourceKind(); got != SourceSQLite {
		t.Fatalf("source kind = %q, want %q", got, SourceSQLite)
	}
	if cfg.Run.Policy != "rule_based" {
		t.Fatalf("run.policy = %q, want default rule_based", cfg.Run.Policy)
	}
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flowdebug.json")
	writeTestFile(t, path, `{"cases": {"path": "cases.yaml"}, "env": {"max_attempts": 2}}`)

	cfg, err := Load(viper.New(), path, true)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Env.MaxAttempts != 2 {
		t.Fatalf("env.max_attempts = %d, want %d", cfg.Env.MaxAttempts, 2)
	}
	if cfg.Env.Seed != nil {
		t.Fatalf("env.seed = %v, want nil", *cfg.Env.Seed)
	}
	if got := cfg.Cases.SourceKind(); got != SourceFile {
		t.Fatalf("source kind = %q, want %q", got, SourceFile)
	}
}

func TestLoad_MissingOptionalFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Env.MaxAttempts != 3 {
		t.Fatalf("env.max_attempts = %d, want default 3", cfg.Env.MaxAttempts)
	}
	if cfg.Cases.Path != "cases.json" {
		t.Fatalf("cases.path = %q, want default", cfg.Cases.Path)
	}
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Fatal("Load returned nil error, want error")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flowdebug.yaml")
	writeTestFile(t, path, "env:\n  max_attempts: 0\n")

	if _, err := Load(viper.New(), path, true); err == nil {
		t.Fatal("Load returned nil error, want schema error")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FLOWDEBUG_ENV_MAX_ATTEMPTS", "7")
	t.Setenv("FLOWDEBUG_ENV_SEED", "9")

	cfg, err := Load(viper.New(), "", false)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Env.MaxAttempts != 7 {
		t.Fatalf("env.max_attempts = %d, want %d", cfg.Env.MaxAttempts, 7)
	}
	if cfg.Env.Seed == nil || *cfg.Env.Seed != 9 {
		t.Fatalf("env.seed = %v, want 9", cfg.Env.Seed)
	}
}

func TestLoad_EnvOverrideCasesSource(t *testing.T) {
	t.Setenv("FLOWDEBUG_CASES_SOURCE", "sqlite")
	t.Setenv("FLOWDEBUG_CASES_PATH", "corpus.bin")

	cfg, err := Load(viper.New(), "", false)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cases.Path != "corpus.bin" {
		t.Fatalf("cases.path = %q, want %q", cfg.Cases.Path, "corpus.bin")
	}
	if cfg.Cases.Source != SourceSQLite {
		t.Fatalf("cases.source = %q, want %q", cfg.Cases.Source, SourceSQLite)
	}
	if got := cfg.Cases.SourceKind(); got != SourceSQLite {
		t.Fatalf("SourceKind() = %q, want %q", got, SourceSQLite)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Cases: CasesConfig{Path: "cases.json"},
		Env:   EnvConfig{MaxAttempts: 3},
		Run:   RunConfig{Episodes: 1},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	bad := base
	bad.Cases.Source = "s3"
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate accepted unknown source")
	}

	bad = base
	bad.Run.Episodes = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate accepted zero episodes")
	}

	bad = base
	bad.Cases.Path = " "
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate accepted empty path")
	}
}

func TestValidateSettings_RejectsUnknownSource(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{"cases": map[string]any{"source": "ftp"}})
	if err == nil {
		t.Fatal("ValidateSettings returned nil error, want error")
	}
}
