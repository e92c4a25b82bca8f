package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hurttlocker/meddex/internal/source"
)

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	yaml := `user_agent: from-config/1.0
timeout: 5s
endpoints:
  pubmed: https://config.example/eutils
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MEDDEX_USER_AGENT", "from-env/1.0")
	t.Setenv("MEDDEX_PUBMED_BASE", "https://env.example/eutils")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:   cfgPath,
		CLIUserAgent: "from-cli/1.0",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.UserAgent.Source != SourceCLI {
		t.Fatalf("expected user agent source cli, got %s", resolved.UserAgent.Source)
	}
	if resolved.PubMedBase.Source != SourceEnv {
		t.Fatalf("expected pubmed base source env, got %s", resolved.PubMedBase.Source)
	}
	if resolved.Timeout.Source != SourceConfig {
		t.Fatalf("expected timeout from config, got %s", resolved.Timeout.Source)
	}
}

func TestResolveConfig_MissingFileUsesDefaults(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	cfg := resolved.SourceConfig()
	if cfg.PubMedBase != source.DefaultPubMedBase {
		t.Fatalf("expected default pubmed base, got %q", cfg.PubMedBase)
	}
	if cfg.UserAgent != source.DefaultUserAgent {
		t.Fatalf("expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestSourceConfig_AppliesResolvedValues(t *testing.T) {
	resolved := ResolvedConfig{
		UserAgent:  ResolvedValue{Value: "custom/2.0", Source: SourceConfig},
		Timeout:    ResolvedValue{Value: "30s", Source: SourceEnv},
		MaxRetries: ResolvedValue{Value: "5", Source: SourceConfig},
		TrialsBase: ResolvedValue{Value: "https://test.example/studies", Source: SourceEnv},
	}

	cfg := resolved.SourceConfig()
	if cfg.UserAgent != "custom/2.0" {
		t.Fatalf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.TrialsBase != "https://test.example/studies" {
		t.Fatalf("TrialsBase = %q", cfg.TrialsBase)
	}
	if cfg.OpenFDABase != source.DefaultOpenFDABase {
		t.Fatalf("unset endpoint should keep default, got %q", cfg.OpenFDABase)
	}
}

func TestSourceConfig_IgnoresBadDuration(t *testing.T) {
	resolved := ResolvedConfig{
		Timeout: ResolvedValue{Value: "soon", Source: SourceEnv},
	}
	if cfg := resolved.SourceConfig(); cfg.Timeout != source.DefaultConfig().Timeout {
		t.Fatalf("bad duration should fall back, got %v", cfg.Timeout)
	}
}

func TestEffectivePerTermLimit(t *testing.T) {
	resolved := ResolvedConfig{
		PerTermLimit: ResolvedValue{Value: "8", Source: SourceConfig},
	}
	if got := resolved.EffectivePerTermLimit(5); got != 8 {
		t.Fatalf("limit = %d, want 8", got)
	}
	if got := (ResolvedConfig{}).EffectivePerTermLimit(5); got != 5 {
		t.Fatalf("fallback limit = %d, want 5", got)
	}
}
