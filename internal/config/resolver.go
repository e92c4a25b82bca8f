package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hurttlocker/meddex/internal/source"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath   string
	CLIUserAgent string
	CLITimeout   string
	CLILimit     string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	UserAgent    ResolvedValue `json:"user_agent"`
	Timeout      ResolvedValue `json:"timeout"`
	MaxRetries   ResolvedValue `json:"max_retries"`
	PerTermLimit ResolvedValue `json:"per_term_limit"`

	OpenFDABase ResolvedValue `json:"openfda_base"`
	WHOBase     ResolvedValue `json:"who_base"`
	PubMedBase  ResolvedValue `json:"pubmed_base"`
	RxNormBase  ResolvedValue `json:"rxnorm_base"`
	ScholarBase ResolvedValue `json:"scholar_base"`
	TrialsBase  ResolvedValue `json:"trials_base"`
}

type fileConfig struct {
	UserAgent    string `yaml:"user_agent"`
	Timeout      string `yaml:"timeout"`
	MaxRetries   string `yaml:"max_retries"`
	PerTermLimit string `yaml:"per_term_limit"`
	Endpoints    struct {
		OpenFDA string `yaml:"openfda"`
		WHO     string `yaml:"who"`
		PubMed  string `yaml:"pubmed"`
		RxNorm  string `yaml:"rxnorm"`
		Scholar string `yaml:"scholar"`
		Trials  string `yaml:"trials"`
	} `yaml:"endpoints"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".meddex", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.UserAgent, cfg.UserAgent, SourceConfig, path)
		apply(&out.Timeout, cfg.Timeout, SourceConfig, path)
		apply(&out.MaxRetries, cfg.MaxRetries, SourceConfig, path)
		apply(&out.PerTermLimit, cfg.PerTermLimit, SourceConfig, path)
		apply(&out.OpenFDABase, cfg.Endpoints.OpenFDA, SourceConfig, path)
		apply(&out.WHOBase, cfg.Endpoints.WHO, SourceConfig, path)
		apply(&out.PubMedBase, cfg.Endpoints.PubMed, SourceConfig, path)
		apply(&out.RxNormBase, cfg.Endpoints.RxNorm, SourceConfig, path)
		apply(&out.ScholarBase, cfg.Endpoints.Scholar, SourceConfig, path)
		apply(&out.TrialsBase, cfg.Endpoints.Trials, SourceConfig, path)
	}

	applyEnv(&out.UserAgent, "MEDDEX_USER_AGENT")
	applyEnv(&out.Timeout, "MEDDEX_TIMEOUT")
	applyEnv(&out.MaxRetries, "MEDDEX_MAX_RETRIES")
	applyEnv(&out.PerTermLimit, "MEDDEX_PER_TERM_LIMIT")

	applyEnv(&out.OpenFDABase, "MEDDEX_OPENFDA_BASE")
	applyEnv(&out.WHOBase, "MEDDEX_WHO_BASE")
	applyEnv(&out.PubMedBase, "MEDDEX_PUBMED_BASE")
	applyEnv(&out.RxNormBase, "MEDDEX_RXNORM_BASE")
	applyEnv(&out.ScholarBase, "MEDDEX_SCHOLAR_BASE")
	applyEnv(&out.TrialsBase, "MEDDEX_TRIALS_BASE")

	apply(&out.UserAgent, opts.CLIUserAgent, SourceCLI, "--user-agent")
	apply(&out.Timeout, opts.CLITimeout, SourceCLI, "--timeout")
	apply(&out.PerTermLimit, opts.CLILimit, SourceCLI, "--limit")

	return out, nil
}

// SourceConfig materializes an adapter Config from the resolved values,
// falling back to the built-in defaults for anything unset or unparsable.
func (r ResolvedConfig) SourceConfig() source.Config {
	cfg := source.DefaultConfig()

	if v := strings.TrimSpace(r.UserAgent.Value); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(r.Timeout.Value); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := strings.TrimSpace(r.MaxRetries.Value); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxRetries = n
		}
	}
	if v := strings.TrimSpace(r.OpenFDABase.Value); v != "" {
		cfg.OpenFDABase = v
	}
	if v := strings.TrimSpace(r.WHOBase.Value); v != "" {
		cfg.WHOBase = v
	}
	if v := strings.TrimSpace(r.PubMedBase.Value); v != "" {
		cfg.PubMedBase = v
	}
	if v := strings.TrimSpace(r.RxNormBase.Value); v != "" {
		cfg.RxNormBase = v
	}
	if v := strings.TrimSpace(r.ScholarBase.Value); v != "" {
		cfg.ScholarBase = v
	}
	if v := strings.TrimSpace(r.TrialsBase.Value); v != "" {
		cfg.TrialsBase = v
	}
	return cfg
}

// EffectivePerTermLimit returns the configured per-term document limit, or
// fallback when unset or unparsable.
func (r ResolvedConfig) EffectivePerTermLimit(fallback int) int {
	v := strings.TrimSpace(r.PerTermLimit.Value)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
