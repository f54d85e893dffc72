// Package adconfig loads the daemon configuration: YAML file first, then
// environment overrides with the ADGATE_ prefix.
package adconfig

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the merged daemon configuration.
type Config struct {
	RPCAddr      string
	LogLevel     string
	SDKMode      string // "mock" is the only in-tree SDK backend
	RewardAmount int64
	RewardSource string
	LedgerPath   string
	StatsPath    string
	StatsSecret  string
	RateLimit    RateLimitConfig
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type fileConfig struct {
	Daemon fileDaemonConfig `yaml:"daemon"`
}

type fileDaemonConfig struct {
	RPCAddr      string              `yaml:"rpcAddr"`
	LogLevel     string              `yaml:"logLevel"`
	SDKMode      string              `yaml:"sdkMode"`
	RewardAmount int64               `yaml:"rewardAmount"`
	RewardSource string              `yaml:"rewardSource"`
	LedgerPath   string              `yaml:"ledgerPath"`
	StatsPath    string              `yaml:"statsPath"`
	StatsSecret  string              `yaml:"statsSecret"`
	RateLimit    fileRateLimitConfig `yaml:"rateLimit"`
}

type fileRateLimitConfig struct {
	Enabled *bool    `yaml:"enabled"`
	RPS     *float64 `yaml:"rps"`
	Burst   *int     `yaml:"burst"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		RPCAddr:      "127.0.0.1:8790",
		LogLevel:     "info",
		SDKMode:      "mock",
		RewardAmount: 35,
		RewardSource: "rewarded_video",
		LedgerPath:   "rewards.db",
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     30,
			Burst:   60,
		},
	}
}

// LoadFromPath loads configPath if set, otherwise the default candidates;
// missing or unparsable files fall back to defaults plus env overrides.
func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"go-client/configs/config.yaml",
			"configs/config.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		merge(&merged, parsed.Daemon)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

// merge overlays non-zero file values onto dst.
func merge(dst *Config, src fileDaemonConfig) {
	if src.RPCAddr != "" {
		dst.RPCAddr = src.RPCAddr
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.SDKMode != "" {
		dst.SDKMode = src.SDKMode
	}
	if src.RewardAmount != 0 {
		dst.RewardAmount = src.RewardAmount
	}
	if src.RewardSource != "" {
		dst.RewardSource = src.RewardSource
	}
	if src.LedgerPath != "" {
		dst.LedgerPath = src.LedgerPath
	}
	if src.StatsPath != "" {
		dst.StatsPath = src.StatsPath
	}
	if src.StatsSecret != "" {
		dst.StatsSecret = src.StatsSecret
	}
	if src.RateLimit.Enabled != nil {
		dst.RateLimit.Enabled = *src.RateLimit.Enabled
	}
	if src.RateLimit.RPS != nil && *src.RateLimit.RPS > 0 {
		dst.RateLimit.RPS = *src.RateLimit.RPS
	}
	if src.RateLimit.Burst != nil && *src.RateLimit.Burst > 0 {
		dst.RateLimit.Burst = *src.RateLimit.Burst
	}
}

// ApplyEnvOverrides overlays ADGATE_* environment values onto cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ADGATE_RPC_ADDR")); v != "" {
		cfg.RPCAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_SDK_MODE")); v != "" {
		cfg.SDKMode = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_REWARD_AMOUNT")); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			cfg.RewardAmount = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_REWARD_SOURCE")); v != "" {
		cfg.RewardSource = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_LEDGER_PATH")); v != "" {
		cfg.LedgerPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_STATS_PATH")); v != "" {
		cfg.StatsPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_STATS_SECRET")); v != "" {
		cfg.StatsSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_RATE_LIMIT_ENABLED")); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.RateLimit.Enabled = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_RATE_LIMIT_RPS")); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			cfg.RateLimit.RPS = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ADGATE_RATE_LIMIT_BURST")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.RateLimit.Burst = parsed
		}
	}
}
