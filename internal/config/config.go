// Package config loads process settings from the environment and rate tables
// from disk.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/vbonduro/installquote/internal/pricing"
)

type Config struct {
	ListenAddr       string
	DBPath           string
	DocPath          string
	LogLevel         string
	LogFile          string
	LogFormat        string
	RatesFile        string
	CostAuthorityURL string
	EstimateDebounce time.Duration
	HistoryDebounce  time.Duration
	HistoryDepth     int
	EstimateTimeout  time.Duration
	ExtractBackend   string
	ClaudeAPIKey     string
	ClaudeModel      string
	OllamaHost       string
	OllamaModel      string
}

var defaults = map[string]any{
	"listen_addr":          ":8080",
	"db_path":              "/data/installquote.db",
	"doc_path":             "/data/documents",
	"log_level":            "info",
	"log_file":             "",
	"log_format":           "json",
	"rates_file":           "",
	"cost_authority_url":   "",
	"estimate_debounce_ms": 500,
	"history_debounce_ms":  500,
	"history_depth":        50,
	"estimate_timeout_ms":  10000,
	"extract_backend":      "ollama",
	"claude_api_key":       "",
	"claude_model":         "claude-opus-4-6",
	"ollama_host":          "http://localhost:11434",
	"ollama_model":         "llama3.1",
}

// Load reads settings from environment variables named after the upper-case
// keys, e.g. LISTEN_ADDR or HISTORY_DEPTH.
func Load() *Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	return &Config{
		ListenAddr:       v.GetString("listen_addr"),
		DBPath:           v.GetString("db_path"),
		DocPath:          v.GetString("doc_path"),
		LogLevel:         v.GetString("log_level"),
		LogFile:          v.GetString("log_file"),
		LogFormat:        v.GetString("log_format"),
		RatesFile:        v.GetString("rates_file"),
		CostAuthorityURL: v.GetString("cost_authority_url"),
		EstimateDebounce: millis(v, "estimate_debounce_ms"),
		HistoryDebounce:  millis(v, "history_debounce_ms"),
		HistoryDepth:     v.GetInt("history_depth"),
		EstimateTimeout:  millis(v, "estimate_timeout_ms"),
		ExtractBackend:   v.GetString("extract_backend"),
		ClaudeAPIKey:     v.GetString("claude_api_key"),
		ClaudeModel:      v.GetString("claude_model"),
		OllamaHost:       v.GetString("ollama_host"),
		OllamaModel:      v.GetString("ollama_model"),
	}
}

func millis(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Millisecond
}

// LoadRates reads a rate table from a JSON or YAML file. Keys absent from
// the file keep their built-in values. An empty path returns the defaults.
func LoadRates(path string) (pricing.Rates, error) {
	rates := pricing.DefaultRates()
	if path == "" {
		return rates, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return pricing.Rates{}, fmt.Errorf("failed to read rates file: %w", err)
	}
	// A tier list in the file replaces the built-in list instead of
	// overlaying it element by element.
	if v.IsSet("support_tiers") {
		rates.SupportTiers = nil
	}
	if err := v.Unmarshal(&rates); err != nil {
		return pricing.Rates{}, fmt.Errorf("failed to parse rates file: %w", err)
	}
	if len(rates.SupportTiers) == 0 {
		return pricing.Rates{}, fmt.Errorf("rates file %s: at least one support tier is required", path)
	}
	return rates, nil
}
