package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/installquote/internal/pricing"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.ExtractBackend)
	assert.Equal(t, 500*time.Millisecond, cfg.EstimateDebounce)
	assert.Equal(t, 50, cfg.HistoryDepth)
	assert.Equal(t, 10*time.Second, cfg.EstimateTimeout)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("EXTRACT_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("HISTORY_DEPTH", "20")
	t.Setenv("ESTIMATE_DEBOUNCE_MS", "250")
	t.Setenv("COST_AUTHORITY_URL", "http://pricing.internal/quote")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "claude", cfg.ExtractBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, 20, cfg.HistoryDepth)
	assert.Equal(t, 250*time.Millisecond, cfg.EstimateDebounce)
	assert.Equal(t, "http://pricing.internal/quote", cfg.CostAuthorityURL)
}

func TestLoadRatesDefaults(t *testing.T) {
	rates, err := LoadRates("")
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultRates(), rates)
}

func TestLoadRatesOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hourly_rate: 110
hardware_prices:
  kiosk: 2999
travel:
  cape: 175
support_tiers:
  - name: None
  - name: Standard
    monthly_pct: 2
    min_monthly: 59
`), 0o600))

	rates, err := LoadRates(path)
	require.NoError(t, err)

	def := pricing.DefaultRates()
	assert.Equal(t, 110.0, rates.HourlyRate)
	assert.Equal(t, 2999.0, rates.HardwarePrices["kiosk"])
	assert.Equal(t, def.HardwarePrices["pos-terminal"], rates.HardwarePrices["pos-terminal"])
	assert.Equal(t, 175.0, rates.Travel.Cape)
	assert.Equal(t, def.Travel.SouthernNE, rates.Travel.SouthernNE)
	require.Len(t, rates.SupportTiers, 2)
	assert.Equal(t, "Standard", rates.SupportTiers[1].Name)
	assert.Equal(t, 59.0, rates.SupportTiers[1].MinMonthly)
	assert.Equal(t, def.GoLiveDailyRate, rates.GoLiveDailyRate)
}

func TestLoadRatesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"go_live_daily_rate": 800, "annual_discount_pct": 15}`), 0o600))

	rates, err := LoadRates(path)
	require.NoError(t, err)
	assert.Equal(t, 800.0, rates.GoLiveDailyRate)
	assert.Equal(t, 15.0, rates.AnnualDiscountPct)
	assert.Len(t, rates.SupportTiers, 4)
}

func TestLoadRatesMissingFile(t *testing.T) {
	_, err := LoadRates(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRatesRejectsEmptyTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"support_tiers": []}`), 0o600))

	_, err := LoadRates(path)
	assert.Error(t, err)
}
