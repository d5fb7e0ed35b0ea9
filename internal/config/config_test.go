package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
trade:
  pair: btc/usdt
  amount: 0.5
  buy_price: 104.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "https://api.binance.com", cfg.Binance.RESTBaseURL)
	assert.Equal(t, 15, cfg.Binance.TimeoutSeconds)
	assert.Equal(t, "BTCUSDT", cfg.Trade.Pair)
	assert.True(t, cfg.Trade.EntryConfigured)
}

func TestLoadEntryConfiguredDetection(t *testing.T) {
	t.Run("absent buy and trigger price means held position", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
trade:
  pair: ETHUSDT
  amount: 2
  stop_price: 2000
`))
		require.NoError(t, err)
		assert.False(t, cfg.Trade.EntryConfigured)
	})

	t.Run("explicit zero buy price still configures a market entry", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
trade:
  pair: ETHUSDT
  amount: 2
  buy_price: 0
`))
		require.NoError(t, err)
		assert.True(t, cfg.Trade.EntryConfigured)
		assert.Zero(t, cfg.Trade.BuyPrice)
	})
}

func TestLoadSchemaRejections(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trade:
  pair: BTCUSDT
  amount: -1
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("missing trade section", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
app:
  env: prod
`))
		require.Error(t, err)
	})
}

func TestLoadSemanticRejections(t *testing.T) {
	t.Run("trigger without buy price", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trade:
  pair: BTCUSDT
  amount: 1
  trigger_price: 110
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trigger_price")
	})

	t.Run("cancel without trigger", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trade:
  pair: BTCUSDT
  amount: 1
  buy_price: 100
  cancel_price: 95
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancel_price")
	})

	t.Run("stop at or above target", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trade:
  pair: BTCUSDT
  amount: 1
  stop_price: 120
  target_price: 110
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stop_price")
	})

	t.Run("scale out above amount", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
trade:
  pair: BTCUSDT
  amount: 1
  scale_out_amount: 2
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scale_out_amount")
	})
}

func TestDumpMasksCredentials(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
binance:
  api_key: real-key
  api_secret: real-secret
trade:
  pair: BTCUSDT
  amount: 1
`))
	require.NoError(t, err)

	dump := cfg.Dump()
	assert.NotContains(t, dump, "real-key")
	assert.NotContains(t, dump, "real-secret")
	assert.Contains(t, dump, "***")
	assert.Contains(t, dump, "BTCUSDT")
}
