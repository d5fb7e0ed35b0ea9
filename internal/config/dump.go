package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const maskedValue = "***"

// Dump renders the effective configuration as YAML for the startup summary,
// with credentials masked.
func (c *Config) Dump() string {
	cp := *c
	if cp.Binance.APIKey != "" {
		cp.Binance.APIKey = maskedValue
	}
	if cp.Binance.APISecret != "" {
		cp.Binance.APISecret = maskedValue
	}
	out := map[string]any{
		"app": map[string]any{
			"env":            cp.App.Env,
			"log_level":      cp.App.LogLevel,
			"http_addr":      cp.App.HTTPAddr,
			"event_log_path": cp.App.EventLogPath,
		},
		"binance": map[string]any{
			"api_key":       cp.Binance.APIKey,
			"rest_base_url": cp.Binance.RESTBaseURL,
		},
		"trade": map[string]any{
			"pair":             cp.Trade.Pair,
			"amount":           cp.Trade.Amount,
			"buy_price":        cp.Trade.BuyPrice,
			"trigger_price":    cp.Trade.TriggerPrice,
			"stop_price":       cp.Trade.StopPrice,
			"limit_price":      cp.Trade.LimitPrice,
			"target_price":     cp.Trade.TargetPrice,
			"cancel_price":     cp.Trade.CancelPrice,
			"scale_out_amount": cp.Trade.ScaleOutAmount,
			"entry_configured": cp.Trade.EntryConfigured,
		},
	}
	raw, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Sprintf("config dump failed: %v", err)
	}
	return string(raw)
}
