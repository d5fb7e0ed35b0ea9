package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema rejects structurally broken files (wrong types, negative
// numbers) before mapstructure's weak typing can paper over them. Exchange
// filter checks (min qty/price/notional) happen later, against live data.
const configSchema = `{
  "type": "object",
  "properties": {
    "app": {
      "type": "object",
      "properties": {
        "env": {"type": "string"},
        "log_level": {"type": "string"},
        "log_path": {"type": "string"},
        "http_addr": {"type": "string"},
        "event_log_path": {"type": "string"}
      }
    },
    "binance": {
      "type": "object",
      "properties": {
        "api_key": {"type": "string"},
        "api_secret": {"type": "string"},
        "rest_base_url": {"type": "string"},
        "timeout_seconds": {"type": "integer", "minimum": 0}
      }
    },
    "trade": {
      "type": "object",
      "properties": {
        "pair": {"type": "string"},
        "amount": {"type": "number", "minimum": 0},
        "buy_price": {"type": "number", "minimum": 0},
        "trigger_price": {"type": "number", "minimum": 0},
        "stop_price": {"type": "number", "minimum": 0},
        "limit_price": {"type": "number", "minimum": 0},
        "target_price": {"type": "number", "minimum": 0},
        "cancel_price": {"type": "number", "minimum": 0},
        "scale_out_amount": {"type": "number", "minimum": 0}
      },
      "required": ["pair", "amount"]
    }
  },
  "required": ["trade"]
}`

var compiledSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

func validateSchema(settings map[string]any) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config for validation failed: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding config for validation failed: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}
	return nil
}

// validate covers the semantic checks the schema cannot express.
func validate(c *Config) error {
	if strings.TrimSpace(c.Trade.Pair) == "" {
		return fmt.Errorf("trade.pair is required")
	}
	if c.Trade.Amount <= 0 {
		return fmt.Errorf("trade.amount must be > 0")
	}
	if c.Trade.ScaleOutAmount > c.Trade.Amount {
		return fmt.Errorf("trade.scale_out_amount cannot exceed trade.amount")
	}
	if c.Trade.TriggerPrice > 0 && c.Trade.BuyPrice <= 0 {
		return fmt.Errorf("trade.trigger_price requires a nonzero trade.buy_price for the limit leg")
	}
	if c.Trade.CancelPrice > 0 && c.Trade.TriggerPrice <= 0 {
		return fmt.Errorf("trade.cancel_price requires trade.trigger_price")
	}
	if c.Trade.StopPrice > 0 && c.Trade.TargetPrice > 0 && c.Trade.StopPrice >= c.Trade.TargetPrice {
		return fmt.Errorf("trade.stop_price must be below trade.target_price")
	}
	return nil
}
