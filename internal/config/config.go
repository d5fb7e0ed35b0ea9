package config

import (
	"fmt"

	"ocobot/internal/pkg/symbol"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}

	settings := v.AllSettings()
	if err := validateSchema(settings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	setKeys := make(keySet)
	collectSettingsKeys("", settings, setKeys)
	cfg.applyDefaults(setKeys)
	cfg.Trade.Pair = symbol.Normalize(cfg.Trade.Pair)
	cfg.Trade.EntryConfigured = setKeys.has("trade.buy_price") || setKeys.has("trade.trigger_price")
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func collectSettingsKeys(prefix string, settings map[string]any, out keySet) {
	for key, val := range settings {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			collectSettingsKeys(full, nested, out)
			continue
		}
		out[full] = struct{}{}
	}
}
