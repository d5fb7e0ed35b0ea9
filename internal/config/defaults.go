package config

const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultBinanceREST    = "https://api.binance.com"
	defaultBinanceTimeout = 15
)

// keySet tracks which keys were explicitly present in the config file so
// defaults never clobber a deliberate zero value.
type keySet map[string]struct{}

func (k keySet) has(key string) bool {
	_, ok := k[key]
	return ok
}

func (c *Config) applyDefaults(keys keySet) {
	if !keys.has("app.env") || c.App.Env == "" {
		c.App.Env = defaultAppEnv
	}
	if !keys.has("app.log_level") || c.App.LogLevel == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if !keys.has("binance.rest_base_url") || c.Binance.RESTBaseURL == "" {
		c.Binance.RESTBaseURL = defaultBinanceREST
	}
	if c.Binance.TimeoutSeconds <= 0 {
		c.Binance.TimeoutSeconds = defaultBinanceTimeout
	}
}
