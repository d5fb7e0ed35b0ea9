package config

// Config is the top-level configuration for one ocobot run. One process
// manages exactly one position intent; there is no multi-symbol mode.
type Config struct {
	App     AppConfig     `toml:"app"`
	Binance BinanceConfig `toml:"binance"`
	Trade   TradeConfig   `toml:"trade"`
}

type AppConfig struct {
	Env          string `toml:"env"`
	LogLevel     string `toml:"log_level"`
	LogPath      string `toml:"log_path"`
	HTTPAddr     string `toml:"http_addr"`      // status endpoint; empty disables
	EventLogPath string `toml:"event_log_path"` // sqlite audit log; empty disables
}

type BinanceConfig struct {
	APIKey         string `toml:"api_key"`
	APISecret      string `toml:"api_secret"`
	RESTBaseURL    string `toml:"rest_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TradeConfig carries the raw position intent before exchange-filter
// validation. Prices left at zero mean "not configured", except buy_price,
// where the distinction between "absent" and "zero = market entry" matters;
// EntryConfigured records whether buy_price or trigger_price appeared in the
// file at all.
type TradeConfig struct {
	Pair           string  `toml:"pair"`
	Amount         float64 `toml:"amount"`
	BuyPrice       float64 `toml:"buy_price"`
	TriggerPrice   float64 `toml:"trigger_price"`
	StopPrice      float64 `toml:"stop_price"`
	LimitPrice     float64 `toml:"limit_price"`
	TargetPrice    float64 `toml:"target_price"`
	CancelPrice    float64 `toml:"cancel_price"`
	ScaleOutAmount float64 `toml:"scale_out_amount"`

	EntryConfigured bool `toml:"-"`
}
