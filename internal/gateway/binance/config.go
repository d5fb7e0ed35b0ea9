package binance

import (
	"strings"
	"time"
)

const (
	defaultRESTBaseURL       = "https://api.binance.com"
	defaultHTTPTimeout       = 15 * time.Second
	defaultKeepaliveInterval = 30 * time.Minute
)

// Config describes how to reach Binance spot.
type Config struct {
	APIKey            string
	APISecret         string
	RESTBaseURL       string
	HTTPTimeout       time.Duration
	KeepaliveInterval time.Duration
}

func (c Config) withDefaults() Config {
	out := c
	out.RESTBaseURL = strings.TrimSpace(out.RESTBaseURL)
	if out.RESTBaseURL == "" {
		out.RESTBaseURL = defaultRESTBaseURL
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = defaultHTTPTimeout
	}
	if out.KeepaliveInterval <= 0 {
		out.KeepaliveInterval = defaultKeepaliveInterval
	}
	return out
}
