package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"bnb/btc":    "BNBBTC",
		"BNB-BTC":    "BNBBTC",
		" ethusdt ":  "ETHUSDT",
		"BTCUSDT":    "BTCUSDT",
		"sol/usdt  ": "SOLUSDT",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}
