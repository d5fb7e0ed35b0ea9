// Package symbol normalizes trading pair spellings to the exchange format.
package symbol

import "strings"

// Normalize maps user input like "bnb/btc" or "BNB-BTC" to "BNBBTC",
// the concatenated form Binance expects everywhere.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
