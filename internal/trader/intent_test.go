package trader

import (
	"errors"
	"testing"

	"ocobot/internal/config"
	"ocobot/internal/gateway/exchange"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func btcFilters() exchange.SymbolFilters {
	return exchange.SymbolFilters{
		StepSize:    decimal.RequireFromString("0.001"),
		MinQty:      decimal.RequireFromString("0.001"),
		TickSize:    decimal.RequireFromString("0.01"),
		MinPrice:    decimal.RequireFromString("0.01"),
		MinNotional: decimal.RequireFromString("10"),
	}
}

func TestBuildIntentRounding(t *testing.T) {
	tc := config.TradeConfig{
		Pair:            "BTCUSDT",
		Amount:          0.39967,
		BuyPrice:        104.5678,
		StopPrice:       100.123456,
		TargetPrice:     110.999999,
		EntryConfigured: true,
	}
	in, err := BuildIntent(tc, btcFilters())
	require.NoError(t, err)

	assert.Equal(t, "0.399", in.Amount.String())
	assert.Equal(t, "104.56", in.BuyPrice.String())
	assert.Equal(t, "100.12", in.StopPrice.String())
	assert.Equal(t, "110.99", in.TargetPrice.String())
	assert.True(t, in.EntryConfigured)
}

func TestBuildIntentMinimums(t *testing.T) {
	t.Run("amount below min quantity", func(t *testing.T) {
		_, err := BuildIntent(config.TradeConfig{Pair: "BTCUSDT", Amount: 0.0001}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	})

	t.Run("scale out above amount after rounding", func(t *testing.T) {
		_, err := BuildIntent(config.TradeConfig{
			Pair: "BTCUSDT", Amount: 0.5, ScaleOutAmount: 0.6,
		}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "scale_out_amount", verr.Field)
	})

	t.Run("buy notional below minimum", func(t *testing.T) {
		_, err := BuildIntent(config.TradeConfig{
			Pair: "BTCUSDT", Amount: 0.005, BuyPrice: 100, EntryConfigured: true,
		}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "buy_price", verr.Field)
	})

	t.Run("stop notional below minimum", func(t *testing.T) {
		_, err := BuildIntent(config.TradeConfig{
			Pair: "BTCUSDT", Amount: 0.09, BuyPrice: 200, StopPrice: 100,
			EntryConfigured: true,
		}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "stop_price", verr.Field)
	})

	t.Run("stop notional assumes the fee-adjusted fill", func(t *testing.T) {
		// 0.1 * 100 = 10 meets the minimum, but after an in-asset fee the
		// stop can only sell 0.0999, worth 9.99.
		_, err := BuildIntent(config.TradeConfig{
			Pair: "BTCUSDT", Amount: 0.1, BuyPrice: 105, StopPrice: 100,
			EntryConfigured: true,
		}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "stop_price", verr.Field)
	})

	t.Run("target notional uses scale out tranche", func(t *testing.T) {
		// 0.05 * 150 = 7.5 < 10, even though the full amount would pass.
		_, err := BuildIntent(config.TradeConfig{
			Pair: "BTCUSDT", Amount: 0.5, ScaleOutAmount: 0.05,
			BuyPrice: 100, StopPrice: 90, TargetPrice: 150,
			EntryConfigured: true,
		}, btcFilters())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "target_price", verr.Field)
	})
}

func TestIntentStopLimitPrice(t *testing.T) {
	in := Intent{
		StopPrice:  decimal.RequireFromString("100"),
		LimitPrice: decimal.RequireFromString("99.5"),
	}
	assert.Equal(t, "99.5", in.StopLimitPrice().String())

	in.LimitPrice = decimal.Zero
	assert.Equal(t, "100", in.StopLimitPrice().String())
}

func TestValidationErrorUnwrapping(t *testing.T) {
	err := validationErrorf("amount", "bad")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
