package trader

import (
	"ocobot/internal/config"
	"ocobot/internal/gateway/exchange"
	"ocobot/internal/pkg/convert"
	"ocobot/internal/pkg/trading"

	"github.com/shopspring/decimal"
)

// Intent is the validated, exchange-rounded position request. Immutable
// once built; the trader never re-reads configuration.
type Intent struct {
	Symbol         string
	Amount         decimal.Decimal
	BuyPrice       decimal.Decimal
	TriggerPrice   decimal.Decimal
	StopPrice      decimal.Decimal
	LimitPrice     decimal.Decimal
	TargetPrice    decimal.Decimal
	CancelPrice    decimal.Decimal
	ScaleOutAmount decimal.Decimal

	// EntryConfigured is false when neither buy_price nor trigger_price was
	// supplied: the position is treated as already held and the trader goes
	// straight to exit placement.
	EntryConfigured bool
}

func (i Intent) HasStop() bool   { return i.StopPrice.IsPositive() }
func (i Intent) HasTarget() bool { return i.TargetPrice.IsPositive() }

// StopLimitPrice is the limit leg of the stop order: the explicit limit
// price when given, otherwise the stop price itself.
func (i Intent) StopLimitPrice() decimal.Decimal {
	if i.LimitPrice.IsPositive() {
		return i.LimitPrice
	}
	return i.StopPrice
}

// BuildIntent rounds the raw trade config to the exchange's lot/tick
// constraints and verifies every minimum the exchange enforces. It must
// succeed before the first gateway order call.
func BuildIntent(tc config.TradeConfig, f exchange.SymbolFilters) (Intent, error) {
	in := Intent{
		Symbol:          tc.Pair,
		EntryConfigured: tc.EntryConfigured,
	}

	in.Amount = trading.RoundToStep(convert.ParseDecimalFromFloat(tc.Amount), f.StepSize)
	if in.Amount.LessThan(f.MinQty) {
		return in, validationErrorf("amount", "%s is below exchange minimum quantity %s", in.Amount, f.MinQty)
	}

	if tc.ScaleOutAmount > 0 {
		in.ScaleOutAmount = trading.RoundToStep(convert.ParseDecimalFromFloat(tc.ScaleOutAmount), f.StepSize)
		if in.ScaleOutAmount.LessThan(f.MinQty) {
			return in, validationErrorf("scale_out_amount", "%s is below exchange minimum quantity %s", in.ScaleOutAmount, f.MinQty)
		}
		if in.ScaleOutAmount.GreaterThan(in.Amount) {
			return in, validationErrorf("scale_out_amount", "%s exceeds amount %s", in.ScaleOutAmount, in.Amount)
		}
	}

	prices := []struct {
		field string
		raw   float64
		dst   *decimal.Decimal
	}{
		{"buy_price", tc.BuyPrice, &in.BuyPrice},
		{"trigger_price", tc.TriggerPrice, &in.TriggerPrice},
		{"stop_price", tc.StopPrice, &in.StopPrice},
		{"limit_price", tc.LimitPrice, &in.LimitPrice},
		{"target_price", tc.TargetPrice, &in.TargetPrice},
		{"cancel_price", tc.CancelPrice, &in.CancelPrice},
	}
	for _, p := range prices {
		if p.raw <= 0 {
			continue
		}
		rounded := trading.RoundToTick(convert.ParseDecimalFromFloat(p.raw), f.TickSize)
		if rounded.LessThan(f.MinPrice) {
			return in, validationErrorf(p.field, "%s is below exchange minimum price %s", rounded, f.MinPrice)
		}
		*p.dst = rounded
	}

	// Notional checks for every order that may be placed. The exit legs sell
	// at most the fee-adjusted fill, so their quantities assume the worst
	// case (fee charged in-asset). The target leg sells the scale-out
	// tranche when one is configured alongside a stop.
	sellable := trading.AdjustForCommission("", in.Amount)
	targetQty := sellable
	if in.ScaleOutAmount.IsPositive() && in.HasStop() && in.HasTarget() {
		targetQty = trading.AdjustForCommission("", in.ScaleOutAmount)
	}
	notionals := []struct {
		field string
		price decimal.Decimal
		qty   decimal.Decimal
	}{
		{"buy_price", in.BuyPrice, in.Amount},
		{"stop_price", in.StopLimitPrice(), sellable},
		{"target_price", in.TargetPrice, targetQty},
	}
	for _, n := range notionals {
		if !n.price.IsPositive() {
			continue
		}
		if n.price.Mul(n.qty).LessThan(f.MinNotional) {
			return in, validationErrorf(n.field, "notional %s is below exchange minimum %s", n.price.Mul(n.qty), f.MinNotional)
		}
	}

	return in, nil
}
