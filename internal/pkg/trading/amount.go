// Package trading provides the pure quantity/price arithmetic used by the
// order lifecycle: exchange-constraint rounding and trading-fee adjustment.
// All math is decimal so repeated adjustments cannot drift.
package trading

import "github.com/shopspring/decimal"

// FeeDiscountAsset is the asset Binance charges discounted fees in. A fill
// whose commission was paid in it leaves the bought quantity untouched.
const FeeDiscountAsset = "BNB"

var (
	one = decimal.NewFromInt(1)

	// nonDiscountFeeRate is the standard spot taker/maker fee (0.1%).
	nonDiscountFeeRate = decimal.New(1, -3)

	keepRate = one.Sub(nonDiscountFeeRate)
)

// AdjustForCommission converts a nominal sell quantity into the quantity
// actually available to sell after the buy-side fee. Fees paid in the
// discount asset are charged outside the position, so the quantity is
// unchanged; otherwise the fee came out of the bought asset itself.
func AdjustForCommission(commissionAsset string, qty decimal.Decimal) decimal.Decimal {
	if commissionAsset == FeeDiscountAsset {
		return qty
	}
	return qty.Mul(keepRate)
}

// RoundToStep rounds a quantity down to the exchange lot step.
// A zero or negative step passes the value through.
func RoundToStep(v, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return v
	}
	return v.Div(step).Floor().Mul(step)
}

// RoundToTick rounds a price down to the exchange tick size.
func RoundToTick(v, tick decimal.Decimal) decimal.Decimal {
	return RoundToStep(v, tick)
}
