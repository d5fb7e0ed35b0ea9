// Package exchange defines a common abstraction for spot trading venues.
// The trader core only sees these types, so exchange backends can be swapped
// (or mocked in tests) without touching the order lifecycle logic.
package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderKind is the order type requested at placement.
type OrderKind string

const (
	OrderKindMarket        OrderKind = "MARKET"
	OrderKindLimit         OrderKind = "LIMIT"
	OrderKindStopLossLimit OrderKind = "STOP_LOSS_LIMIT"
)

// Exchange-reported order statuses (a strict subset of what Binance emits;
// anything else is treated as unrecoverable by the dispatcher).
const (
	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"
)

// SymbolFilters are the exchange trading constraints for one symbol.
type SymbolFilters struct {
	StepSize    decimal.Decimal
	MinQty      decimal.Decimal
	TickSize    decimal.Decimal
	MinPrice    decimal.Decimal
	MinNotional decimal.Decimal
}

// OrderRequest describes one order to place. Price is ignored for market
// orders; StopPrice only applies to stop-limit orders.
type OrderRequest struct {
	Symbol    string
	Side      Side
	Kind      OrderKind
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	StopPrice decimal.Decimal
}

// Fill is one execution reported on a placement response.
type Fill struct {
	Price           decimal.Decimal
	Quantity        decimal.Decimal
	Commission      decimal.Decimal
	CommissionAsset string
}

// OrderResult is the synchronous placement response. Market orders usually
// come back FILLED with their fills attached.
type OrderResult struct {
	OrderID int64
	Status  string
	Fills   []Fill
}

// CommissionAsset returns the commission asset of the first fill that
// reports one, or "" when no fill carried it.
func (r *OrderResult) CommissionAsset() string {
	if r == nil {
		return ""
	}
	for _, f := range r.Fills {
		if f.CommissionAsset != "" {
			return f.CommissionAsset
		}
	}
	return ""
}

// TradeTick is one trade-price update from the market stream.
type TradeTick struct {
	Symbol string
	Price  decimal.Decimal
	At     time.Time
}

// OrderUpdate is one order-status push from the user-data stream.
type OrderUpdate struct {
	Symbol          string
	OrderID         int64
	Side            string
	Kind            string
	Status          string
	Price           decimal.Decimal
	Quantity        decimal.Decimal
	CommissionAsset string
	RejectReason    string
}
