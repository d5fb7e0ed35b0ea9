package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

type Exchange interface {
	Name() string

	SymbolFilters(ctx context.Context, symbol string) (SymbolFilters, error)

	Price(ctx context.Context, symbol string) (decimal.Decimal, error)

	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	CancelOrder(ctx context.Context, symbol string, orderID int64) error
}

// TradeSubscriber streams trade-price ticks. The call blocks until ctx is
// cancelled or the stream fails.
type TradeSubscriber interface {
	SubscribeTrades(ctx context.Context, symbol string, callback func(TradeTick)) error
}

// OrderStatusSubscriber streams per-order status pushes for the account.
type OrderStatusSubscriber interface {
	SubscribeOrderUpdates(ctx context.Context, callback func(OrderUpdate)) error
}
