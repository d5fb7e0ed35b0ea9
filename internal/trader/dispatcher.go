package trader

import (
	"encoding/json"
	"fmt"

	"ocobot/internal/gateway/exchange"
)

// OrderStatusHandler routes order-status pushes to the tracked slot they
// belong to. Pushes for unrelated orders are ignored; waiting states are
// no-ops; fills invoke the slot's completion handler; anything else means
// the exchange took the order away from us.
type OrderStatusHandler struct{}

func (h *OrderStatusHandler) Type() EventType { return EvtOrderStatus }

func (h *OrderStatusHandler) Handle(ctx *HandlerContext, payload []byte, _ string) error {
	var p OrderStatusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid payload for order_status: %w", err)
	}
	return ctx.Trader().handleOrderStatus(p)
}

func (t *Trader) handleOrderStatus(p OrderStatusPayload) error {
	st := t.state
	if st.Phase == PhaseDone {
		return nil
	}
	ord := st.match(p.OrderID)
	if ord == nil {
		return nil
	}

	switch p.Status {
	case exchange.OrderStatusNew, exchange.OrderStatusPartiallyFilled:
		return nil
	case exchange.OrderStatusFilled:
		if ord.Status == OrderStateFilled {
			return nil
		}
		ord.Status = OrderStateFilled
		return t.onOrderFilled(ord.Role, p.CommissionAsset)
	default:
		if p.Status == exchange.OrderStatusCanceled && ord.Status == OrderStateCancelling {
			// Echo of our own cancel; the gateway call completion event is
			// authoritative for that flow.
			return nil
		}
		t.fatal(&UnexpectedOrderStatusError{Role: ord.Role, Status: p.Status, Reason: p.RejectReason})
		return nil
	}
}
