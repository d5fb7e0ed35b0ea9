package trader

import (
	"encoding/json"
	"errors"
	"fmt"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/logger"
	"ocobot/internal/pkg/trading"

	"github.com/shopspring/decimal"
)

// StartHandler kicks off the position: entry placement, or exit placement
// straight away when the position is treated as already held.
type StartHandler struct{}

func (h *StartHandler) Type() EventType { return EvtStart }

func (h *StartHandler) Handle(ctx *HandlerContext, _ []byte, _ string) error {
	return ctx.Trader().handleStart()
}

func (t *Trader) handleStart() error {
	st := t.state
	if st.Phase != PhaseEntry || st.Entry != nil {
		return nil
	}
	if !t.intent.EntryConfigured {
		logger.Infof("trader: no entry configured for %s, placing exit orders for held amount", t.intent.Symbol)
		st.Phase = PhaseExit
		// No fill was observed, so no fee came out of the held amount.
		total := t.intent.Amount
		target := total
		if t.intent.ScaleOutAmount.IsPositive() {
			target = t.intent.ScaleOutAmount
		}
		return t.placeExitOrders(total, target)
	}

	st.Entry = &TrackedOrder{
		Role:     RoleEntry,
		Quantity: t.intent.Amount,
		Price:    t.intent.BuyPrice,
		Status:   OrderStatePendingSubmit,
	}
	t.dispatchEntry()
	return nil
}

// entryOrderRequest selects the one entry order type for the intent:
// no trigger means market; a trigger above the market arms an exchange-side
// stop-limit; a trigger at or below the market is already satisfied, so a
// plain limit at the buy price is placed instead.
func entryOrderRequest(in Intent, current decimal.Decimal) exchange.OrderRequest {
	req := exchange.OrderRequest{
		Symbol:   in.Symbol,
		Side:     exchange.SideBuy,
		Quantity: in.Amount,
	}
	switch {
	case !in.TriggerPrice.IsPositive():
		req.Kind = exchange.OrderKindMarket
	case in.TriggerPrice.GreaterThan(current):
		req.Kind = exchange.OrderKindStopLossLimit
		req.StopPrice = in.TriggerPrice
		req.Price = in.BuyPrice
	default:
		req.Kind = exchange.OrderKindLimit
		req.Price = in.BuyPrice
	}
	return req
}

// OrderPlacedHandler records the gateway's placement response: the order
// identity, and for synchronously filled orders the fill hand-off.
type OrderPlacedHandler struct{}

func (h *OrderPlacedHandler) Type() EventType { return EvtOrderPlaced }

func (h *OrderPlacedHandler) Handle(ctx *HandlerContext, payload []byte, _ string) error {
	var p OrderPlacedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid payload for order_placed: %w", err)
	}
	return ctx.Trader().handleOrderPlaced(p)
}

func (t *Trader) handleOrderPlaced(p OrderPlacedPayload) error {
	st := t.state
	if st.Phase == PhaseDone {
		return nil
	}
	if p.Error != "" {
		t.fatal(&GatewayError{Op: "place " + string(p.Role), Err: errors.New(p.Error)})
		return nil
	}
	ord := st.orderFor(p.Role)
	if ord == nil || p.Result == nil {
		return nil
	}
	ord.OrderID = p.Result.OrderID
	logger.Infof("trader: %s order accepted, id=%d status=%s", p.Role, p.Result.OrderID, p.Result.Status)
	if p.Result.Status == exchange.OrderStatusFilled {
		if ord.Status == OrderStateFilled {
			return nil
		}
		ord.Status = OrderStateFilled
		return t.onOrderFilled(p.Role, p.Result.CommissionAsset())
	}
	ord.Status = OrderStateOpen
	return nil
}

// onOrderFilled routes a terminal fill to its slot's completion logic.
func (t *Trader) onOrderFilled(role OrderRole, commissionAsset string) error {
	switch role {
	case RoleEntry:
		return t.onEntryFilled(commissionAsset)
	case RoleStop:
		t.finish(Outcome{Kind: OutcomeStopFilled})
	case RoleTarget:
		// A still-open stop leg is deliberately left alone: partial exit,
		// manual from here.
		t.finish(Outcome{Kind: OutcomeTargetFilled})
	}
	return nil
}

// onEntryFilled converts the filled buy into exit orders, deducting the
// trading fee from the sellable quantity when it was charged in-asset.
func (t *Trader) onEntryFilled(commissionAsset string) error {
	st := t.state
	st.CommissionAsset = commissionAsset
	st.Phase = PhaseExit
	logger.Infof("trader: entry filled for %s (commission asset %q)", t.intent.Symbol, commissionAsset)

	total := trading.AdjustForCommission(commissionAsset, t.intent.Amount)
	target := total
	if t.intent.ScaleOutAmount.IsPositive() {
		target = trading.AdjustForCommission(commissionAsset, t.intent.ScaleOutAmount)
	}
	return t.placeExitOrders(total, target)
}
