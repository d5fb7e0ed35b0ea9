package trader

import (
	"encoding/json"
	"errors"
	"fmt"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/logger"

	"github.com/shopspring/decimal"
)

// placeExitOrders opens the protective legs once the position is held.
// With both prices set the target tranche is placed first; a stop covers
// whatever the target does not. Quantities always move between the two
// sell-amount slots so their sum never exceeds the sellable total.
func (t *Trader) placeExitOrders(total, target decimal.Decimal) error {
	st := t.state
	in := t.intent
	switch {
	case in.HasStop() && in.HasTarget():
		st.TargetSellAmount = target
		t.submitTarget(target)
		if target.LessThan(total) {
			st.StopSellAmount = total.Sub(target)
			t.submitStop(st.StopSellAmount)
		} else {
			st.StopSellAmount = decimal.Zero
		}
	case in.HasStop():
		st.StopSellAmount = total
		st.TargetSellAmount = decimal.Zero
		t.submitStop(total)
	case in.HasTarget():
		st.TargetSellAmount = total
		st.StopSellAmount = decimal.Zero
		t.submitTarget(total)
	default:
		t.finish(Outcome{Kind: OutcomeNoExitConfigured})
	}
	return nil
}

func (t *Trader) submitStop(qty decimal.Decimal) {
	price := t.intent.StopLimitPrice()
	t.state.Stop = &TrackedOrder{
		Role:     RoleStop,
		Quantity: qty,
		Price:    price,
		Status:   OrderStatePendingSubmit,
	}
	t.dispatchPlace(RoleStop, exchange.OrderRequest{
		Symbol:    t.intent.Symbol,
		Side:      exchange.SideSell,
		Kind:      exchange.OrderKindStopLossLimit,
		Quantity:  qty,
		Price:     price,
		StopPrice: t.intent.StopPrice,
	})
}

func (t *Trader) submitTarget(qty decimal.Decimal) {
	t.state.Target = &TrackedOrder{
		Role:     RoleTarget,
		Quantity: qty,
		Price:    t.intent.TargetPrice,
		Status:   OrderStatePendingSubmit,
	}
	t.dispatchPlace(RoleTarget, exchange.OrderRequest{
		Symbol:   t.intent.Symbol,
		Side:     exchange.SideSell,
		Kind:     exchange.OrderKindLimit,
		Quantity: qty,
		Price:    t.intent.TargetPrice,
	})
}

// OrderCanceledHandler finishes a cancel we initiated: terminal for the
// entry, leg replacement for an exit order.
type OrderCanceledHandler struct{}

func (h *OrderCanceledHandler) Type() EventType { return EvtOrderCanceled }

func (h *OrderCanceledHandler) Handle(ctx *HandlerContext, payload []byte, _ string) error {
	var p OrderCanceledPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid payload for order_canceled: %w", err)
	}
	return ctx.Trader().handleOrderCanceled(p)
}

func (t *Trader) handleOrderCanceled(p OrderCanceledPayload) error {
	st := t.state
	if st.Phase == PhaseDone {
		return nil
	}
	if p.Error != "" {
		st.IsCancelling = false
		t.fatal(&GatewayError{Op: "cancel " + string(p.Role), Err: errors.New(p.Error)})
		return nil
	}
	st.IsCancelling = false

	switch p.Role {
	case RoleEntry:
		if st.Entry != nil {
			st.Entry.Status = OrderStateCancelled
		}
		t.finish(Outcome{Kind: OutcomeEntryCancelled})

	case RoleStop:
		// Price reached the target while only the stop protected the
		// position: the stop's quantity becomes the target tranche.
		st.Stop = nil
		st.TargetSellAmount = st.TargetSellAmount.Add(st.StopSellAmount)
		st.StopSellAmount = decimal.Zero
		logger.Infof("trader: stop cancelled, placing target for %s", st.TargetSellAmount)
		t.submitTarget(st.TargetSellAmount)

	case RoleTarget:
		// Price fell back to the stop level: fold the target tranche back
		// into the stop, restoring the pre-split total.
		st.Target = nil
		st.StopSellAmount = st.StopSellAmount.Add(st.TargetSellAmount)
		st.TargetSellAmount = decimal.Zero
		logger.Infof("trader: target cancelled, placing stop for %s", st.StopSellAmount)
		t.submitStop(st.StopSellAmount)
	}
	return nil
}
