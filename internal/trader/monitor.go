package trader

import (
	"encoding/json"
	"fmt"

	"ocobot/internal/logger"
)

// PriceUpdateHandler evaluates the two price trigger conditions: pre-fill
// entry cancellation and post-fill stop/target cross-over. Ticks arrive
// with no ordering guarantee relative to order-status pushes, so every
// check re-verifies slot identity and the cancel guard; ticks that change
// nothing are no-ops.
type PriceUpdateHandler struct{}

func (h *PriceUpdateHandler) Type() EventType { return EvtPriceUpdate }

func (h *PriceUpdateHandler) Handle(ctx *HandlerContext, payload []byte, _ string) error {
	var p PriceUpdatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid payload for price_update: %w", err)
	}
	return ctx.Trader().handlePriceUpdate(p)
}

func (t *Trader) handlePriceUpdate(p PriceUpdatePayload) error {
	st := t.state
	if st.Phase == PhaseDone || p.Symbol != t.intent.Symbol {
		return nil
	}
	st.LastPrice = p.Price
	in := t.intent

	if st.Phase == PhaseEntry {
		if !openOrder(st.Entry) || st.IsCancelling || !in.CancelPrice.IsPositive() {
			return nil
		}
		// Price moved away from the intended buy in either direction, past
		// the stop-out threshold. Inclusive on the cancel side regardless
		// of which side the trigger is approached from.
		crossed := (p.Price.LessThan(in.TriggerPrice) && p.Price.LessThanOrEqual(in.CancelPrice)) ||
			(p.Price.GreaterThan(in.TriggerPrice) && p.Price.GreaterThanOrEqual(in.CancelPrice))
		if crossed {
			st.IsCancelling = true
			st.Entry.Status = OrderStateCancelling
			logger.Infof("trader: price %s crossed cancel threshold %s, withdrawing entry", p.Price, in.CancelPrice)
			t.dispatchCancel(RoleEntry, st.Entry.OrderID)
		}
		return nil
	}

	if st.IsCancelling {
		return nil
	}

	// Only one exit leg on the book: replace it when price crosses the
	// other leg's level.
	if openOrder(st.Stop) && st.Target == nil && in.HasTarget() && p.Price.GreaterThanOrEqual(in.TargetPrice) {
		st.IsCancelling = true
		st.Stop.Status = OrderStateCancelling
		logger.Infof("trader: price %s reached target %s, swapping stop for target", p.Price, in.TargetPrice)
		t.dispatchCancel(RoleStop, st.Stop.OrderID)
		return nil
	}
	if openOrder(st.Target) && st.Stop == nil && in.HasStop() && p.Price.LessThanOrEqual(in.StopPrice) {
		st.IsCancelling = true
		st.Target.Status = OrderStateCancelling
		logger.Infof("trader: price %s fell to stop %s, swapping target for stop", p.Price, in.StopPrice)
		t.dispatchCancel(RoleTarget, st.Target.OrderID)
	}
	return nil
}
