package trader

import (
	"encoding/json"
	"time"

	"ocobot/internal/gateway/exchange"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRole identifies which slot of the position an order belongs to.
type OrderRole string

const (
	RoleEntry  OrderRole = "ENTRY"
	RoleStop   OrderRole = "STOP"
	RoleTarget OrderRole = "TARGET"
)

// OrderState is the local lifecycle of a tracked order. It is not the
// exchange status: CANCELLING exists only here, while a cancel call is in
// flight.
type OrderState string

const (
	OrderStatePendingSubmit OrderState = "PENDING_SUBMIT"
	OrderStateOpen          OrderState = "OPEN"
	OrderStateCancelling    OrderState = "CANCELLING"
	OrderStateFilled        OrderState = "FILLED"
	OrderStateCancelled     OrderState = "CANCELLED"
)

// TrackedOrder is one outstanding order the trader issued. OrderID stays 0
// until the gateway's placement response assigns it; 0 never matches a
// status push.
type TrackedOrder struct {
	Role     OrderRole       `json:"role"`
	OrderID  int64           `json:"order_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   OrderState      `json:"status"`
}

// Phase of the position lifecycle.
type Phase string

const (
	PhaseEntry Phase = "ENTRY"
	PhaseExit  Phase = "EXIT"
	PhaseDone  Phase = "DONE"
)

// OutcomeKind classifies why the trader reached its terminal state.
type OutcomeKind string

const (
	OutcomeTargetFilled     OutcomeKind = "TARGET_FILLED"
	OutcomeStopFilled       OutcomeKind = "STOP_FILLED"
	OutcomeEntryCancelled   OutcomeKind = "ENTRY_CANCELLED"
	OutcomeNoExitConfigured OutcomeKind = "NO_EXIT_CONFIGURED"
	OutcomeFatal            OutcomeKind = "FATAL"
)

type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func (o Outcome) Success() bool { return o.Kind != OutcomeFatal }

// EventType names the messages the actor loop understands.
type EventType string

const (
	// EvtStart kicks off entry placement (or exit placement when no entry
	// is configured).
	EvtStart EventType = "START"
	// EvtPriceUpdate is one trade-price tick.
	EvtPriceUpdate EventType = "PRICE_UPDATE"
	// EvtOrderStatus is one order-status push from the user-data stream.
	EvtOrderStatus EventType = "ORDER_STATUS"
	// EvtOrderPlaced reports completion of an async placement call.
	EvtOrderPlaced EventType = "ORDER_PLACED"
	// EvtOrderCanceled reports completion of an async cancel call.
	EvtOrderCanceled EventType = "ORDER_CANCELED"
)

type PriceUpdatePayload struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type OrderStatusPayload struct {
	Symbol          string          `json:"symbol"`
	OrderID         int64           `json:"order_id"`
	Side            string          `json:"side"`
	OrderType       string          `json:"order_type"`
	Status          string          `json:"status"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	CommissionAsset string          `json:"commission_asset,omitempty"`
	RejectReason    string          `json:"reject_reason,omitempty"`
}

type OrderPlacedPayload struct {
	Role   OrderRole             `json:"role"`
	Result *exchange.OrderResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

type OrderCanceledPayload struct {
	Role    OrderRole `json:"role"`
	OrderID int64     `json:"order_id"`
	Error   string    `json:"error,omitempty"`
}

// EventEnvelope is the message the actor consumes. ReplyCh, when set, is
// sent the handler result and closed (synchronous callers).
type EventEnvelope struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	Symbol    string          `json:"symbol"`

	ReplyCh chan error `json:"-"`
}

// NewEvent builds an envelope with a fresh ID. A payload that fails to
// marshal yields an empty payload; handlers treat that as a malformed event.
func NewEvent(typ EventType, symbol string, payload any) EventEnvelope {
	var raw json.RawMessage
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			raw = b
		}
	}
	return EventEnvelope{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   raw,
		CreatedAt: time.Now(),
		Symbol:    symbol,
	}
}

// State is the position state. Only the actor goroutine touches it; readers
// get an immutable snapshot.
type State struct {
	Phase            Phase           `json:"phase"`
	Entry            *TrackedOrder   `json:"entry,omitempty"`
	Stop             *TrackedOrder   `json:"stop,omitempty"`
	Target           *TrackedOrder   `json:"target,omitempty"`
	StopSellAmount   decimal.Decimal `json:"stop_sell_amount"`
	TargetSellAmount decimal.Decimal `json:"target_sell_amount"`
	CommissionAsset  string          `json:"commission_asset,omitempty"`
	IsCancelling     bool            `json:"is_cancelling"`
	LastPrice        decimal.Decimal `json:"last_price"`
	Outcome          OutcomeKind     `json:"outcome,omitempty"`
}

func NewState() *State {
	return &State{Phase: PhaseEntry}
}

func (s *State) orderFor(role OrderRole) *TrackedOrder {
	switch role {
	case RoleEntry:
		return s.Entry
	case RoleStop:
		return s.Stop
	case RoleTarget:
		return s.Target
	}
	return nil
}

// match finds the tracked order an exchange push refers to. An unset slot
// (nil or zero OrderID) never matches.
func (s *State) match(orderID int64) *TrackedOrder {
	if orderID == 0 {
		return nil
	}
	for _, o := range []*TrackedOrder{s.Entry, s.Stop, s.Target} {
		if o != nil && o.OrderID == orderID {
			return o
		}
	}
	return nil
}

func (s *State) clone() *State {
	cp := *s
	if s.Entry != nil {
		e := *s.Entry
		cp.Entry = &e
	}
	if s.Stop != nil {
		o := *s.Stop
		cp.Stop = &o
	}
	if s.Target != nil {
		o := *s.Target
		cp.Target = &o
	}
	return &cp
}

func openOrder(o *TrackedOrder) bool {
	return o != nil && o.OrderID != 0 && o.Status == OrderStateOpen
}
