package trader

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/logger"

	"github.com/shopspring/decimal"
)

const gatewayCallTimeout = 30 * time.Second

// Trader is the order lifecycle actor. A single goroutine (runLoop) owns
// the position state and consumes price ticks, order-status pushes and
// gateway call completions as serialized events, so no handler ever races
// another. Gateway calls themselves run in short-lived goroutines that post
// their result back into the loop as an event.
type Trader struct {
	exchange      exchange.Exchange
	store         EventStore
	intent        Intent
	eventRegistry *HandlerRegistry

	msgCh  chan EventEnvelope
	stopCh chan struct{}
	wg     sync.WaitGroup

	state         *State
	stateSnapshot atomic.Value

	outcome  Outcome
	doneCh   chan struct{}
	doneOnce sync.Once
}

// New builds a trader for one validated intent. store may be nil to disable
// the audit log.
func New(ex exchange.Exchange, store EventStore, intent Intent) *Trader {
	reg := NewHandlerRegistry()
	reg.RegisterDefaultHandlers()

	t := &Trader{
		exchange:      ex,
		store:         store,
		intent:        intent,
		eventRegistry: reg,
		msgCh:         make(chan EventEnvelope, 100),
		stopCh:        make(chan struct{}),
		state:         NewState(),
		doneCh:        make(chan struct{}),
	}
	t.refreshSnapshot()
	return t
}

func (t *Trader) Intent() Intent { return t.intent }

// Start launches the loop and queues the kick-off event.
func (t *Trader) Start() {
	t.wg.Add(1)
	go t.runLoop()
	t.post(EvtStart, nil)
}

func (t *Trader) Stop() {
	close(t.stopCh)
	t.wg.Wait()
	if t.store != nil {
		if err := t.store.Close(); err != nil {
			logger.Warnf("trader: event store close failed: %v", err)
		}
	}
}

func (t *Trader) Send(evt EventEnvelope) error {
	select {
	case t.msgCh <- evt:
		return nil
	case <-t.stopCh:
		return fmt.Errorf("trader is stopped")
	}
}

// SendSync delivers an event and waits for its handler to run.
func (t *Trader) SendSync(ctx context.Context, evt EventEnvelope) error {
	if evt.ReplyCh == nil {
		evt.ReplyCh = make(chan error, 1)
	}
	if err := t.Send(evt); err != nil {
		return err
	}
	select {
	case err := <-evt.ReplyCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-t.stopCh:
		return fmt.Errorf("trader stopped during sync call")
	}
}

// Done is closed once the trader reaches a terminal outcome.
func (t *Trader) Done() <-chan struct{} { return t.doneCh }

// Outcome is valid after Done is closed.
func (t *Trader) Outcome() Outcome { return t.outcome }

// Snapshot returns an immutable copy of the position state.
func (t *Trader) Snapshot() *State {
	val := t.stateSnapshot.Load()
	if val == nil {
		return NewState()
	}
	return val.(*State)
}

func (t *Trader) refreshSnapshot() {
	t.stateSnapshot.Store(t.state.clone())
}

func (t *Trader) runLoop() {
	defer t.wg.Done()
	logger.Infof("trader: actor started for %s", t.intent.Symbol)

	for {
		select {
		case evt := <-t.msgCh:
			t.handleEvent(evt)
		case <-t.stopCh:
			logger.Infof("trader: actor stopping")
			return
		}
	}
}

// handleEvent runs one event through its handler with panic isolation, a
// slow-handler warning and audit-log append (price ticks are not logged).
func (t *Trader) handleEvent(evt EventEnvelope) {
	var err error
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("trader: panic handling event %s: %v", evt.Type, r)
			debug.PrintStack()
			err = fmt.Errorf("panic: %v", r)
		}
		if evt.ReplyCh != nil {
			evt.ReplyCh <- err
			close(evt.ReplyCh)
		}
		if dur := time.Since(start); dur > 100*time.Millisecond {
			logger.Warnf("trader: slow event %s took %v", evt.Type, dur)
		}
		t.refreshSnapshot()
	}()

	if t.store != nil && shouldPersistEvent(evt.Type) {
		if err := t.store.Append(evt); err != nil {
			logger.Errorf("trader: failed to persist event %s: %v", evt.Type, err)
		}
	}

	handler, ok := t.eventRegistry.Get(evt.Type)
	if !ok {
		logger.Warnf("trader: no handler registered for event type %s", evt.Type)
		return
	}

	ctx := NewHandlerContext(t)
	err = handler.Handle(ctx, evt.Payload, evt.ID)
	if err != nil {
		logger.Errorf("trader: failed to handle %s: %v", evt.Type, err)
	}
}

func shouldPersistEvent(t EventType) bool {
	return t != EvtPriceUpdate
}

// finish records the terminal outcome. First outcome wins; later terminal
// transitions are ignored.
func (t *Trader) finish(o Outcome) {
	if t.state.Phase == PhaseDone {
		return
	}
	t.state.Phase = PhaseDone
	t.state.Outcome = o.Kind
	t.outcome = o
	if o.Err != nil {
		logger.Errorf("trader: terminal %s: %v", o.Kind, o.Err)
	} else {
		logger.Infof("trader: terminal %s", o.Kind)
	}
	t.doneOnce.Do(func() { close(t.doneCh) })
}

func (t *Trader) fatal(err error) {
	t.finish(Outcome{Kind: OutcomeFatal, Err: err})
}

// post marshals a payload and queues it on the actor loop.
func (t *Trader) post(typ EventType, payload any) {
	if err := t.Send(NewEvent(typ, t.intent.Symbol, payload)); err != nil {
		logger.Warnf("trader: send %s failed: %v", typ, err)
	}
}

// dispatchEntry decides the entry order type and places it, off-loop. The
// current price is fetched only when a trigger is configured.
func (t *Trader) dispatchEntry() {
	in := t.intent
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayCallTimeout)
		defer cancel()

		p := OrderPlacedPayload{Role: RoleEntry}
		current := decimal.Zero
		var err error
		if in.TriggerPrice.IsPositive() {
			current, err = t.exchange.Price(ctx, in.Symbol)
		}
		if err == nil {
			req := entryOrderRequest(in, current)
			logger.Infof("trader: placing %s %s entry for %s %s", req.Kind, req.Side, req.Quantity, req.Symbol)
			var res *exchange.OrderResult
			res, err = t.exchange.PlaceOrder(ctx, req)
			p.Result = res
		}
		if err != nil {
			p.Error = err.Error()
		}
		t.post(EvtOrderPlaced, p)
	}()
}

func (t *Trader) dispatchPlace(role OrderRole, req exchange.OrderRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayCallTimeout)
		defer cancel()

		logger.Infof("trader: placing %s %s %s for %s %s", role, req.Kind, req.Side, req.Quantity, req.Symbol)
		res, err := t.exchange.PlaceOrder(ctx, req)
		p := OrderPlacedPayload{Role: role, Result: res}
		if err != nil {
			p.Error = err.Error()
		}
		t.post(EvtOrderPlaced, p)
	}()
}

func (t *Trader) dispatchCancel(role OrderRole, orderID int64) {
	symbol := t.intent.Symbol
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), gatewayCallTimeout)
		defer cancel()

		logger.Infof("trader: cancelling %s order %d", role, orderID)
		err := t.exchange.CancelOrder(ctx, symbol, orderID)
		p := OrderCanceledPayload{Role: role, OrderID: orderID}
		if err != nil {
			p.Error = err.Error()
		}
		t.post(EvtOrderCanceled, p)
	}()
}
