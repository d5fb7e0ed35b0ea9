package trader

// EventHandler processes one event type from the actor loop.
type EventHandler interface {
	// Type returns the event type this handler processes.
	Type() EventType

	// Handle processes the event. Runs on the actor goroutine; it may
	// mutate state freely but must never call the gateway directly.
	Handle(ctx *HandlerContext, payload []byte, traceID string) error
}

// HandlerContext gives handlers access to the trader without exposing the
// whole struct.
type HandlerContext struct {
	trader *Trader
}

func NewHandlerContext(t *Trader) *HandlerContext {
	return &HandlerContext{trader: t}
}

func (c *HandlerContext) Trader() *Trader {
	return c.trader
}
