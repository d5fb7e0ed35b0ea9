package trader

import "ocobot/internal/logger"

// HandlerRegistry maps event types to their handlers.
type HandlerRegistry struct {
	handlers map[EventType]EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[EventType]EventHandler),
	}
}

// Register adds a handler, replacing any existing handler for the type.
func (r *HandlerRegistry) Register(h EventHandler) {
	if h == nil {
		return
	}
	r.handlers[h.Type()] = h
}

func (r *HandlerRegistry) Get(t EventType) (EventHandler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}

// RegisterDefaultHandlers registers all built-in event handlers.
func (r *HandlerRegistry) RegisterDefaultHandlers() {
	r.Register(&StartHandler{})
	r.Register(&PriceUpdateHandler{})
	r.Register(&OrderStatusHandler{})
	r.Register(&OrderPlacedHandler{})
	r.Register(&OrderCanceledHandler{})
	logger.Debugf("trader: registered %d event handlers", len(r.handlers))
}
