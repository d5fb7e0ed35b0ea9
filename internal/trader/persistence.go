package trader

// EventStore records every state-changing event the actor processes, for
// audit only. It is never read back at startup: a restarted process starts
// from a clean slate by design.
type EventStore interface {
	Append(evt EventEnvelope) error

	Close() error
}
