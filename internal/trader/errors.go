package trader

import "fmt"

// ValidationError reports an intent that fails an exchange filter check.
// Raised before any order is placed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid intent: %s: %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// GatewayError wraps a failed place/cancel call. Always fatal: retrying a
// money-moving call with unknown order state risks duplicate or orphaned
// orders.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// UnexpectedOrderStatusError reports an order pushed into a status the
// lifecycle cannot recover from (rejected, expired, cancelled externally).
type UnexpectedOrderStatusError struct {
	Role   OrderRole
	Status string
	Reason string
}

func (e *UnexpectedOrderStatusError) Error() string {
	if e.Reason != "" && e.Reason != "NONE" {
		return fmt.Sprintf("%s order entered unexpected status %s (%s)", e.Role, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s order entered unexpected status %s", e.Role, e.Status)
}
