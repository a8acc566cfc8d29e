package fiber

import (
	"errors"
	"fmt"
)

// errDiscarded unwinds a suspended context during Discard.
var errDiscarded = errors.New("fiber: context discarded")

// ErrForeignContext is the panic value raised when a Switcher is handed a
// Context it did not produce.
var ErrForeignContext = errors.New("fiber: foreign context")

// UnsupportedSwitchError is the panic value raised by the pull backend for a
// switch that is not between a fiber and its link.
type UnsupportedSwitchError struct {
	From, To string
}

func (e *UnsupportedSwitchError) Error() string {
	return fmt.Sprintf("fiber: unsupported switch from %s to %s", e.From, e.To)
}

func isDiscard(r any) bool {
	err, ok := r.(error)
	return ok && err == errDiscarded
}
