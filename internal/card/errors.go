package card

import "errors"

// Error kinds shared by the catalog client and the materializer. Callers
// match them with errors.Is; the wrapped cause stays available.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransport       = errors.New("transport error")
	ErrProtocol        = errors.New("protocol error")
	ErrMissingPayload  = errors.New("missing payload")
	ErrCorruptPayload  = errors.New("corrupt payload")
	ErrCorruptImage    = errors.New("corrupt image")
	ErrExhaustedPool   = errors.New("exhausted pool")
)
