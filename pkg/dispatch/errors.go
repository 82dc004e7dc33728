package dispatch

import "errors"

var (
	// ErrTimeout means no response arrived within the request timeout.
	// The computation may still be running; callers should treat this
	// as "result unavailable now", not "computation failed".
	ErrTimeout = errors.New("dispatch: request timed out")

	// ErrWorkerFault means the worker handling the request crashed.
	// Every request pending on that worker is rejected with this error.
	ErrWorkerFault = errors.New("dispatch: worker fault")

	// ErrClosed means the dispatcher has been shut down
	ErrClosed = errors.New("dispatch: dispatcher closed")

	// ErrUnknownOperation means the worker has no handler for the
	// request's operation type
	ErrUnknownOperation = errors.New("dispatch: unknown operation")
)
