package node

import "errors"

var (
	// ErrExhausted signals that a raw source has no more values. It is the
	// only clean way a tick sequence ends; the orchestrator treats it as
	// end-of-stream rather than a failure.
	ErrExhausted = errors.New("raw source exhausted")

	// ErrKindMismatch is returned when Evaluate is called on an
	// asynchronous node or EvaluateAsync on a synchronous one.
	ErrKindMismatch = errors.New("sync/async evaluation kind mismatch")

	// ErrMissingValue is returned when an operation with none-safety
	// disabled receives a missing operand.
	ErrMissingValue = errors.New("missing operand value")

	// ErrOutOfRange is returned by At when the requested offset exceeds
	// the node's history capacity.
	ErrOutOfRange = errors.New("history index out of range")
)
