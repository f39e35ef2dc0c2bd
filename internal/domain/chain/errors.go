package chain

import "errors"

var (
	// ErrInvalidTransition is returned when a stage decision is attempted
	// out of order, on an already-decided stage, or after a rejection.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInvalidStage is returned when a stage name is not part of the chain.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidDecision is returned when a decision is neither approve nor reject.
	ErrInvalidDecision = errors.New("invalid decision")
)
