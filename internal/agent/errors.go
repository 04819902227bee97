package agent

import "errors"

var (
	// ErrNoContent is returned when the model ends a turn with neither text
	// nor tool calls.
	ErrNoContent = errors.New("agent: model returned no content")

	// ErrMaxSteps is returned when the model is still calling tools after the
	// step budget is spent.
	ErrMaxSteps = errors.New("agent: tool step limit reached")

	// ErrNoInput marks an interactive caller that ran out of input before a
	// prompt was read.
	ErrNoInput = errors.New("agent: no input provided")
)
