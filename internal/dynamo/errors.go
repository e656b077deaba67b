package dynamo

import "errors"

// Domain errors for kernel setup.
var (
	// ErrInvalidConstants indicates physical constants the step cannot use.
	ErrInvalidConstants = errors.New("dynamo: invalid simulation constants")
)
