package analyze

import "errors"

var (
	// ErrInvalidParameter marks a configuration value outside its documented
	// domain. The wrapped message carries the parameter name and value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData marks a recording that cannot support the requested
	// analysis: mismatched or sub-2 array lengths, non-increasing time, a
	// smoothing window wider than the recording, or a signal yielding no
	// contraction peaks.
	ErrInsufficientData = errors.New("insufficient data")
)
