package engine

import "errors"

// Failure kinds reported by the engine. Each failed operation returns exactly
// one of these, wrapped with detail; callers discriminate with errors.Is.
var (
	// ErrInvalidArguments reports a malformed invocation value, such as a
	// player identifier that is not a single digit 0-9.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrMapNotFound reports that the map source could not be opened or read.
	ErrMapNotFound = errors.New("map not found")

	// ErrInvalidMap reports a map that violates shape, alphabet, or
	// dimension constraints.
	ErrInvalidMap = errors.New("invalid map")

	// ErrMultipleEmptyAreas reports a shape-valid map whose open cells form
	// more than one connected region.
	ErrMultipleEmptyAreas = errors.New("map contains more than one empty area")

	// ErrMoveFailed reports a move or placement that could not be performed:
	// unknown direction, out-of-bounds or blocked target, or no open cell
	// available for placement.
	ErrMoveFailed = errors.New("move failed")
)
