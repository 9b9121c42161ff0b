package benford

import "errors"

var (
	// ErrInvalidInput is returned when a set member cannot be interpreted as an integer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidArgument is returned for malformed shapes: unknown positions,
	// wrong vector length, wrong number of positions or out of range digits.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoData is returned when a digit collection or vector is empty.
	ErrNoData = errors.New("no data")
)
