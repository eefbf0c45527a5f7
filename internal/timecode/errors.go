package timecode

import (
	"errors"
	"fmt"
)

// Sentinel errors for timestamp and frame rate parsing.
var (
	ErrInvalidFormat    = errors.New("timecode: invalid format")
	ErrUnknownFrameRate = errors.New("timecode: unknown frame rate")
)

// ParseError records the input that failed to parse.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timecode: parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
