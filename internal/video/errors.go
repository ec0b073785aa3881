package video

import (
	"errors"
	"fmt"
)

var (
	ErrOddVertexCount = errors.New("odd vertex count")
	ErrQuadStripFull  = errors.New("quad strip overflow")
	ErrShortPalette   = errors.New("palette data too short")
	ErrShortBitmap    = errors.New("bitmap data too short")
	ErrNoPartVertices = errors.New("no part outline")
)

// VideoError provides detailed error context for decode operations.
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}
