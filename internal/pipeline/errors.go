package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrOCRRequired     = errors.New("ocr data must be provided for images and pdfs")
	ErrInvalidInput    = errors.New("invalid input")
)

// ChunkError is a model call or response parse failure for one chunk.
// Index is zero-based in chunk order.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// IsInputError reports whether err was caused by the request rather than by
// the model or a backing service.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrOCRRequired) ||
		errors.Is(err, ErrInvalidInput)
}
