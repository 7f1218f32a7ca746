package menu

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a model response has no JSON content at all.
var ErrEmptyResponse = errors.New("empty model response")

// MergeError reports a chunk payload that is missing a key the merge needs.
// The document cannot be assembled from it, so it is never recovered from.
type MergeError struct {
	Chunk  int
	Entity string
	Index  int
	Key    string
}

func (e *MergeError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("merge chunk %d: %s", e.Chunk, e.Key)
	}
	return fmt.Sprintf("merge chunk %d: %s[%d] missing or invalid %q", e.Chunk, e.Entity, e.Index, e.Key)
}

// ValidationError is a schema violation with the JSON pointer it was found at.
type ValidationError struct {
	Path    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "menu schema validation failed: " + e.Message
	}
	return fmt.Sprintf("menu schema validation failed at %s: %s", e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }
