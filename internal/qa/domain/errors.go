package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuestion is returned when the question is missing or blank after
// trimming. No upstream call is made in that case.
var ErrEmptyQuestion = errors.New("question must not be empty")

// RetrievalError means the vector-search service was unreachable or answered
// with a non-success status. Status and Body carry the upstream response for
// diagnostics; both are zero when the call never got a response.
type RetrievalError struct {
	Status int
	Body   string
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("knowledge search: %v", e.Err)
	}
	return fmt.Sprintf("knowledge search: status %d: %s", e.Status, e.Body)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError means the generation-model call failed: network error,
// non-success status or a response that could not be decoded. A response with
// zero choices is NOT a GenerationError; it yields an empty answer.
type GenerationError struct {
	Status int
	Body   string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("answer generation: %v", e.Err)
	}
	return fmt.Sprintf("answer generation: status %d: %s", e.Status, e.Body)
}

func (e *GenerationError) Unwrap() error { return e.Err }
