package progress

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput marks a source whose columns fit neither supported layout.
	ErrMalformedInput = errors.New("malformed input")
	// ErrRetrieval marks a failed fetch or file read.
	ErrRetrieval = errors.New("retrieval failure")
)

// MalformedInputError carries the headers actually seen so the sheet owner can fix them.
type MalformedInputError struct {
	Reason  string
	Headers []string
}

func (e *MalformedInputError) Error() string {
	if len(e.Headers) == 0 {
		return fmt.Sprintf("malformed input: %s", e.Reason)
	}
	return fmt.Sprintf("malformed input: %s; found headers: %s", e.Reason, strings.Join(e.Headers, " | "))
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

// RetrievalError wraps a failed read of source bytes. StatusCode is 0 for non-HTTP failures.
type RetrievalError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieval failure: %s returned %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retrieval failure: %s: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }
