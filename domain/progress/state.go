package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Phase is the reload lifecycle of one dataset.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "idle"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, c := range []Phase{Idle, Loading, Loaded, Failed} {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// FailurePolicy decides what a failed reload does to the rows on display.
type FailurePolicy int

const (
	// RetainOnFailure keeps the last good rows and reports the error next to them.
	RetainOnFailure FailurePolicy = iota
	// ClearOnFailure drops the rows on failure.
	ClearOnFailure
)

// ParseFailurePolicy accepts "retain" (default when empty) or "clear".
func ParseFailurePolicy(s string) (FailurePolicy, bool) {
	switch s {
	case "", "retain":
		return RetainOnFailure, true
	case "clear":
		return ClearOnFailure, true
	}
	return RetainOnFailure, false
}

// LoadState is an immutable snapshot of a dataset's rows and last reload attempt.
// Transitions return a new value; rows are only ever replaced wholesale.
type LoadState struct {
	Phase    Phase
	Rows     []NormalizedRow
	Source   string // label of the source Rows came from
	Pending  string // label of the in-flight source while Loading
	Err      error
	Attempt  uuid.UUID
	LoadedAt time.Time
}

// Begin starts a new attempt. The previous error is cleared, rows stay on display.
func (s LoadState) Begin(source string) (LoadState, uuid.UUID) {
	id := uuid.New()
	s.Phase = Loading
	s.Pending = source
	s.Err = nil
	s.Attempt = id
	return s, id
}

// Current reports whether attempt is the latest one started.
func (s LoadState) Current(attempt uuid.UUID) bool {
	return s.Attempt == attempt && s.Phase == Loading
}

// Complete publishes rows for attempt. Stale attempts leave s unchanged.
func (s LoadState) Complete(attempt uuid.UUID, rows []NormalizedRow, at time.Time) LoadState {
	if !s.Current(attempt) {
		return s
	}
	s.Phase = Loaded
	s.Rows = rows
	s.Source = s.Pending
	s.Pending = ""
	s.LoadedAt = at
	return s
}

// Fail records err for attempt. Stale attempts leave s unchanged.
func (s LoadState) Fail(attempt uuid.UUID, err error, policy FailurePolicy) LoadState {
	if !s.Current(attempt) {
		return s
	}
	s.Phase = Failed
	s.Err = err
	s.Pending = ""
	if policy == ClearOnFailure {
		s.Rows = nil
		s.Source = ""
		s.LoadedAt = time.Time{}
	}
	return s
}
