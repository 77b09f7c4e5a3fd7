package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadStateTransitions(t *testing.T) {
	var s LoadState
	assert.Equal(t, Idle, s.Phase)

	s, first := s.Begin("Google Sheet 2025")
	assert.Equal(t, Loading, s.Phase)

	rows := []NormalizedRow{{Stage: filming, Metric: words}}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s = s.Complete(first, rows, now)
	assert.Equal(t, Loaded, s.Phase)
	assert.Equal(t, rows, s.Rows)
	assert.Equal(t, "Google Sheet 2025", s.Source)
	assert.Equal(t, now, s.LoadedAt)

	s, second := s.Begin("upload.xlsx")
	assert.Equal(t, rows, s.Rows, "rows stay on display while loading")
	failure := errors.New("boom")
	s = s.Fail(second, failure, RetainOnFailure)
	assert.Equal(t, Failed, s.Phase)
	assert.Equal(t, rows, s.Rows)
	assert.Equal(t, "Google Sheet 2025", s.Source)
	assert.ErrorIs(t, s.Err, failure)

	s, _ = s.Begin("again")
	assert.NoError(t, s.Err, "a new attempt clears the previous error")
}

func TestLoadStateClearOnFailure(t *testing.T) {
	s, id := LoadState{}.Begin("a")
	s = s.Complete(id, []NormalizedRow{{Stage: "x", Metric: "y"}}, time.Now())
	s, id = s.Begin("b")
	s = s.Fail(id, errors.New("nope"), ClearOnFailure)
	assert.Nil(t, s.Rows)
	assert.Empty(t, s.Source)
}

func TestLoadStateIgnoresStaleAttempts(t *testing.T) {
	s, old := LoadState{}.Begin("old")
	s, latest := s.Begin("new")

	s = s.Complete(old, []NormalizedRow{{Stage: "stale", Metric: "m"}}, time.Now())
	assert.Equal(t, Loading, s.Phase)
	assert.Nil(t, s.Rows)

	s = s.Fail(old, errors.New("late"), RetainOnFailure)
	assert.Equal(t, Loading, s.Phase)

	fresh := []NormalizedRow{{Stage: "fresh", Metric: "m"}}
	s = s.Complete(latest, fresh, time.Now())
	assert.Equal(t, fresh, s.Rows)
	assert.Equal(t, "new", s.Source)

	// Completing the same attempt twice is a no-op.
	s2 := s.Complete(latest, nil, time.Now())
	assert.Equal(t, fresh, s2.Rows)
}

func TestParseFailurePolicy(t *testing.T) {
	p, ok := ParseFailurePolicy("")
	assert.True(t, ok)
	assert.Equal(t, RetainOnFailure, p)

	p, ok = ParseFailurePolicy("clear")
	assert.True(t, ok)
	assert.Equal(t, ClearOnFailure, p)

	_, ok = ParseFailurePolicy("drop")
	assert.False(t, ok)
}

func TestPhaseText(t *testing.T) {
	b, err := Loaded.MarshalText()
	assert.NoError(t, err)
	var p Phase
	assert.NoError(t, p.UnmarshalText(b))
	assert.Equal(t, Loaded, p)
	assert.Error(t, p.UnmarshalText([]byte("done")))
}
