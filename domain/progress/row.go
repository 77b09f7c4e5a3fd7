package progress

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WeekSlot identifies one of the four weekly accumulators of a NormalizedRow.
// AllWeeks is only meaningful as a selector and never indexes a slot.
type WeekSlot int

const (
	AllWeeks WeekSlot = iota - 1
	Week1
	Week2
	Week3
	Week4
)

// Slots lists the four real week slots in display order.
var Slots = []WeekSlot{Week1, Week2, Week3, Week4}

var slotNames = [...]string{"week1", "w2", "w3", "w4"}

func (w WeekSlot) String() string {
	if w == AllWeeks {
		return "all"
	}
	if w < Week1 || w > Week4 {
		return fmt.Sprintf("WeekSlot(%d)", int(w))
	}
	return slotNames[w]
}

// Valid reports whether w is a real slot (not a selector sentinel).
func (w WeekSlot) Valid() bool { return w >= Week1 && w <= Week4 }

// WeekLabels maps the recognized week phrases of a long-layout sheet to slots.
// Matching is exact after trimming; anything else is dropped by the pivot.
var WeekLabels = map[string]WeekSlot{
	"الأسبوع الأول":  Week1,
	"الأسبوع الثاني": Week2,
	"الأسبوع الثالث": Week3,
	"الأسبوع الرابع": Week4,
}

// ParseWeek turns a query/flag value into a week selector. Empty input selects all weeks.
func ParseWeek(s string) (WeekSlot, error) {
	s = strings.TrimSpace(s)
	key := NormalizeHeader(s)
	switch key {
	case "", "all", "الكل":
		return AllWeeks, nil
	}
	if slot, ok := WeekLabels[s]; ok {
		return slot, nil
	}
	for i, spec := range WeekColumnFields {
		for _, alias := range spec.Aliases {
			if NormalizeHeader(alias) == key {
				return Slots[i], nil
			}
		}
	}
	return AllWeeks, fmt.Errorf("unknown week %q (expected all, week1, w2, w3 or w4)", s)
}

// RowKey is the identity of a NormalizedRow.
type RowKey struct {
	Stage  string
	Metric string
}

// NormalizedRow is one (stage, metric) pair with its four weekly values.
type NormalizedRow struct {
	Stage  string
	Metric string
	Weeks  [4]float64
}

func (r NormalizedRow) Key() RowKey { return RowKey{Stage: r.Stage, Metric: r.Metric} }

// Week returns the value of one slot, or the sum of all four for AllWeeks.
func (r NormalizedRow) Week(slot WeekSlot) float64 {
	if slot == AllWeeks {
		return r.Total()
	}
	if !slot.Valid() {
		return 0
	}
	return r.Weeks[slot]
}

func (r NormalizedRow) Total() float64 {
	return r.Weeks[0] + r.Weeks[1] + r.Weeks[2] + r.Weeks[3]
}

type rowJSON struct {
	Stage  string  `json:"stage"`
	Metric string  `json:"metric"`
	Week1  float64 `json:"week1"`
	W2     float64 `json:"w2"`
	W3     float64 `json:"w3"`
	W4     float64 `json:"w4"`
}

// MarshalJSON keeps the flat week1/w2/w3/w4 shape the dashboard front-end reads.
func (r NormalizedRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowJSON{
		Stage:  r.Stage,
		Metric: r.Metric,
		Week1:  r.Weeks[Week1],
		W2:     r.Weeks[Week2],
		W3:     r.Weeks[Week3],
		W4:     r.Weeks[Week4],
	})
}

func (r *NormalizedRow) UnmarshalJSON(b []byte) error {
	var v rowJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = NormalizedRow{Stage: v.Stage, Metric: v.Metric, Weeks: [4]float64{v.Week1, v.W2, v.W3, v.W4}}
	return nil
}

// RawTable is a header row plus data rows aligned positionally to it.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table carries no data rows.
func (t RawTable) Empty() bool { return len(t.Rows) == 0 }

// Cell returns the field at idx, or "" when the row is short or idx is NotFound.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
