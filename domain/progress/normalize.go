package progress

import (
	"regexp"
	"strings"
)

// Layout is the shape of a source table.
type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutWide has one row per (stage, metric) with week columns already present.
	LayoutWide
	// LayoutLong has one row per (stage, metric, week) observation.
	LayoutLong
)

func (l Layout) String() string {
	switch l {
	case LayoutWide:
		return "wide"
	case LayoutLong:
		return "long"
	}
	return "unknown"
}

var allFields = []FieldSpec{StageField, MetricField, WeekField, ValueField, Week1Field, Week2Field, Week3Field, Week4Field}

// DetectLayout resolves the known fields against headers. Wide wins when both layouts fit.
func DetectLayout(headers []string) (Layout, Resolution) {
	res := Resolve(headers, allFields...)
	if !res.Found(StageField.Name) || !res.Found(MetricField.Name) {
		return LayoutUnknown, res
	}
	for _, f := range WeekColumnFields {
		if res.Found(f.Name) {
			return LayoutWide, res
		}
	}
	if res.Found(WeekField.Name) && res.Found(ValueField.Name) {
		return LayoutLong, res
	}
	return LayoutUnknown, res
}

// Normalize pivots a table into one row per (stage, metric), in first-seen order.
// Duplicate keys sum per slot in both layouts. A table without data rows yields nil.
func Normalize(t RawTable) ([]NormalizedRow, error) {
	if t.Empty() {
		return nil, nil
	}
	layout, res := DetectLayout(t.Headers)
	switch layout {
	case LayoutWide:
		return normalizeWide(t, res), nil
	case LayoutLong:
		return normalizeLong(t, res), nil
	}
	return nil, &MalformedInputError{
		Reason:  "required columns missing: need stage and metric plus either week1..w4 or week and value",
		Headers: t.Headers,
	}
}

func normalizeWide(t RawTable, res Resolution) []NormalizedRow {
	stageIdx, metricIdx := res.Index(StageField.Name), res.Index(MetricField.Name)
	weekIdx := make([]int, len(WeekColumnFields))
	for i, f := range WeekColumnFields {
		weekIdx[i] = res.Index(f.Name)
	}

	p := newPivot()
	for _, row := range t.Rows {
		key, ok := rowKey(row, stageIdx, metricIdx)
		if !ok {
			continue
		}
		for i, idx := range weekIdx {
			// Missing columns still create the key with zero slots.
			p.add(key, Slots[i], ToNumber(Cell(row, idx)))
		}
	}
	return p.rows()
}

func normalizeLong(t RawTable, res Resolution) []NormalizedRow {
	stageIdx, metricIdx := res.Index(StageField.Name), res.Index(MetricField.Name)
	weekIdx, valueIdx := res.Index(WeekField.Name), res.Index(ValueField.Name)

	p := newPivot()
	for _, row := range t.Rows {
		key, ok := rowKey(row, stageIdx, metricIdx)
		if !ok {
			continue
		}
		slot, ok := WeekLabels[strings.TrimSpace(Cell(row, weekIdx))]
		if !ok {
			continue
		}
		p.add(key, slot, ToNumber(Cell(row, valueIdx)))
	}
	return p.rows()
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// CleanLabel trims a stage or metric cell and folds line breaks inside it (Alt+Enter in a
// workbook cell) to one space, so labels stay on one line in snapshots.
func CleanLabel(s string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(s, " "))
}

func rowKey(row []string, stageIdx, metricIdx int) (RowKey, bool) {
	key := RowKey{
		Stage:  CleanLabel(Cell(row, stageIdx)),
		Metric: CleanLabel(Cell(row, metricIdx)),
	}
	return key, key.Stage != "" && key.Metric != ""
}

// pivot accumulates slot values per key and remembers first-seen order.
type pivot struct {
	index map[RowKey]int
	out   []NormalizedRow
}

func newPivot() *pivot { return &pivot{index: map[RowKey]int{}} }

func (p *pivot) add(key RowKey, slot WeekSlot, v float64) {
	i, ok := p.index[key]
	if !ok {
		i = len(p.out)
		p.index[key] = i
		p.out = append(p.out, NormalizedRow{Stage: key.Stage, Metric: key.Metric})
	}
	p.out[i].Weeks[slot] += v
}

func (p *pivot) rows() []NormalizedRow { return p.out }
