package progress

import (
	"strings"

	lo "github.com/samber/lo"
)

// AllStages is the stage filter value that keeps every row.
const AllStages = "all"

// WeekValue is a row's value for the selected week; a nil row counts as 0.
func WeekValue(row *NormalizedRow, week WeekSlot) float64 {
	if row == nil {
		return 0
	}
	return row.Week(week)
}

// FilterByStage keeps rows of one stage, or all rows for AllStages.
func FilterByStage(rows []NormalizedRow, stage string) []NormalizedRow {
	if stage == AllStages {
		return rows
	}
	return lo.Filter(rows, func(r NormalizedRow, _ int) bool { return r.Stage == stage })
}

// SumByMetric sums the selected week over every row of metric.
func SumByMetric(rows []NormalizedRow, metric string, week WeekSlot) float64 {
	return lo.SumBy(lo.Filter(rows, func(r NormalizedRow, _ int) bool { return r.Metric == metric }),
		func(r NormalizedRow) float64 { return r.Week(week) })
}

// SumByWeek returns the per-slot sums of metric, in slot order.
func SumByWeek(rows []NormalizedRow, metric string) [4]float64 {
	var out [4]float64
	for _, r := range rows {
		if r.Metric != metric {
			continue
		}
		for _, s := range Slots {
			out[s] += r.Weeks[s]
		}
	}
	return out
}

// DistinctStages lists AllStages, then preferred stages present in rows (in preferred order),
// then the remaining stages in first-seen order.
func DistinctStages(rows []NormalizedRow, preferred []string) []string {
	seen := lo.Uniq(lo.FilterMap(rows, func(r NormalizedRow, _ int) (string, bool) {
		return r.Stage, r.Stage != ""
	}))
	present := lo.SliceToMap(seen, func(s string) (string, struct{}) { return s, struct{}{} })
	wanted := lo.SliceToMap(preferred, func(s string) (string, struct{}) { return s, struct{}{} })

	out := make([]string, 0, len(seen)+1)
	out = append(out, AllStages)
	for _, s := range lo.Uniq(preferred) {
		if _, ok := present[s]; ok {
			out = append(out, s)
		}
	}
	for _, s := range seen {
		if _, ok := wanted[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseStage maps the "all" spellings used by the UI onto AllStages.
func ParseStage(s string) string {
	s = strings.TrimSpace(s)
	switch NormalizeHeader(s) {
	case "", "all", "الكل":
		return AllStages
	}
	return s
}

// ResolveStage falls back to AllStages when stage is not present in rows.
func ResolveStage(rows []NormalizedRow, stage string) string {
	if stage == AllStages {
		return stage
	}
	if lo.ContainsBy(rows, func(r NormalizedRow) bool { return r.Stage == stage }) {
		return stage
	}
	return AllStages
}

// FindRow returns the first row with the given stage and metric, or nil.
func FindRow(rows []NormalizedRow, stage, metric string) *NormalizedRow {
	for i := range rows {
		if rows[i].Stage == stage && rows[i].Metric == metric {
			return &rows[i]
		}
	}
	return nil
}

// VideoTotal sums the selected week over rows of stage whose metric contains marker.
// It ignores any stage filter the caller applies elsewhere.
func VideoTotal(rows []NormalizedRow, stage, marker string, week WeekSlot) float64 {
	m := foldMarker(marker)
	return lo.SumBy(lo.Filter(rows, func(r NormalizedRow, _ int) bool {
		return r.Stage == stage && strings.Contains(foldMarker(r.Metric), m)
	}), func(r NormalizedRow) float64 { return r.Week(week) })
}

func foldMarker(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
