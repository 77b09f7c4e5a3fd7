package progress

import (
	"strings"
	"unicode"
)

// NotFound is the index reported for a field no header matched.
const NotFound = -1

// FieldSpec names a logical column and the raw headers accepted for it, most preferred first.
type FieldSpec struct {
	Name    string
	Aliases []string
}

var (
	StageField  = FieldSpec{Name: "stage", Aliases: []string{"المراحل", "المرحلة", "مرحلة", "مرحله", "stage", "phase"}}
	MetricField = FieldSpec{Name: "metric", Aliases: []string{"المؤشر", "مؤشر", "indicator", "metric"}}
	WeekField   = FieldSpec{Name: "week", Aliases: []string{"الأسبوع", "اسبوع", "week"}}
	ValueField  = FieldSpec{Name: "value", Aliases: []string{"القيمة", "قيمه", "value"}}

	Week1Field = FieldSpec{Name: "week1", Aliases: []string{"week1", "w1", "week01"}}
	Week2Field = FieldSpec{Name: "w2", Aliases: []string{"w2", "week2", "week02"}}
	Week3Field = FieldSpec{Name: "w3", Aliases: []string{"w3", "week3", "week03"}}
	Week4Field = FieldSpec{Name: "w4", Aliases: []string{"w4", "week4", "week04"}}

	// WeekColumnFields is indexed by WeekSlot.
	WeekColumnFields = []FieldSpec{Week1Field, Week2Field, Week3Field, Week4Field}
)

// NormalizeHeader folds a header or alias into its comparison form: BOM, whitespace and
// punctuation removed, lowercased. Letters outside ASCII and the Arabic block are dropped too.
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
		case r == '_', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x0600 && r <= 0x06FF:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolution maps field names to header indexes.
type Resolution map[string]int

// Index returns the resolved index of a field, or NotFound.
func (r Resolution) Index(field string) int {
	if idx, ok := r[field]; ok {
		return idx
	}
	return NotFound
}

func (r Resolution) Found(field string) bool { return r.Index(field) != NotFound }

// FindHeader returns the index of the first header matching the highest-priority alias.
func FindHeader(headers []string, aliases []string) int {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
	}
	return findNormalized(norm, aliases)
}

func findNormalized(norm []string, aliases []string) int {
	for _, alias := range aliases {
		target := NormalizeHeader(alias)
		if target == "" {
			continue
		}
		for i, h := range norm {
			if h == target {
				return i
			}
		}
	}
	return NotFound
}

// Resolve looks up every spec against headers. Headers are normalized once per call.
func Resolve(headers []string, specs ...FieldSpec) Resolution {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
	}
	res := make(Resolution, len(specs))
	for _, spec := range specs {
		res[spec.Name] = findNormalized(norm, spec.Aliases)
	}
	return res
}
