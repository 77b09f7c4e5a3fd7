package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct{ in, want string }{
		{"\uFEFFالمرحلة", "المرحلة"},
		{"  Stage ", "stage"},
		{"Week 1", "week1"},
		{"week-01", "week01"},
		{"القيمة (ر.س)", "القيمةرس"},
		{"Metric\t", "metric"},
		{"مؤشر_الأداء ✓", "مؤشر_الأداء"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeHeader(tc.in), "input %q", tc.in)
	}
}

func TestFindHeaderPriority(t *testing.T) {
	aliases := []string{"A", "B"}

	assert.Equal(t, 0, FindHeader([]string{"b"}, aliases))
	assert.Equal(t, 1, FindHeader([]string{"B", "a"}, aliases), "higher priority alias wins over position")
	assert.Equal(t, NotFound, FindHeader([]string{"C"}, aliases))
	assert.Equal(t, NotFound, FindHeader(nil, aliases))
}

func TestResolve(t *testing.T) {
	headers := []string{"السنه", "الشهر", " الأسبوع ", "اليوم", "المراحل", "المؤشر", "القيمة", "ملاحظات"}
	res := Resolve(headers, StageField, MetricField, WeekField, ValueField, Week1Field)

	assert.Equal(t, 4, res.Index("stage"))
	assert.Equal(t, 5, res.Index("metric"))
	assert.Equal(t, 2, res.Index("week"))
	assert.Equal(t, 6, res.Index("value"))
	assert.False(t, res.Found("week1"))
	assert.Equal(t, NotFound, res.Index("unknown"))
}

func TestResolvePrefersNativeName(t *testing.T) {
	res := Resolve([]string{"stage", "المرحلة"}, StageField)
	assert.Equal(t, 1, res.Index("stage"))
}
