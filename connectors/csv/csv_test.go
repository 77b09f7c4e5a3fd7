package csv

import (
	"os"
	"path/filepath"
	"testing"

	"stage-dashboard/domain/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{` a , b ,c `, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{`a,,`, []string{"a", "", ""}},
		{`x"y"z,1`, []string{"xyz", "1"}},
		{`"unterminated,still one`, []string{"unterminated,still one"}},
		{``, []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLine(tt.in), "line %q", tt.in)
	}
}

func TestParse(t *testing.T) {
	text := "\uFEFFالمرحلة,المؤشر,الأسبوع,القيمة\r\n\r\n  \nمرحلة التصوير,\"عدد الكلمات\",الأسبوع الأول,\"1,200\"\nمرحلة التسمية,عدد الساعات\n"
	table := Parse(text)

	require.Len(t, table.Headers, 4)
	assert.Equal(t, "\uFEFFالمرحلة", table.Headers[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"مرحلة التصوير", "عدد الكلمات", "الأسبوع الأول", "1,200"}, table.Rows[0])
	assert.Equal(t, "", progress.Cell(table.Rows[1], 3), "short rows read as empty")
}

func TestParseWithoutDataRows(t *testing.T) {
	assert.True(t, Parse("").Empty())
	assert.True(t, Parse("المرحلة,المؤشر\n\n").Empty())
	assert.Nil(t, Parse("h1,h2\r\n").Headers)
}

func TestParseAndNormalize(t *testing.T) {
	text := "المرحلة,المؤشر,الأسبوع,القيمة\nمرحلة التصوير,عدد الكلمات,الأسبوع الأول,100\nمرحلة التصوير,عدد الكلمات,الأسبوع الأول,50\n"

	rows, err := progress.Normalize(Parse(text))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, progress.NormalizedRow{Stage: "مرحلة التصوير", Metric: "عدد الكلمات", Weeks: [4]float64{150, 0, 0, 0}}, rows[0])
}

func TestWriteRowsReadsBack(t *testing.T) {
	rows := []progress.NormalizedRow{
		{Stage: "مرحلة التصوير", Metric: "عدد, الكلمات", Weeks: [4]float64{1.5, 2, 0, 4}},
		{Stage: "مرحلة التسمية", Metric: `"quoted"`, Weeks: [4]float64{0, 0, 0, 1000000}},
	}
	path := filepath.Join(t.TempDir(), "2025", "rows.csv")
	require.NoError(t, WriteRows(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	back, err := progress.Normalize(ParseBytes(b))
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestWriteRowsFoldsLineBreaks(t *testing.T) {
	rows := []progress.NormalizedRow{
		{Stage: "مرحلة\nالتصوير", Metric: "عدد\r\nالكلمات", Weeks: [4]float64{5, 0, 0, 0}},
		{Stage: "مرحلة التسمية", Metric: "عدد الكلمات", Weeks: [4]float64{1, 0, 0, 0}},
	}
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, WriteRows(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	back, err := progress.Normalize(ParseBytes(b))
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, progress.NormalizedRow{Stage: "مرحلة التصوير", Metric: "عدد الكلمات", Weeks: [4]float64{5, 0, 0, 0}}, back[0])
}

func TestWriteView(t *testing.T) {
	rows := []progress.NormalizedRow{
		{Stage: "مرحلة التصوير", Metric: "عدد الكلمات", Weeks: [4]float64{1, 2, 3, 4}},
		{Stage: "مرحلة التسمية", Metric: "عدد الكلمات", Weeks: [4]float64{5, 6, 7, 8}},
	}
	view := progress.BuildView(rows, progress.Filter{Stage: progress.AllStages, Week: progress.AllWeeks}, progress.DefaultOptions())
	dir := t.TempDir()
	require.NoError(t, WriteView(dir, view))

	for _, name := range []string{"kpis.csv", "words_by_week.csv", "people_hours_by_stage.csv", "words_stage_by_week.csv", "words_by_stage.csv", "table.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	b, err := os.ReadFile(filepath.Join(dir, "words_stage_by_week.csv"))
	require.NoError(t, err)
	stacked := ParseBytes(b)
	assert.Equal(t, []string{"week", "مرحلة التصوير", "مرحلة التسمية"}, stacked.Headers)
	assert.Equal(t, []string{"w3", "3", "7"}, stacked.Rows[2])

	b, err = os.ReadFile(filepath.Join(dir, "kpis.csv"))
	require.NoError(t, err)
	kpis := ParseBytes(b)
	assert.Equal(t, []string{"words", "36", "all", "all"}, kpis.Rows[0])
}
