package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stage-dashboard/domain/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeFetcher struct {
	body []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.urls = append(f.urls, rawURL)
	return f.body, f.err
}

const longCSV = "المرحلة,المؤشر,الأسبوع,القيمة\nمرحلة التصوير,عدد الكلمات,الأسبوع الأول,100\nمرحلة التصوير,عدد الكلمات,الأسبوع الأول,50\n"

func TestFromURL(t *testing.T) {
	f := &fakeFetcher{body: []byte(longCSV)}
	rows, err := FromURL(context.Background(), f, "https://example.test/feed")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/feed"}, f.urls)
	require.Len(t, rows, 1)
	assert.Equal(t, 150.0, rows[0].Weeks[progress.Week1])
}

func TestFromURLPropagatesErrors(t *testing.T) {
	fail := &progress.RetrievalError{Source: "u", StatusCode: 500, Err: errors.New("down")}
	_, err := FromURL(context.Background(), &fakeFetcher{err: fail}, "u")
	assert.ErrorIs(t, err, progress.ErrRetrieval)

	_, err = FromURL(context.Background(), &fakeFetcher{body: []byte("a,b\n1,2\n")}, "u")
	assert.ErrorIs(t, err, progress.ErrMalformedInput)

	rows, err := FromURL(context.Background(), &fakeFetcher{body: []byte("a,b\n")}, "u")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFromFileDispatch(t *testing.T) {
	assert.True(t, IsWorkbook("Report.XLSX"))
	assert.False(t, IsWorkbook("report.csv"))
	assert.False(t, IsWorkbook("report"))

	rows, err := FromFile("export.csv", []byte(longCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"stage", "metric", "w3"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"مرحلة التسمية", "عدد الساعات", 6}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err = FromFile("backup.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, [4]float64{0, 0, 6, 0}, rows[0].Weeks)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(longCSV), 0o644))
	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, progress.ErrRetrieval)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLegacyWorkbookRejected(t *testing.T) {
	_, err := FromFile("Report.XLS", []byte{0xD0, 0xCF, 0x11, 0xE0})
	require.Error(t, err)
	assert.ErrorIs(t, err, progress.ErrMalformedInput)
	assert.Contains(t, err.Error(), "save as .xlsx")
}
