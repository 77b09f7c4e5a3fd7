// Package excel decodes uploaded workbooks into the same table shape the CSV parser yields.
package excel

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"stage-dashboard/domain/progress"

	"github.com/xuri/excelize/v2"
)

// Decode reads the first sheet of a workbook. The first row holds the headers; rows
// with no content are skipped. A workbook without sheets is malformed input.
func Decode(r io.Reader) (progress.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return progress.RawTable{}, &progress.MalformedInputError{Reason: fmt.Sprintf("cannot open workbook: %v", err)}
	}
	defer f.Close()
	return decodeFile(f)
}

func decodeFile(f *excelize.File) (progress.RawTable, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return progress.RawTable{}, &progress.MalformedInputError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return progress.RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	slog.Debug("excel.sheet.read", "sheet", sheets[0], "rows", len(rows))

	var t progress.RawTable
	for _, row := range rows {
		if blank(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if t.Headers == nil {
			t.Headers = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if len(t.Rows) == 0 {
		return progress.RawTable{}, nil
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
