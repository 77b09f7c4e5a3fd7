// Package ingest turns a source (feed URL, uploaded file) into normalized rows.
package ingest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	ccsv "stage-dashboard/connectors/csv"
	"stage-dashboard/connectors/excel"
	"stage-dashboard/domain/progress"
)

// Fetcher retrieves the bytes behind a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

var workbookExt = map[string]bool{".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true}

// IsWorkbook reports whether name is decoded as a workbook rather than as delimited text.
func IsWorkbook(name string) bool {
	return workbookExt[strings.ToLower(filepath.Ext(name))]
}

// FromURL fetches a published feed and normalizes it.
func FromURL(ctx context.Context, f Fetcher, rawURL string) ([]progress.NormalizedRow, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return progress.Normalize(ccsv.ParseBytes(body))
}

// FromFile normalizes file content, choosing the decoder from the file name.
func FromFile(name string, data []byte) ([]progress.NormalizedRow, error) {
	table, err := Table(name, data)
	if err != nil {
		return nil, err
	}
	return progress.Normalize(table)
}

// Table decodes file content without normalizing it.
func Table(name string, data []byte) (progress.RawTable, error) {
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		return progress.RawTable{}, &progress.MalformedInputError{Reason: "legacy .xls not supported, save as .xlsx"}
	}
	if IsWorkbook(name) {
		return excel.Decode(bytes.NewReader(data))
	}
	return ccsv.ParseBytes(data), nil
}

// ReadFile reads and normalizes a local file.
func ReadFile(path string) ([]progress.NormalizedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &progress.RetrievalError{Source: path, Err: err}
	}
	return FromFile(filepath.Base(path), data)
}
