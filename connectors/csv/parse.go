package csv

import (
	"regexp"
	"strings"

	"stage-dashboard/domain/progress"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Parse reads comma-delimited text into a table. Blank lines are dropped and the first
// remaining line is the header row. Text without a data row yields an empty table.
//
// Quotes only group within a line; a quoted field cannot span a line break.
func Parse(text string) progress.RawTable {
	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return progress.RawTable{}
	}
	t := progress.RawTable{
		Headers: SplitLine(lines[0]),
		Rows:    make([][]string, 0, len(lines)-1),
	}
	for _, l := range lines[1:] {
		t.Rows = append(t.Rows, SplitLine(l))
	}
	return t
}

// ParseBytes is Parse for a raw response or file body.
func ParseBytes(b []byte) progress.RawTable { return Parse(string(b)) }

// SplitLine splits one line on commas outside quotes. A doubled quote inside quotes is a
// literal quote; any other quote toggles quoting. Fields are trimmed.
func SplitLine(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(out, strings.TrimSpace(cur.String()))
}
