package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"stage-dashboard/domain/progress"
)

// SnapshotHeaders is the wide layout written by WriteRows; it normalizes back unchanged.
var SnapshotHeaders = []string{"stage", "metric", "week1", "w2", "w3", "w4"}

// WriteRows writes a snapshot of normalized rows.
func WriteRows(path string, rows []progress.NormalizedRow) error {
	return writeFile(path, SnapshotHeaders, func(w *csv.Writer) error {
		for _, r := range rows {
			row := []string{progress.CleanLabel(r.Stage), progress.CleanLabel(r.Metric), num(r.Weeks[0]), num(r.Weeks[1]), num(r.Weeks[2]), num(r.Weeks[3])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteView writes every dashboard section into dir, one CSV per chart.
func WriteView(dir string, v progress.View) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteKPIs(filepath.Join(dir, "kpis.csv"), v); err != nil {
		return err
	}
	if err := WriteWordsByWeek(filepath.Join(dir, "words_by_week.csv"), v.WordsByWeek); err != nil {
		return err
	}
	if err := WritePeopleHours(filepath.Join(dir, "people_hours_by_stage.csv"), v.PeopleHours); err != nil {
		return err
	}
	if err := WriteStacked(filepath.Join(dir, "words_stage_by_week.csv"), v.StackSeries, v.Stacked); err != nil {
		return err
	}
	if err := WriteDonut(filepath.Join(dir, "words_by_stage.csv"), v.Donut); err != nil {
		return err
	}
	return WriteTable(filepath.Join(dir, "table.csv"), v.Table)
}

func WriteKPIs(path string, v progress.View) error {
	return writeFile(path, []string{"kpi", "value", "stage", "week"}, func(w *csv.Writer) error {
		kpis := []struct {
			name  string
			value float64
			stage string
		}{
			{"words", v.Totals.Words, v.Filter.Stage},
			{"hours", v.Totals.Hours, v.Filter.Stage},
			{"people", v.Totals.People, v.Filter.Stage},
			// The video KPI always reads the fixed video stage.
			{"videos", v.Totals.Videos, ""},
		}
		for _, k := range kpis {
			if err := w.Write([]string{k.name, num(k.value), k.stage, v.Week}); err != nil {
				return err
			}
		}
		return nil
	})
}

func WriteWordsByWeek(path string, points []progress.WeekPoint) error {
	return writeFile(path, []string{"week", "value", "color"}, func(w *csv.Writer) error {
		for _, p := range points {
			if err := w.Write([]string{p.Week, num(p.Value), string(p.Color)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func WritePeopleHours(path string, bars []progress.StageBar) error {
	headers := []string{"stage", "label", "people", "people_color", "hours", "hours_color"}
	return writeFile(path, headers, func(w *csv.Writer) error {
		for _, b := range bars {
			row := []string{b.Stage, b.Label, num(b.People), string(b.PeopleColor), num(b.Hours), string(b.HoursColor)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteStacked writes one column per stage, in series order.
func WriteStacked(path string, series []progress.StageSeries, weeks []progress.StackedWeek) error {
	headers := []string{"week"}
	for _, s := range series {
		headers = append(headers, s.Stage)
	}
	return writeFile(path, headers, func(w *csv.Writer) error {
		for _, wk := range weeks {
			row := []string{wk.Week}
			for _, s := range series {
				row = append(row, num(wk.Values[s.Stage]))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func WriteDonut(path string, slices []progress.Slice) error {
	return writeFile(path, []string{"stage", "name", "value", "color"}, func(w *csv.Writer) error {
		for _, s := range slices {
			if err := w.Write([]string{s.Stage, s.Name, num(s.Value), string(s.Color)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func WriteTable(path string, rows []progress.TableRow) error {
	headers := append(append([]string{}, SnapshotHeaders...), "total")
	return writeFile(path, headers, func(w *csv.Writer) error {
		for _, r := range rows {
			row := []string{progress.CleanLabel(r.Stage), progress.CleanLabel(r.Metric), num(r.Week1), num(r.W2), num(r.W3), num(r.W4), num(r.Total)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, headers []string, body func(*csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SnapshotPath is where import writes a dataset and calculate/web read it back.
func SnapshotPath(dataDir, dataset string) string {
	return filepath.Join(dataDir, dataset, "rows.csv")
}
