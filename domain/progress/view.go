package progress

import (
	"strings"

	"github.com/montanaflynn/stats"
	lo "github.com/samber/lo"
)

// Filter is the user's current selection.
type Filter struct {
	Stage string   `json:"stage"`
	Week  WeekSlot `json:"-"`
}

// Metrics names the indicators the KPI cards and charts read.
type Metrics struct {
	Words  string `yaml:"words" json:"words"`
	Hours  string `yaml:"hours" json:"hours"`
	People string `yaml:"people" json:"people"`
}

// Options holds the dashboard constants that come from configuration.
type Options struct {
	PreferredStages []string
	VideoStage      string
	VideoMarker     string
	StagePrefix     string
	Metrics         Metrics
}

// DefaultOptions mirrors the project sheet the dashboard was built for.
func DefaultOptions() Options {
	return Options{
		PreferredStages: []string{"مرحلة التصوير", "مرحلة التسمية", "مرحلة المراجعة والتدقيق"},
		VideoStage:      "مرحلة التصوير",
		VideoMarker:     "فيديو",
		StagePrefix:     "مرحلة ",
		Metrics: Metrics{
			Words:  "عدد الكلمات",
			Hours:  "عدد الساعات",
			People: "عدد الأشخاص",
		},
	}
}

type Totals struct {
	Words  float64 `json:"words"`
	Hours  float64 `json:"hours"`
	People float64 `json:"people"`
	Videos float64 `json:"videos"`
}

type WeekPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
	Color Color   `json:"color"`
}

type StageBar struct {
	Stage       string  `json:"stage"`
	Label       string  `json:"label"`
	People      float64 `json:"people"`
	PeopleColor Color   `json:"peopleColor"`
	Hours       float64 `json:"hours"`
	HoursColor  Color   `json:"hoursColor"`
}

type StackedWeek struct {
	Week   string             `json:"week"`
	Values map[string]float64 `json:"values"`
}

type StageSeries struct {
	Stage string `json:"stage"`
	Label string `json:"label"`
	Color Color  `json:"color"`
}

type Slice struct {
	Stage string  `json:"stage"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color Color   `json:"color"`
}

type TableRow struct {
	Stage  string  `json:"stage"`
	Metric string  `json:"metric"`
	Week1  float64 `json:"week1"`
	W2     float64 `json:"w2"`
	W3     float64 `json:"w3"`
	W4     float64 `json:"w4"`
	Total  float64 `json:"total"`
}

func tableRow(r NormalizedRow) TableRow {
	return TableRow{
		Stage:  r.Stage,
		Metric: r.Metric,
		Week1:  r.Weeks[Week1],
		W2:     r.Weeks[Week2],
		W3:     r.Weeks[Week3],
		W4:     r.Weeks[Week4],
		Total:  r.Total(),
	}
}

// Summary describes a chart series for legends and tooltips.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// View is everything the dashboard renders for one filter selection.
type View struct {
	Filter      Filter        `json:"filter"`
	Week        string        `json:"week"`
	Stages      []string      `json:"stages"`
	Totals      Totals        `json:"totals"`
	WordsByWeek []WeekPoint   `json:"wordsByWeek"`
	PeopleHours []StageBar    `json:"peopleHoursByStage"`
	Stacked     []StackedWeek `json:"wordsStageByWeek"`
	StackSeries []StageSeries `json:"stackSeries"`
	// Donut is only meaningful across all stages; it is empty otherwise.
	Donut     []Slice            `json:"wordsByStage"`
	DonutOpen bool               `json:"wordsByStageAvailable"`
	Table     []TableRow         `json:"table"`
	Summaries map[string]Summary `json:"summaries"`
}

// BuildView derives every KPI, series and color assignment for f over rows.
func BuildView(rows []NormalizedRow, f Filter, opt Options) View {
	if f.Stage == "" {
		f.Stage = AllStages
	}
	stages := DistinctStages(rows, opt.PreferredStages)
	only := stages[1:]
	filtered := FilterByStage(rows, f.Stage)

	v := View{
		Filter:    f,
		Week:      f.Week.String(),
		Stages:    stages,
		DonutOpen: f.Stage == AllStages,
		Summaries: map[string]Summary{},
	}

	v.Totals = Totals{
		Words:  SumByMetric(filtered, opt.Metrics.Words, f.Week),
		Hours:  SumByMetric(filtered, opt.Metrics.Hours, f.Week),
		People: SumByMetric(filtered, opt.Metrics.People, f.Week),
		Videos: VideoTotal(rows, opt.VideoStage, opt.VideoMarker, f.Week),
	}

	byWeek := SumByWeek(filtered, opt.Metrics.Words)
	lineColor := ColorBand(byWeek[:])
	for _, s := range Slots {
		v.WordsByWeek = append(v.WordsByWeek, WeekPoint{Week: s.String(), Value: byWeek[s], Color: lineColor(byWeek[s])})
	}
	v.Summaries["wordsByWeek"] = summarize(byWeek[:])

	v.PeopleHours = lo.Map(only, func(st string, _ int) StageBar {
		return StageBar{
			Stage:  st,
			Label:  stageLabel(st, opt.StagePrefix),
			People: WeekValue(FindRow(rows, st, opt.Metrics.People), f.Week),
			Hours:  WeekValue(FindRow(rows, st, opt.Metrics.Hours), f.Week),
		}
	})
	people := lo.Map(v.PeopleHours, func(b StageBar, _ int) float64 { return b.People })
	hours := lo.Map(v.PeopleHours, func(b StageBar, _ int) float64 { return b.Hours })
	peopleColor, hoursColor := ColorBand(people), ColorBand(hours)
	for i := range v.PeopleHours {
		v.PeopleHours[i].PeopleColor = peopleColor(v.PeopleHours[i].People)
		v.PeopleHours[i].HoursColor = hoursColor(v.PeopleHours[i].Hours)
	}
	v.Summaries["people"] = summarize(people)
	v.Summaries["hours"] = summarize(hours)

	for i, st := range only {
		v.StackSeries = append(v.StackSeries, StageSeries{
			Stage: st,
			Label: stageLabel(st, opt.StagePrefix),
			Color: StagePalette[i%len(StagePalette)],
		})
	}
	for _, s := range Slots {
		sw := StackedWeek{Week: s.String(), Values: make(map[string]float64, len(only))}
		for _, st := range only {
			sw.Values[st] = WeekValue(FindRow(rows, st, opt.Metrics.Words), s)
		}
		v.Stacked = append(v.Stacked, sw)
	}

	if v.DonutOpen {
		v.Donut = lo.Map(only, func(st string, _ int) Slice {
			return Slice{Stage: st, Name: stageLabel(st, opt.StagePrefix), Value: WeekValue(FindRow(rows, st, opt.Metrics.Words), f.Week)}
		})
		values := lo.Map(v.Donut, func(s Slice, _ int) float64 { return s.Value })
		donutColor := ColorBand(values)
		for i := range v.Donut {
			v.Donut[i].Color = donutColor(v.Donut[i].Value)
		}
		v.Summaries["wordsByStage"] = summarize(values)
	}

	v.Table = lo.Map(filtered, func(r NormalizedRow, _ int) TableRow { return tableRow(r) })
	return v
}

func stageLabel(stage, prefix string) string {
	if prefix == "" {
		return stage
	}
	return strings.Replace(stage, prefix, "", 1)
}

// summarize reports zeros for an empty series.
func summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	data := stats.LoadRawData(series)
	lowest, _ := data.Min()
	highest, _ := data.Max()
	mean, _ := data.Mean()
	median, _ := data.Median()
	return Summary{Min: lowest, Max: highest, Mean: mean, Median: median}
}
