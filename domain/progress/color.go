package progress

import (
	"math"
	"sort"
)

// Color is a CSS hex color.
type Color string

// Band colors, lowest to highest.
const (
	BandLow  Color = "#ef4444"
	BandMid1 Color = "#f97316"
	BandMid2 Color = "#3b82f6"
	BandHigh Color = "#22c55e"
)

// StagePalette colors stacked-series stages; it cycles when there are more stages.
var StagePalette = []Color{"#059669", "#10b981", "#34d399", "#06b6d4", "#3b82f6", "#a855f7"}

// Quantile estimates q (0..1) over an ascending series by linear interpolation between
// the two closest ranks. It returns 0 for an empty series.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := float64(len(sorted)-1) * q
	base := int(math.Floor(pos))
	if base+1 >= len(sorted) {
		return sorted[base]
	}
	rest := pos - float64(base)
	return sorted[base] + rest*(sorted[base+1]-sorted[base])
}

// ColorBand classifies values against the quartiles of series. An empty series
// classifies everything as BandHigh. Non-finite inputs are ignored.
func ColorBand(series []float64) func(float64) Color {
	nums := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			nums = append(nums, v)
		}
	}
	if len(nums) == 0 {
		return func(float64) Color { return BandHigh }
	}
	sort.Float64s(nums)
	q1, q2, q3 := Quantile(nums, 0.25), Quantile(nums, 0.5), Quantile(nums, 0.75)

	return func(v float64) Color {
		v = finite(v)
		switch {
		case v <= q1:
			return BandLow
		case v <= q2:
			return BandMid1
		case v <= q3:
			return BandMid2
		}
		return BandHigh
	}
}
