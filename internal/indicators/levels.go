package indicators

import (
	"math"
	"sort"
)

// LevelClusterThreshold is the default relative distance within which nearby
// pivot prices merge into one level.
const LevelClusterThreshold = 0.02

// SupportResistance finds support and resistance levels from local price
// pivots. Highs and lows are parallel series ordered most-recent-first. A bar
// is a pivot when it is strictly more extreme than its two neighbors on each
// side. Nearby pivots cluster into averaged levels; supports come back sorted
// descending (closest below price first) and resistances ascending. Either
// list may be nil when the series has no qualifying pivots.
func SupportResistance(highs, lows []float64, threshold float64) (supports, resistances []float64) {
	supports = clusterLevels(pivotLows(lows), threshold)
	resistances = clusterLevels(pivotHighs(highs), threshold)

	sort.Sort(sort.Reverse(sort.Float64Slice(supports)))
	sort.Float64s(resistances)
	return supports, resistances
}

func pivotHighs(highs []float64) []float64 {
	var pivots []float64
	for i := 2; i < len(highs)-2; i++ {
		if highs[i] > highs[i-1] && highs[i] > highs[i-2] &&
			highs[i] > highs[i+1] && highs[i] > highs[i+2] {
			pivots = append(pivots, highs[i])
		}
	}
	return pivots
}

func pivotLows(lows []float64) []float64 {
	var pivots []float64
	for i := 2; i < len(lows)-2; i++ {
		if lows[i] < lows[i-1] && lows[i] < lows[i-2] &&
			lows[i] < lows[i+1] && lows[i] < lows[i+2] {
			pivots = append(pivots, lows[i])
		}
	}
	return pivots
}

// clusterLevels merges prices that lie within threshold of the running
// cluster mean and returns each cluster's rounded average, most touched
// clusters first.
func clusterLevels(prices []float64, threshold float64) []float64 {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var clusters [][]float64
	current := []float64{sorted[0]}
	for _, price := range sorted[1:] {
		avg := mean(current)
		if math.Abs(price-avg)/avg <= threshold {
			current = append(current, price)
		} else {
			clusters = append(clusters, current)
			current = []float64{price}
		}
	}
	clusters = append(clusters, current)

	type level struct {
		price   float64
		touches int
	}
	levels := make([]level, 0, len(clusters))
	for _, c := range clusters {
		levels = append(levels, level{price: round2(mean(c)), touches: len(c)})
	}
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].touches > levels[j].touches })

	out := make([]float64, len(levels))
	for i, l := range levels {
		out[i] = l.price
	}
	return out
}
