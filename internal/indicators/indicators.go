// Package indicators implements the technical indicator calculations used by
// the technicals tools. All functions are pure and operate on closing prices
// ordered most-recent-first (index 0 is the newest sample); forward-time
// recurrences reverse the input internally. Insufficient history is reported
// through the boolean return, never as an error.
package indicators

import "math"

// SMA returns the simple moving average of the period most recent closes,
// rounded to 2 decimal places. ok is false when the series is shorter than
// the period.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	return round2(mean(closes[:period])), true
}

// EMA returns the exponential moving average over the full series, rounded to
// 2 decimal places. The seed is the simple average of the oldest period
// values, then the standard recurrence is applied forward through the newer
// values. The SMA seed matters: it fixes the numeric trajectory.
func EMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}

	chron := reversed(closes)
	multiplier := 2.0 / float64(period+1)

	ema := mean(chron[:period])
	for _, price := range chron[period:] {
		ema = price*multiplier + ema*(1-multiplier)
	}
	return round2(ema), true
}

// RSI returns the Wilder-smoothed Relative Strength Index, rounded to 2
// decimal places. Requires at least period+1 closes. A series with no losses
// yields exactly 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	chron := reversed(closes)

	gains := make([]float64, 0, len(chron)-1)
	losses := make([]float64, 0, len(chron)-1)
	for i := 1; i < len(chron); i++ {
		change := chron[i] - chron[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := mean(gains[:period])
	avgLoss := mean(losses[:period])

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, true
	}
	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs)), true
}

// MACDResult holds the latest MACD line, signal line and histogram values.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes the Moving Average Convergence Divergence from the full fast
// and slow EMA trajectories. Requires at least slow+signal closes; the slow
// trajectory starts slow-fast samples after the fast one and the MACD line is
// their elementwise difference wherever both are defined. The signal line is
// the SMA-seeded EMA of the MACD line. Values are rounded to 4 decimal places.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (MACDResult, bool) {
	if fastPeriod <= 0 || slowPeriod <= fastPeriod || signalPeriod <= 0 {
		return MACDResult{}, false
	}
	if len(closes) < slowPeriod+signalPeriod {
		return MACDResult{}, false
	}

	chron := reversed(closes)
	fastEMAs := emaTrajectory(chron, fastPeriod)
	slowEMAs := emaTrajectory(chron, slowPeriod)

	// fastEMAs[i] aligns with chron index fastPeriod-1+i, so the slow
	// trajectory trails the fast one by slowPeriod-fastPeriod samples.
	offset := slowPeriod - fastPeriod
	macdLine := make([]float64, len(slowEMAs))
	for i := range slowEMAs {
		macdLine[i] = fastEMAs[i+offset] - slowEMAs[i]
	}

	if len(macdLine) < signalPeriod {
		return MACDResult{}, false
	}

	multiplier := 2.0 / float64(signalPeriod+1)
	signal := mean(macdLine[:signalPeriod])
	for _, v := range macdLine[signalPeriod:] {
		signal = v*multiplier + signal*(1-multiplier)
	}

	macd := macdLine[len(macdLine)-1]
	return MACDResult{
		MACD:      round4(macd),
		Signal:    round4(signal),
		Histogram: round4(macd - signal),
	}, true
}

// Bands holds Bollinger Band values.
type Bands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// BollingerBands computes the volatility envelope over the period most recent
// closes: middle is the SMA, the band width is width population standard
// deviations. All values rounded to 2 decimal places.
func BollingerBands(closes []float64, period int, width float64) (Bands, bool) {
	if period <= 0 || len(closes) < period {
		return Bands{}, false
	}

	window := closes[:period]
	middle := mean(window)

	var variance float64
	for _, p := range window {
		diff := p - middle
		variance += diff * diff
	}
	variance /= float64(period)
	sigma := math.Sqrt(variance)

	return Bands{
		Upper:  round2(middle + width*sigma),
		Middle: round2(middle),
		Lower:  round2(middle - width*sigma),
	}, true
}

// emaTrajectory returns the full forward EMA series over chronologically
// ordered values: the first element is the SMA seed at index period-1, each
// following element advances the recurrence by one sample.
func emaTrajectory(chron []float64, period int) []float64 {
	multiplier := 2.0 / float64(period+1)
	ema := mean(chron[:period])
	out := make([]float64, 0, len(chron)-period+1)
	out = append(out, ema)
	for _, price := range chron[period:] {
		ema = price*multiplier + ema*(1-multiplier)
		out = append(out, ema)
	}
	return out
}

func reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
