package indicators

import (
	"math"
	"testing"
)

// testCloses is a 20-sample series ordered most-recent-first.
var testCloses = []float64{
	110.5, 109.0, 111.2, 108.7, 107.9, 109.4, 106.2, 105.8, 107.1, 104.9,
	103.5, 105.0, 102.8, 101.9, 103.3, 100.7, 99.8, 101.2, 98.5, 97.9,
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
		wantOK bool
	}{
		{"five period", testCloses, 5, 109.46, true},
		{"full window", testCloses, 20, 104.77, true},
		{"insufficient data", testCloses[:4], 5, 0, false},
		{"empty series", nil, 5, 0, false},
		{"single value", []float64{42.0}, 1, 42.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SMA(tt.closes, tt.period)
			if ok != tt.wantOK {
				t.Fatalf("SMA ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("SMA = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
		wantOK bool
	}{
		{"five period", testCloses, 5, 109.43, true},
		{"twelve period", testCloses, 12, 107.29, true},
		{"insufficient data", testCloses[:11], 12, 0, false},
		{"exact length equals sma seed", []float64{12.0, 10.0, 8.0}, 3, 10.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EMA(tt.closes, tt.period)
			if ok != tt.wantOK {
				t.Fatalf("EMA ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("EMA = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
		wantOK bool
	}{
		{"fourteen period", testCloses, 14, 69.63, true},
		{"five period", testCloses, 5, 66.2, true},
		{"needs period plus one", testCloses[:14], 14, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RSI(tt.closes, tt.period)
			if ok != tt.wantOK {
				t.Fatalf("RSI ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("RSI = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	// Strictly rising prices, newest first.
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(120 - i)
	}

	got, ok := RSI(rising, 14)
	if !ok {
		t.Fatal("RSI returned not ok")
	}
	if got != 100.0 {
		t.Errorf("RSI = %v, want exactly 100", got)
	}
}

func TestRSIBounds(t *testing.T) {
	series := [][]float64{
		testCloses,
		{50, 51, 49, 52, 48, 53, 47, 54, 46, 55, 45, 56, 44, 57, 43, 58},
	}
	for _, closes := range series {
		got, ok := RSI(closes, 14)
		if !ok {
			t.Fatal("RSI returned not ok")
		}
		if got < 0 || got > 100 {
			t.Errorf("RSI = %v, out of [0, 100]", got)
		}
	}
}

func TestMACD(t *testing.T) {
	got, ok := MACD(testCloses, 5, 10, 4)
	if !ok {
		t.Fatal("MACD returned not ok")
	}
	want := MACDResult{MACD: 1.4869, Signal: 1.577, Histogram: -0.0901}
	if got != want {
		t.Errorf("MACD = %+v, want %+v", got, want)
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	got, ok := MACD(testCloses, 5, 10, 4)
	if !ok {
		t.Fatal("MACD returned not ok")
	}
	if diff := math.Abs(got.Histogram - (got.MACD - got.Signal)); diff > 0.0001 {
		t.Errorf("histogram %v differs from macd-signal %v", got.Histogram, got.MACD-got.Signal)
	}
}

func TestMACDInsufficientData(t *testing.T) {
	// Needs slow+signal samples.
	if _, ok := MACD(testCloses[:13], 5, 10, 4); ok {
		t.Error("expected not ok with 13 samples for MACD(5,10,4)")
	}
	if _, ok := MACD(testCloses[:14], 5, 10, 4); !ok {
		t.Error("expected ok with exactly 14 samples for MACD(5,10,4)")
	}
}

func TestBollingerBands(t *testing.T) {
	got, ok := BollingerBands(testCloses, 10, 2)
	if !ok {
		t.Fatal("BollingerBands returned not ok")
	}
	want := Bands{Upper: 111.99, Middle: 108.07, Lower: 104.15}
	if got != want {
		t.Errorf("BollingerBands = %+v, want %+v", got, want)
	}
}

func TestBollingerBandsOrdering(t *testing.T) {
	got, ok := BollingerBands(testCloses, 10, 2)
	if !ok {
		t.Fatal("BollingerBands returned not ok")
	}
	if got.Lower > got.Middle || got.Middle > got.Upper {
		t.Errorf("bands out of order: %+v", got)
	}
}

func TestBollingerBandsFlatSeries(t *testing.T) {
	flat := make([]float64, 10)
	for i := range flat {
		flat[i] = 100.0
	}
	got, ok := BollingerBands(flat, 10, 2)
	if !ok {
		t.Fatal("BollingerBands returned not ok")
	}
	if got.Upper != 100.0 || got.Middle != 100.0 || got.Lower != 100.0 {
		t.Errorf("flat series should collapse bands, got %+v", got)
	}
}

func TestBollingerBandsInsufficientData(t *testing.T) {
	if _, ok := BollingerBands(testCloses[:9], 10, 2); ok {
		t.Error("expected not ok with 9 samples for a 10 period window")
	}
}

func TestPivotPoints(t *testing.T) {
	got := PivotPoints(112.4, 105.1, 110.2)
	want := Pivots{
		Pivot: 109.23,
		R1:    113.37, R2: 116.53, R3: 120.67,
		S1: 106.07, S2: 101.93, S3: 98.77,
	}
	if got != want {
		t.Errorf("PivotPoints = %+v, want %+v", got, want)
	}
}

func TestPivotPointsOrdering(t *testing.T) {
	got := PivotPoints(112.4, 105.1, 110.2)
	if !(got.S3 < got.S2 && got.S2 < got.S1 && got.S1 < got.Pivot &&
		got.Pivot < got.R1 && got.R1 < got.R2 && got.R2 < got.R3) {
		t.Errorf("pivot levels out of order: %+v", got)
	}
}

func TestSupportResistance(t *testing.T) {
	highs := []float64{
		101.0, 103.5, 102.0, 101.5, 100.8, 104.2, 103.0, 102.5, 101.0, 103.4,
		102.2, 101.8, 100.5, 105.1, 104.0, 103.2, 102.0, 101.5, 100.9, 100.2,
	}
	lows := []float64{
		99.0, 98.5, 97.2, 99.1, 98.0, 96.5, 97.8, 98.2, 96.9, 95.5,
		97.0, 96.2, 95.8, 94.9, 96.1, 95.2, 94.5, 95.9, 96.8, 97.3,
	}

	supports, resistances := SupportResistance(highs, lows, LevelClusterThreshold)

	wantSupports := []float64{95.72}
	wantResistances := []float64{104.23}
	assertLevels(t, "supports", supports, wantSupports)
	assertLevels(t, "resistances", resistances, wantResistances)
}

func TestSupportResistanceClustering(t *testing.T) {
	// The pivot highs near 102 cluster into one averaged level; the outlier
	// at 110 stays separate. Same shape on the low side. The spikes at index
	// 1 sit inside the edge window and are not pivots.
	highs := []float64{100, 102.0, 100, 100, 100, 102.1, 100, 100, 100, 102.05, 100, 100, 100, 110.0, 100, 100}
	lows := []float64{90, 88.0, 90, 90, 90, 88.2, 90, 90, 90, 88.1, 90, 90, 90, 80.0, 90, 90}

	supports, resistances := SupportResistance(highs, lows, LevelClusterThreshold)

	assertLevels(t, "supports", supports, []float64{88.15, 80.0})
	assertLevels(t, "resistances", resistances, []float64{102.07, 110.0})
}

func TestSupportResistanceEmpty(t *testing.T) {
	supports, resistances := SupportResistance(nil, nil, LevelClusterThreshold)
	if supports != nil || resistances != nil {
		t.Errorf("expected nil lists for empty input, got %v, %v", supports, resistances)
	}

	// Too short for any interior pivot.
	flat := []float64{100, 100, 100, 100}
	supports, resistances = SupportResistance(flat, flat, LevelClusterThreshold)
	if supports != nil || resistances != nil {
		t.Errorf("expected nil lists for short input, got %v, %v", supports, resistances)
	}
}

func assertLevels(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}
