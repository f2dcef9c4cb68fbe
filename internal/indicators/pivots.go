package indicators

// Pivots holds classic floor-trader pivot levels derived from the previous
// session's high, low and close.
type Pivots struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
	S3    float64 `json:"s3"`
}

// PivotPoints computes the classic pivot formulas. All levels are rounded to
// 2 decimal places.
func PivotPoints(high, low, close float64) Pivots {
	pivot := (high + low + close) / 3
	return Pivots{
		Pivot: round2(pivot),
		R1:    round2(2*pivot - low),
		R2:    round2(pivot + (high - low)),
		R3:    round2(high + 2*(pivot-low)),
		S1:    round2(2*pivot - high),
		S2:    round2(pivot - (high - low)),
		S3:    round2(low - 2*(high-pivot)),
	}
}
