package models

type TechnicalIndicatorsInput struct {
	Ticker     string   `json:"ticker"`
	Indicators []string `json:"indicators"`
}

// Per-indicator sections. A section carries Error instead of values when the
// underlying price data could not be fetched; missing lookback leaves the
// affected fields nil.

type SMAValues struct {
	SMA20  *float64 `json:"sma_20"`
	SMA50  *float64 `json:"sma_50"`
	SMA200 *float64 `json:"sma_200"`
	Error  string   `json:"error,omitempty"`
}

type EMAValues struct {
	EMA12 *float64 `json:"ema_12"`
	EMA26 *float64 `json:"ema_26"`
	Error string   `json:"error,omitempty"`
}

type RSIValues struct {
	RSI14  *float64 `json:"rsi_14"`
	Signal string   `json:"signal"`
	Error  string   `json:"error,omitempty"`
}

type MACDValues struct {
	MACD      *float64 `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
	Trend     string   `json:"trend"`
	Error     string   `json:"error,omitempty"`
}

type BollingerValues struct {
	Upper  *float64 `json:"upper"`
	Middle *float64 `json:"middle"`
	Lower  *float64 `json:"lower"`
	Error  string   `json:"error,omitempty"`
}

type TechnicalIndicators struct {
	Ticker string           `json:"ticker"`
	SMA    *SMAValues       `json:"sma,omitempty"`
	EMA    *EMAValues       `json:"ema,omitempty"`
	RSI    *RSIValues       `json:"rsi,omitempty"`
	MACD   *MACDValues      `json:"macd,omitempty"`
	BBands *BollingerValues `json:"bbands,omitempty"`
	Trend  string           `json:"trend"`
}

type SupportResistanceInput struct {
	Ticker       string `json:"ticker"`
	LookbackDays int    `json:"lookback_days"`
}

type SupportResistanceLevels struct {
	Ticker            string    `json:"ticker"`
	CurrentPrice      float64   `json:"current_price"`
	SupportLevels     []float64 `json:"support_levels"`
	ResistanceLevels  []float64 `json:"resistance_levels"`
	NearestSupport    *float64  `json:"nearest_support"`
	NearestResistance *float64  `json:"nearest_resistance"`
	CurrentPosition   string    `json:"current_position"`
	LookbackDays      int       `json:"lookback_days"`
	Error             string    `json:"error,omitempty"`
}
