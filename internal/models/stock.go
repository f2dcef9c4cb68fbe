package models

// TickerInput is the input for tools that take a single stock symbol.
type TickerInput struct {
	Ticker string `json:"ticker"`
}

// Candle is one OHLCV bar.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Quote is a normalized real-time quote.
type Quote struct {
	Ticker           string  `json:"ticker"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"change_percent"`
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	PrevClose        float64 `json:"prev_close"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
}

type HistoricalPricesInput struct {
	Ticker    string `json:"ticker"`
	Timeframe string `json:"timeframe"`
	Interval  string `json:"interval"`
}

type HistoricalPrices struct {
	Ticker    string   `json:"ticker"`
	Timeframe string   `json:"timeframe"`
	Interval  string   `json:"interval"`
	Candles   []Candle `json:"candles"`
}
