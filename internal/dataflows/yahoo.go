package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	"stock-research/internal/models"
)

// YahooClient serves quotes and daily history from Yahoo Finance. It needs no
// API key and acts as the fallback source when Alpha Vantage is not
// configured.
type YahooClient struct {
	retry  *RetryConfig
	logger zerolog.Logger
}

func NewYahooClient(logger zerolog.Logger) *YahooClient {
	return &YahooClient{
		retry:  DefaultRetryConfig(),
		logger: logger.With().Str("provider", "yahoo").Logger(),
	}
}

// GetQuote fetches the current quote for symbol.
func (yc *YahooClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result *models.Quote
	err := WithRetry(ctx, yc.retry, func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("yahoo quote %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("yahoo quote %s: no data", symbol)
		}

		result = &models.Quote{
			Ticker:           symbol,
			Price:            q.RegularMarketPrice,
			Change:           q.RegularMarketChange,
			ChangePercent:    fmt.Sprintf("%.4f", q.RegularMarketChangePercent),
			Open:             q.RegularMarketOpen,
			High:             q.RegularMarketDayHigh,
			Low:              q.RegularMarketDayLow,
			PrevClose:        q.RegularMarketPreviousClose,
			Volume:           int64(q.RegularMarketVolume),
			LatestTradingDay: time.Unix(int64(q.RegularMarketTime), 0).UTC().Format("2006-01-02"),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetDailyCandles fetches daily bars covering the past `days` calendar days,
// most-recent-first.
func (yc *YahooClient) GetDailyCandles(ctx context.Context, symbol string, days int) ([]models.Candle, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	var candles []models.Candle
	err := WithRetry(ctx, yc.retry, func() error {
		iter := chart.Get(&chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		})

		candles = candles[:0]
		for iter.Next() {
			bar := iter.Bar()
			open, _ := bar.Open.Float64()
			high, _ := bar.High.Float64()
			low, _ := bar.Low.Float64()
			closePrice, _ := bar.Close.Float64()

			candles = append(candles, models.Candle{
				Date:   time.Unix(int64(bar.Timestamp), 0).UTC().Format("2006-01-02"),
				Open:   open,
				High:   high,
				Low:    low,
				Close:  closePrice,
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("yahoo history %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Yahoo returns oldest first.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}
