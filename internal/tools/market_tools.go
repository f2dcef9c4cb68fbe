package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/dataflows"
	"stock-research/internal/models"
)

// timeframeLimits maps a timeframe to the number of candles it keeps.
var timeframeLimits = map[string]int{
	"1D": 1,
	"1W": 5,
	"1M": 22,
	"3M": 66,
	"1Y": 252,
	"5Y": 1260,
}

// NewQuoteTool returns the real-time quote tool. Alpha Vantage is the primary
// source; Yahoo serves as the fallback when no key is configured.
func NewQuoteTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_quote",
			Desc: "Get real-time quote for a stock including price, change, volume and OHLC",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ticker": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.TickerInput) (*models.Quote, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "quote:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLQuote, func(ctx context.Context) (*models.Quote, error) {
				raw, err := d.AlphaVantage.GetQuote(ctx, ticker)
				if err != nil {
					if errors.Is(err, dataflows.ErrNotConfigured) {
						return d.Yahoo.GetQuote(ctx, ticker)
					}
					return nil, err
				}

				return &models.Quote{
					Ticker:           ticker,
					Price:            parseFloat(raw.Price),
					Change:           parseFloat(raw.Change),
					ChangePercent:    strings.TrimSuffix(raw.ChangePercent, "%"),
					Open:             parseFloat(raw.Open),
					High:             parseFloat(raw.High),
					Low:              parseFloat(raw.Low),
					PrevClose:        parseFloat(raw.PreviousClose),
					Volume:           parseInt(raw.Volume),
					LatestTradingDay: raw.LatestTradingDay,
				}, nil
			})
		},
	)
}

// NewHistoricalPricesTool returns the OHLCV history tool.
func NewHistoricalPricesTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_historical_prices",
			Desc: "Get historical OHLCV candles for a stock over a timeframe",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ticker": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
					Required: true,
				},
				"timeframe": {
					Type: "string",
					Desc: "Time range: '1D', '1W', '1M', '3M', '1Y', '5Y' (default '1M')",
				},
				"interval": {
					Type: "string",
					Desc: "Data interval: '1min', '5min', '15min', '30min', '60min', '1day' (default '1day')",
				},
			}),
		},
		func(ctx context.Context, input models.HistoricalPricesInput) (*models.HistoricalPrices, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			timeframe := input.Timeframe
			if timeframe == "" {
				timeframe = "1M"
			}
			interval := input.Interval
			if interval == "" {
				interval = "1day"
			}

			key := fmt.Sprintf("historical:%s:%s:%s", ticker, timeframe, interval)
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLTechnicals, func(ctx context.Context) (*models.HistoricalPrices, error) {
				candles, err := fetchCandles(ctx, d, ticker, timeframe, interval)
				if err != nil {
					return nil, err
				}

				limit, ok := timeframeLimits[timeframe]
				if !ok {
					limit = timeframeLimits["1M"]
				}
				if len(candles) > limit {
					candles = candles[:limit]
				}

				return &models.HistoricalPrices{
					Ticker:    ticker,
					Timeframe: timeframe,
					Interval:  interval,
					Candles:   candles,
				}, nil
			})
		},
	)
}

// fetchCandles pulls candles from Alpha Vantage, falling back to Yahoo daily
// history when no key is configured. Intraday intervals have no fallback.
func fetchCandles(ctx context.Context, d *Deps, ticker, timeframe, interval string) ([]models.Candle, error) {
	outputsize := "compact"
	if timeframe == "1Y" || timeframe == "5Y" {
		outputsize = "full"
	}

	if interval == "1day" {
		candles, err := d.AlphaVantage.GetDailyCandles(ctx, ticker, outputsize)
		if err != nil {
			if errors.Is(err, dataflows.ErrNotConfigured) {
				days := timeframeLookbackDays(timeframe)
				return d.Yahoo.GetDailyCandles(ctx, ticker, days)
			}
			return nil, err
		}
		return candles, nil
	}
	return d.AlphaVantage.GetIntradayCandles(ctx, ticker, interval, outputsize)
}

// timeframeLookbackDays converts a timeframe into a calendar-day span wide
// enough to cover its trading-day candle limit.
func timeframeLookbackDays(timeframe string) int {
	switch timeframe {
	case "1D":
		return 5
	case "1W":
		return 10
	case "1M":
		return 45
	case "3M":
		return 120
	case "1Y":
		return 380
	case "5Y":
		return 1900
	default:
		return 45
	}
}
