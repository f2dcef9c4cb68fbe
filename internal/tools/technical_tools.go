package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/dataflows"
	"stock-research/internal/indicators"
	"stock-research/internal/models"
)

var allIndicators = []string{"sma", "ema", "rsi", "macd", "bbands"}

// NewTechnicalIndicatorsTool returns the indicator tool. Indicators are
// computed locally from daily closes rather than fetched per-indicator,
// which keeps the provider call count at one or two per refresh.
func NewTechnicalIndicatorsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_technical_indicators",
			Desc: "Get technical indicators (SMA, EMA, RSI, MACD, Bollinger Bands) with a trend summary",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ticker": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
					Required: true,
				},
				"indicators": {
					Type:     "array",
					Desc:     "Indicators to compute: 'sma', 'ema', 'rsi', 'macd', 'bbands'. Defaults to all.",
					ElemInfo: &schema.ParameterInfo{Type: "string"},
				},
			}),
		},
		func(ctx context.Context, input models.TechnicalIndicatorsInput) (*models.TechnicalIndicators, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			selected := normalizeIndicators(input.Indicators)
			key := fmt.Sprintf("technicals:%s:%s", ticker, strings.Join(selected, ","))
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLTechnicals, func(ctx context.Context) (*models.TechnicalIndicators, error) {
				closes, priceErr := fetchCloses(ctx, d, ticker, contains(selected, "sma"))
				result := computeIndicators(ticker, selected, closes, priceErr)
				return result, nil
			})
		},
	)
}

// normalizeIndicators lowercases, dedupes and sorts the selection so cache
// keys are stable. An empty selection means all indicators.
func normalizeIndicators(requested []string) []string {
	if len(requested) == 0 {
		out := make([]string, len(allIndicators))
		copy(out, allIndicators)
		sort.Strings(out)
		return out
	}

	seen := make(map[string]bool, len(requested))
	var out []string
	for _, name := range requested {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// fetchCloses pulls daily closes newest first. When the 200-day SMA is wanted
// and the compact window is too short, it retries with the full history
// capped at 250 sessions.
func fetchCloses(ctx context.Context, d *Deps, ticker string, needSMA200 bool) ([]float64, error) {
	candles, err := d.AlphaVantage.GetDailyCandles(ctx, ticker, "compact")
	if err != nil {
		return nil, err
	}

	closes := candleCloses(candles)
	if needSMA200 && len(closes) > 0 && len(closes) < 200 {
		if full, ferr := d.AlphaVantage.GetDailyCandles(ctx, ticker, "full"); ferr == nil {
			closes = candleCloses(full)
			if len(closes) > 250 {
				closes = closes[:250]
			}
		}
	}
	return closes, nil
}

func candleCloses(candles []models.Candle) []float64 {
	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}
	return closes
}

func computeIndicators(ticker string, selected []string, closes []float64, priceErr error) *models.TechnicalIndicators {
	result := &models.TechnicalIndicators{Ticker: ticker}

	if len(closes) < 20 {
		msg := "insufficient price data"
		if priceErr != nil {
			msg = priceErr.Error()
		}
		for _, name := range selected {
			switch name {
			case "sma":
				result.SMA = &models.SMAValues{Error: msg}
			case "ema":
				result.EMA = &models.EMAValues{Error: msg}
			case "rsi":
				result.RSI = &models.RSIValues{Signal: "unknown", Error: msg}
			case "macd":
				result.MACD = &models.MACDValues{Trend: "unknown", Error: msg}
			case "bbands":
				result.BBands = &models.BollingerValues{Error: msg}
			}
		}
		result.Trend = trendLabel(result)
		return result
	}

	for _, name := range selected {
		switch name {
		case "sma":
			result.SMA = &models.SMAValues{
				SMA20:  indicatorValue(indicators.SMA(closes, 20)),
				SMA50:  indicatorValue(indicators.SMA(closes, 50)),
				SMA200: indicatorValue(indicators.SMA(closes, 200)),
			}
		case "ema":
			result.EMA = &models.EMAValues{
				EMA12: indicatorValue(indicators.EMA(closes, 12)),
				EMA26: indicatorValue(indicators.EMA(closes, 26)),
			}
		case "rsi":
			result.RSI = rsiSection(closes)
		case "macd":
			result.MACD = macdSection(closes)
		case "bbands":
			result.BBands = bbandsSection(closes)
		}
	}

	result.Trend = trendLabel(result)
	return result
}

func indicatorValue(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func rsiSection(closes []float64) *models.RSIValues {
	value, ok := indicators.RSI(closes, 14)
	if !ok {
		return &models.RSIValues{Signal: "unknown"}
	}

	signal := "neutral"
	switch {
	case value > 70:
		signal = "overbought"
	case value < 30:
		signal = "oversold"
	}
	return &models.RSIValues{RSI14: &value, Signal: signal}
}

func macdSection(closes []float64) *models.MACDValues {
	macd, ok := indicators.MACD(closes, 12, 26, 9)
	if !ok {
		return &models.MACDValues{Trend: "unknown"}
	}

	trend := "bearish"
	if macd.MACD > macd.Signal {
		trend = "bullish"
	}
	return &models.MACDValues{
		MACD:      &macd.MACD,
		Signal:    &macd.Signal,
		Histogram: &macd.Histogram,
		Trend:     trend,
	}
}

func bbandsSection(closes []float64) *models.BollingerValues {
	bands, ok := indicators.BollingerBands(closes, 20, 2)
	if !ok {
		return &models.BollingerValues{}
	}
	return &models.BollingerValues{
		Upper:  &bands.Upper,
		Middle: &bands.Middle,
		Lower:  &bands.Lower,
	}
}

// trendLabel averages the RSI and MACD votes into an overall trend. RSI at
// an extreme votes for reversal; MACD votes with its crossover direction.
func trendLabel(result *models.TechnicalIndicators) string {
	var sum, count float64

	count++
	if result.RSI != nil {
		switch result.RSI.Signal {
		case "overbought":
			sum--
		case "oversold":
			sum++
		}
	}

	count++
	if result.MACD != nil {
		switch result.MACD.Trend {
		case "bullish":
			sum++
		case "bearish":
			sum--
		}
	}

	avg := sum / count
	switch {
	case avg > 0.3:
		return "bullish"
	case avg < -0.3:
		return "bearish"
	default:
		return "neutral"
	}
}

// NewSupportResistanceTool returns the support/resistance level tool.
func NewSupportResistanceTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_support_resistance",
			Desc: "Calculate support and resistance levels with the current price position",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ticker": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
					Required: true,
				},
				"lookback_days": {
					Type: "integer",
					Desc: "Number of trading days to analyze (default 60)",
				},
			}),
		},
		func(ctx context.Context, input models.SupportResistanceInput) (*models.SupportResistanceLevels, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			lookback := input.LookbackDays
			if lookback <= 0 {
				lookback = 60
			}

			key := fmt.Sprintf("support_resistance:%s:%d", ticker, lookback)
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLTechnicals, func(ctx context.Context) (*models.SupportResistanceLevels, error) {
				candles, err := d.AlphaVantage.GetDailyCandles(ctx, ticker, "compact")
				if err != nil {
					return nil, err
				}
				if len(candles) > lookback {
					candles = candles[:lookback]
				}
				if len(candles) == 0 {
					return &models.SupportResistanceLevels{
						Ticker: ticker,
						Error:  "no price data available",
					}, nil
				}

				highs := make([]float64, len(candles))
				lows := make([]float64, len(candles))
				for i, c := range candles {
					highs[i] = c.High
					lows[i] = c.Low
				}

				supports, resistances := indicators.SupportResistance(highs, lows, indicators.LevelClusterThreshold)
				return buildLevels(ticker, candles[0].Close, supports, resistances, lookback), nil
			})
		},
	)
}

// buildLevels classifies where the current price sits between its nearest
// levels, then truncates to the five strongest levels on each side. Nearest
// levels come from the full lists so truncation cannot hide them.
func buildLevels(ticker string, price float64, supports, resistances []float64, lookback int) *models.SupportResistanceLevels {
	var nearestSupport, nearestResistance *float64
	for _, s := range supports {
		if s < price && (nearestSupport == nil || s > *nearestSupport) {
			nearestSupport = floatPtr(s)
		}
	}
	for _, r := range resistances {
		if r > price && (nearestResistance == nil || r < *nearestResistance) {
			nearestResistance = floatPtr(r)
		}
	}

	if len(supports) > 5 {
		supports = supports[:5]
	}
	if len(resistances) > 5 {
		resistances = resistances[:5]
	}

	position := "unknown"
	if nearestSupport != nil && nearestResistance != nil {
		rangeSize := *nearestResistance - *nearestSupport
		inRange := 0.5
		if rangeSize > 0 {
			inRange = (price - *nearestSupport) / rangeSize
		}
		switch {
		case inRange < 0.2:
			position = "near_support"
		case inRange > 0.8:
			position = "near_resistance"
		default:
			position = "mid_range"
		}
	}

	return &models.SupportResistanceLevels{
		Ticker:            ticker,
		CurrentPrice:      price,
		SupportLevels:     supports,
		ResistanceLevels:  resistances,
		NearestSupport:    nearestSupport,
		NearestResistance: nearestResistance,
		CurrentPosition:   position,
		LookbackDays:      lookback,
	}
}
