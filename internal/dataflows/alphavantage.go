package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"stock-research/internal/models"
)

// AlphaVantageClient fetches market, fundamental and economic data from the
// Alpha Vantage REST API.
type AlphaVantageClient struct {
	client *resty.Client
	apiKey string
	retry  *RetryConfig
	logger zerolog.Logger
}

// NewAlphaVantageClient creates a client against baseURL. The key may be
// empty; calls then fail with ErrNotConfigured so callers can fall back to
// another source.
func NewAlphaVantageClient(baseURL, apiKey string, logger zerolog.Logger) *AlphaVantageClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)

	return &AlphaVantageClient{
		client: client,
		apiKey: apiKey,
		retry:  DefaultRetryConfig(),
		logger: logger.With().Str("provider", "alphavantage").Logger(),
	}
}

// Configured reports whether an API key is present.
func (av *AlphaVantageClient) Configured() bool {
	return av.apiKey != ""
}

// avErrorEnvelope catches the error shapes Alpha Vantage mixes into 200
// responses.
type avErrorEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// request performs a GET with the function name and params, decodes the body
// into dest and surfaces Alpha Vantage's inline error envelope.
func (av *AlphaVantageClient) request(ctx context.Context, function string, params map[string]string, dest any) error {
	if !av.Configured() {
		return fmt.Errorf("alpha vantage: %w", ErrNotConfigured)
	}

	query := map[string]string{
		"function": function,
		"apikey":   av.apiKey,
	}
	for k, v := range params {
		query[k] = v
	}

	return WithRetry(ctx, av.retry, func() error {
		resp, err := av.client.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get("")
		if err != nil {
			return fmt.Errorf("alpha vantage %s: %w", function, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("alpha vantage %s: status %d", function, resp.StatusCode())
		}

		var envelope avErrorEnvelope
		if err := json.Unmarshal(resp.Body(), &envelope); err == nil {
			if envelope.ErrorMessage != "" {
				return fmt.Errorf("alpha vantage %s: %s", function, envelope.ErrorMessage)
			}
			if envelope.Note != "" {
				return fmt.Errorf("alpha vantage %s: %w: %s", function, ErrRateLimited, envelope.Note)
			}
		}

		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return fmt.Errorf("alpha vantage %s: decode: %w", function, err)
		}
		return nil
	})
}

// GlobalQuote is the GLOBAL_QUOTE payload. Alpha Vantage serves every value
// as a string.
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// GetQuote fetches a real-time quote.
func (av *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*GlobalQuote, error) {
	var resp struct {
		GlobalQuote GlobalQuote `json:"Global Quote"`
	}
	if err := av.request(ctx, "GLOBAL_QUOTE", map[string]string{"symbol": symbol}, &resp); err != nil {
		return nil, err
	}
	return &resp.GlobalQuote, nil
}

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// GetDailyCandles fetches the daily time series and returns candles ordered
// most-recent-first. outputsize is "compact" (100 days) or "full".
func (av *AlphaVantageClient) GetDailyCandles(ctx context.Context, symbol, outputsize string) ([]models.Candle, error) {
	var resp struct {
		Series map[string]avBar `json:"Time Series (Daily)"`
	}
	err := av.request(ctx, "TIME_SERIES_DAILY", map[string]string{
		"symbol":     symbol,
		"outputsize": outputsize,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return seriesToCandles(resp.Series), nil
}

// GetIntradayCandles fetches an intraday series at the given interval
// (1min, 5min, 15min, 30min, 60min), most-recent-first.
func (av *AlphaVantageClient) GetIntradayCandles(ctx context.Context, symbol, interval, outputsize string) ([]models.Candle, error) {
	var raw map[string]json.RawMessage
	err := av.request(ctx, "TIME_SERIES_INTRADAY", map[string]string{
		"symbol":     symbol,
		"interval":   interval,
		"outputsize": outputsize,
	}, &raw)
	if err != nil {
		return nil, err
	}

	// The series key embeds the interval, e.g. "Time Series (5min)".
	seriesKey := fmt.Sprintf("Time Series (%s)", interval)
	var series map[string]avBar
	if body, ok := raw[seriesKey]; ok {
		if err := json.Unmarshal(body, &series); err != nil {
			return nil, fmt.Errorf("alpha vantage intraday: decode series: %w", err)
		}
	}
	return seriesToCandles(series), nil
}

// seriesToCandles converts a date-keyed bar map into candles sorted newest
// first.
func seriesToCandles(series map[string]avBar) []models.Candle {
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	candles := make([]models.Candle, 0, len(dates))
	for _, d := range dates {
		bar := series[d]
		candles = append(candles, models.Candle{
			Date:   d,
			Open:   parseFloat(bar.Open),
			High:   parseFloat(bar.High),
			Low:    parseFloat(bar.Low),
			Close:  parseFloat(bar.Close),
			Volume: parseInt(bar.Volume),
		})
	}
	return candles
}

// GetCompanyOverview fetches the OVERVIEW endpoint as a flat field map.
func (av *AlphaVantageClient) GetCompanyOverview(ctx context.Context, symbol string) (map[string]string, error) {
	var overview map[string]string
	if err := av.request(ctx, "OVERVIEW", map[string]string{"symbol": symbol}, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

// EarningsReport is one quarterly earnings row.
type EarningsReport struct {
	FiscalDateEnding   string `json:"fiscalDateEnding"`
	ReportedDate       string `json:"reportedDate"`
	ReportedEPS        string `json:"reportedEPS"`
	EstimatedEPS       string `json:"estimatedEPS"`
	Surprise           string `json:"surprise"`
	SurprisePercentage string `json:"surprisePercentage"`
}

type AnnualEarningsReport struct {
	FiscalDateEnding string `json:"fiscalDateEnding"`
	ReportedEPS      string `json:"reportedEPS"`
}

type EarningsResponse struct {
	Symbol            string                 `json:"symbol"`
	QuarterlyEarnings []EarningsReport       `json:"quarterlyEarnings"`
	AnnualEarnings    []AnnualEarningsReport `json:"annualEarnings"`
}

// GetEarnings fetches the earnings history.
func (av *AlphaVantageClient) GetEarnings(ctx context.Context, symbol string) (*EarningsResponse, error) {
	var resp EarningsResponse
	if err := av.request(ctx, "EARNINGS", map[string]string{"symbol": symbol}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TickerSentiment is the per-ticker sentiment block inside a news item.
type TickerSentiment struct {
	Ticker               string `json:"ticker"`
	RelevanceScore       string `json:"relevance_score"`
	TickerSentimentScore string `json:"ticker_sentiment_score"`
	TickerSentimentLabel string `json:"ticker_sentiment_label"`
}

type NewsItem struct {
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	TimePublished   string            `json:"time_published"`
	Summary         string            `json:"summary"`
	Source          string            `json:"source"`
	TickerSentiment []TickerSentiment `json:"ticker_sentiment"`
}

// GetNewsSentiment fetches sentiment-scored news for a ticker.
func (av *AlphaVantageClient) GetNewsSentiment(ctx context.Context, tickers string, limit int) ([]NewsItem, error) {
	var resp struct {
		Feed []NewsItem `json:"feed"`
	}
	err := av.request(ctx, "NEWS_SENTIMENT", map[string]string{
		"tickers": tickers,
		"limit":   strconv.Itoa(limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Feed, nil
}

// InsiderTransaction is one row of the INSIDER_TRANSACTIONS data set.
type InsiderTransaction struct {
	TransactionDate          string `json:"transaction_date"`
	Ticker                   string `json:"ticker"`
	Executive                string `json:"executive"`
	ExecutiveTitle           string `json:"executive_title"`
	SecurityType             string `json:"security_type"`
	AcquisitionOrDisposition string `json:"acquisition_or_disposition"`
	Shares                   string `json:"shares"`
	SharePrice               string `json:"share_price"`
}

// GetInsiderTransactions fetches recent insider activity.
func (av *AlphaVantageClient) GetInsiderTransactions(ctx context.Context, symbol string) ([]InsiderTransaction, error) {
	var resp struct {
		Data []InsiderTransaction `json:"data"`
	}
	if err := av.request(ctx, "INSIDER_TRANSACTIONS", map[string]string{"symbol": symbol}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// EconPoint is one observation in an economic indicator series.
type EconPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// EconSeries is the common shape of Alpha Vantage economic endpoints,
// newest observation first.
type EconSeries struct {
	Name string      `json:"name"`
	Unit string      `json:"unit"`
	Data []EconPoint `json:"data"`
}

func (av *AlphaVantageClient) econ(ctx context.Context, function string, params map[string]string) (*EconSeries, error) {
	var series EconSeries
	if err := av.request(ctx, function, params, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (av *AlphaVantageClient) GetFederalFundsRate(ctx context.Context) (*EconSeries, error) {
	return av.econ(ctx, "FEDERAL_FUNDS_RATE", nil)
}

// GetTreasuryYield fetches the yield series for a maturity such as "2year"
// or "10year".
func (av *AlphaVantageClient) GetTreasuryYield(ctx context.Context, maturity string) (*EconSeries, error) {
	return av.econ(ctx, "TREASURY_YIELD", map[string]string{"maturity": maturity})
}

func (av *AlphaVantageClient) GetCPI(ctx context.Context) (*EconSeries, error) {
	return av.econ(ctx, "CPI", nil)
}

func (av *AlphaVantageClient) GetUnemployment(ctx context.Context) (*EconSeries, error) {
	return av.econ(ctx, "UNEMPLOYMENT", nil)
}

func (av *AlphaVantageClient) GetRealGDP(ctx context.Context) (*EconSeries, error) {
	return av.econ(ctx, "REAL_GDP", nil)
}

// parseFloat converts a provider numeric string, returning 0 on junk.
func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseInt converts a provider integer string, tolerating float formatting.
func parseInt(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
