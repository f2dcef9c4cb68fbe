package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// FinnhubClient fetches analyst data from the Finnhub API. This is the only
// provider used for ratings; everything else comes from Alpha Vantage.
type FinnhubClient struct {
	client *resty.Client
	apiKey string
	retry  *RetryConfig
	logger zerolog.Logger
}

// NewFinnhubClient creates a Finnhub client against baseURL.
func NewFinnhubClient(baseURL, apiKey string, logger zerolog.Logger) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{
		client: client,
		apiKey: apiKey,
		retry:  DefaultRetryConfig(),
		logger: logger.With().Str("provider", "finnhub").Logger(),
	}
}

// Configured reports whether an API key is present.
func (fc *FinnhubClient) Configured() bool {
	return fc.apiKey != ""
}

func (fc *FinnhubClient) request(ctx context.Context, endpoint string, params map[string]string, dest any) error {
	if !fc.Configured() {
		return fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}

	query := map[string]string{"token": fc.apiKey}
	for k, v := range params {
		query[k] = v
	}

	return WithRetry(ctx, fc.retry, func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(endpoint)
		if err != nil {
			return fmt.Errorf("finnhub %s: %w", endpoint, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("finnhub %s: status %d: %s", endpoint, resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return fmt.Errorf("finnhub %s: decode: %w", endpoint, err)
		}
		return nil
	})
}

// RecommendationTrend is one month of analyst rating counts.
type RecommendationTrend struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strongBuy"`
	StrongSell int    `json:"strongSell"`
}

// GetRecommendations fetches the recommendation trend, newest period first.
func (fc *FinnhubClient) GetRecommendations(ctx context.Context, symbol string) ([]RecommendationTrend, error) {
	var trends []RecommendationTrend
	if err := fc.request(ctx, "/stock/recommendation", map[string]string{"symbol": symbol}, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// PriceTarget holds analyst price targets. Requires a premium Finnhub tier;
// callers should tolerate failures.
type PriceTarget struct {
	Symbol       string  `json:"symbol"`
	TargetHigh   float64 `json:"targetHigh"`
	TargetLow    float64 `json:"targetLow"`
	TargetMean   float64 `json:"targetMean"`
	TargetMedian float64 `json:"targetMedian"`
	LastUpdated  string  `json:"lastUpdated"`
}

func (fc *FinnhubClient) GetPriceTarget(ctx context.Context, symbol string) (*PriceTarget, error) {
	var target PriceTarget
	if err := fc.request(ctx, "/stock/price-target", map[string]string{"symbol": symbol}, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// GradeChange is one analyst upgrade or downgrade.
type GradeChange struct {
	Symbol    string `json:"symbol"`
	GradeTime int64  `json:"gradeTime"`
	Company   string `json:"company"`
	FromGrade string `json:"fromGrade"`
	ToGrade   string `json:"toGrade"`
	Action    string `json:"action"`
}

// Date returns the grade change day in YYYY-MM-DD form.
func (g GradeChange) Date() string {
	if g.GradeTime == 0 {
		return ""
	}
	return time.Unix(g.GradeTime, 0).UTC().Format("2006-01-02")
}

// GetUpgradesDowngrades fetches rating changes over the last 90 days.
func (fc *FinnhubClient) GetUpgradesDowngrades(ctx context.Context, symbol string) ([]GradeChange, error) {
	now := time.Now()
	params := map[string]string{
		"symbol": symbol,
		"from":   now.AddDate(0, 0, -90).Format("2006-01-02"),
		"to":     now.Format("2006-01-02"),
	}

	var changes []GradeChange
	if err := fc.request(ctx, "/stock/upgrade-downgrade", params, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}
