package dataflows

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestAV(t *testing.T, handler http.Handler) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	av := NewAlphaVantageClient(srv.URL, "test-key", zerolog.Nop())
	av.retry = &RetryConfig{MaxRetries: 0}
	return av
}

func TestAVNotConfigured(t *testing.T) {
	av := NewAlphaVantageClient("http://localhost", "", zerolog.Nop())
	_, err := av.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestAVGetQuote(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q", got)
		}
		w.Write([]byte(`{"Global Quote": {
			"01. symbol": "AAPL",
			"02. open": "185.00",
			"03. high": "188.50",
			"04. low": "184.20",
			"05. price": "187.50",
			"06. volume": "54321000",
			"07. latest trading day": "2025-03-14",
			"08. previous close": "186.00",
			"09. change": "1.50",
			"10. change percent": "0.8065%"
		}}`))
	}))

	q, err := av.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if q.Price != "187.50" || q.LatestTradingDay != "2025-03-14" {
		t.Errorf("quote = %+v", q)
	}
}

func TestAVErrorEnvelope(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))

	_, err := av.GetQuote(context.Background(), "BAD")
	if err == nil {
		t.Fatal("expected error for error envelope")
	}
}

func TestAVRateLimitNote(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! 25 requests per day."}`))
	}))

	_, err := av.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestAVGetDailyCandles(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Time Series (Daily)": {
			"2025-03-12": {"1. open": "180", "2. high": "182", "3. low": "179", "4. close": "181", "5. volume": "1000"},
			"2025-03-14": {"1. open": "186", "2. high": "188", "3. low": "185", "4. close": "187.5", "5. volume": "3000"},
			"2025-03-13": {"1. open": "181", "2. high": "186", "3. low": "180", "4. close": "185", "5. volume": "2000"}
		}}`))
	}))

	candles, err := av.GetDailyCandles(context.Background(), "AAPL", "compact")
	if err != nil {
		t.Fatalf("GetDailyCandles: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("len = %d, want 3", len(candles))
	}
	// Most recent first regardless of map order.
	if candles[0].Date != "2025-03-14" || candles[2].Date != "2025-03-12" {
		t.Errorf("candles out of order: %v, %v", candles[0].Date, candles[2].Date)
	}
	if candles[0].Close != 187.5 || candles[0].Volume != 3000 {
		t.Errorf("candle = %+v", candles[0])
	}
}

func TestAVGetIntradayCandles(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "5min" {
			t.Errorf("interval = %q", got)
		}
		w.Write([]byte(`{"Time Series (5min)": {
			"2025-03-14 15:55:00": {"1. open": "187", "2. high": "187.6", "3. low": "186.9", "4. close": "187.5", "5. volume": "12000"}
		}}`))
	}))

	candles, err := av.GetIntradayCandles(context.Background(), "AAPL", "5min", "compact")
	if err != nil {
		t.Fatalf("GetIntradayCandles: %v", err)
	}
	if len(candles) != 1 || candles[0].Close != 187.5 {
		t.Errorf("candles = %+v", candles)
	}
}

func TestAVEconSeries(t *testing.T) {
	av := newTestAV(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maturity"); got != "10year" {
			t.Errorf("maturity = %q", got)
		}
		w.Write([]byte(`{"name": "10-Year Treasury Constant Maturity Rate", "unit": "percent",
			"data": [{"date": "2025-03-01", "value": "4.25"}, {"date": "2025-02-01", "value": "4.30"}]}`))
	}))

	series, err := av.GetTreasuryYield(context.Background(), "10year")
	if err != nil {
		t.Fatalf("GetTreasuryYield: %v", err)
	}
	if len(series.Data) != 2 || series.Data[0].Value != "4.25" {
		t.Errorf("series = %+v", series)
	}
}
