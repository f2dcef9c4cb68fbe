package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestAlpaca(t *testing.T, cfg AlpacaConfig, handler http.Handler) *AlpacaClient {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "key"
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = "secret"
	}

	ac, err := NewAlpacaClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAlpacaClient: %v", err)
	}
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		ac.client.SetBaseURL(srv.URL)
	}
	return ac
}

func TestNewAlpacaClientRequiresKeys(t *testing.T) {
	_, err := NewAlpacaClient(AlpacaConfig{}, zerolog.Nop())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSymbolAllowList(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{
		AllowedSymbols: []string{"AAPL", "MSFT"},
		MaxOrderValue:  5000,
	}, nil)

	if err := ac.validateSymbol("aapl"); err != nil {
		t.Errorf("allowed symbol rejected: %v", err)
	}

	err := ac.validateSymbol("TSLA")
	if !errors.Is(err, ErrRiskLimit) {
		t.Errorf("err = %v, want ErrRiskLimit", err)
	}
}

func TestSymbolAllowListEmpty(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{MaxOrderValue: 5000}, nil)
	if err := ac.validateSymbol("ANYTHING"); err != nil {
		t.Errorf("empty allow-list should permit all symbols, got %v", err)
	}
}

func TestOrderValueLimit(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{MaxOrderValue: 5000}, nil)

	tests := []struct {
		name    string
		qty     float64
		price   float64
		wantErr bool
	}{
		{"under limit", 10, 100, false},
		{"at limit", 50, 100, false},
		{"over limit", 51, 100, true},
		{"fractional over", 33.4, 150, true},
		{"no price skips check", 1000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ac.validateOrderValue(tt.qty, tt.price)
			if tt.wantErr && !errors.Is(err, ErrRiskLimit) {
				t.Errorf("err = %v, want ErrRiskLimit", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPlaceLimitOrderRejectedBeforeSubmit(t *testing.T) {
	called := false
	ac := newTestAlpaca(t, AlpacaConfig{MaxOrderValue: 1000},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

	_, err := ac.PlaceLimitOrder(context.Background(), "AAPL", 100, "buy", 200, "day")
	if !errors.Is(err, ErrRiskLimit) {
		t.Fatalf("err = %v, want ErrRiskLimit", err)
	}
	if called {
		t.Error("rejected order must not reach the broker")
	}
}

func TestPlaceMarketOrder(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{MaxOrderValue: 5000},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v2/orders" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			var req orderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.Symbol != "AAPL" || req.Side != "buy" || req.Type != "market" {
				t.Errorf("unexpected order request: %+v", req)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"id":            "ord-1",
				"symbol":        "AAPL",
				"qty":           "10",
				"filled_qty":    "0",
				"side":          "buy",
				"type":          "market",
				"status":        "accepted",
				"time_in_force": "day",
			})
		}))

	order, err := ac.PlaceMarketOrder(context.Background(), "aapl", 10, "BUY", "day")
	if err != nil {
		t.Fatalf("PlaceMarketOrder: %v", err)
	}
	if order.OrderID != "ord-1" || order.Status != "accepted" {
		t.Errorf("order = %+v", order)
	}
	if order.Qty == nil || *order.Qty != 10 {
		t.Errorf("qty = %v, want 10", order.Qty)
	}
	if order.LimitPrice != nil {
		t.Error("market order should have nil limit price")
	}
}

func TestGetPositionNotFound(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":40410000,"message":"position does not exist"}`, http.StatusNotFound)
		}))

	pos, err := ac.GetPosition(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	if pos != nil {
		t.Errorf("pos = %+v, want nil", pos)
	}
}

func TestGetAccount(t *testing.T) {
	ac := newTestAlpaca(t, AlpacaConfig{Paper: true},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"id":              "acct-1",
				"status":          "ACTIVE",
				"currency":        "USD",
				"buying_power":    "200000.50",
				"cash":            "100000.25",
				"portfolio_value": "105000",
				"equity":          "105000",
			})
		}))

	account, err := ac.GetAccount(context.Background())
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if account.BuyingPower != 200000.50 || account.Cash != 100000.25 {
		t.Errorf("account = %+v", account)
	}
	if !account.Paper {
		t.Error("paper flag should carry through")
	}
}
