package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TTLQuote != time.Minute {
		t.Errorf("TTLQuote = %v, want 1m", cfg.TTLQuote)
	}
	if cfg.TTLNews != 15*time.Minute {
		t.Errorf("TTLNews = %v, want 15m", cfg.TTLNews)
	}
	if cfg.TTLFundamentals != 24*time.Hour {
		t.Errorf("TTLFundamentals = %v, want 24h", cfg.TTLFundamentals)
	}
	if cfg.TTLTechnicals != 5*time.Minute {
		t.Errorf("TTLTechnicals = %v, want 5m", cfg.TTLTechnicals)
	}
	if cfg.TTLAnalysts != 6*time.Hour {
		t.Errorf("TTLAnalysts = %v, want 6h", cfg.TTLAnalysts)
	}
	if !cfg.AlpacaPaper {
		t.Error("AlpacaPaper should default to true")
	}
	if cfg.MaxPositionSize != 10000 || cfg.MaxOrderValue != 5000 {
		t.Errorf("risk defaults = %v/%v, want 10000/5000", cfg.MaxPositionSize, cfg.MaxOrderValue)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("ALPACA_PAPER", "false")
	t.Setenv("TRADING_MAX_ORDER_VALUE", "2500")
	t.Setenv("TRADING_ALLOWED_SYMBOLS", "aapl, msft ,,tsla")

	cfg := DefaultConfig()

	if cfg.AlphaVantageAPIKey != "av-key" {
		t.Errorf("AlphaVantageAPIKey = %q", cfg.AlphaVantageAPIKey)
	}
	if cfg.AlpacaPaper {
		t.Error("AlpacaPaper should be false")
	}
	if cfg.MaxOrderValue != 2500 {
		t.Errorf("MaxOrderValue = %v, want 2500", cfg.MaxOrderValue)
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	if len(cfg.AllowedSymbols) != len(want) {
		t.Fatalf("AllowedSymbols = %v, want %v", cfg.AllowedSymbols, want)
	}
	for i := range want {
		if cfg.AllowedSymbols[i] != want[i] {
			t.Errorf("AllowedSymbols = %v, want %v", cfg.AllowedSymbols, want)
			break
		}
	}
}

func TestSymbolAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		symbol  string
		want    bool
	}{
		{"empty list allows all", nil, "AAPL", true},
		{"listed symbol", []string{"AAPL", "MSFT"}, "AAPL", true},
		{"case insensitive", []string{"AAPL"}, "aapl", true},
		{"unlisted symbol", []string{"AAPL"}, "TSLA", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedSymbols: tt.allowed}
			if got := cfg.SymbolAllowed(tt.symbol); got != tt.want {
				t.Errorf("SymbolAllowed(%q) = %v, want %v", tt.symbol, got, tt.want)
			}
		})
	}
}
