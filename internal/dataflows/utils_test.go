package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		wantErr bool
	}{
		{"AAPL", false},
		{" msft ", false},
		{"BRK.B", false},
		{"", true},
		{"   ", true},
		{"WAYTOOLONGSYM", true},
	}

	for _, tt := range tests {
		err := ValidateSymbol(tt.symbol)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSymbol(%q) err = %v, wantErr %v", tt.symbol, err, tt.wantErr)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  aapl "); got != "AAPL" {
		t.Errorf("NormalizeSymbol = %q", got)
	}
}

func TestParseDateString(t *testing.T) {
	for _, s := range []string{"2025-03-14", "2025-03-14 15:30:00", "20250314T153000"} {
		if _, err := ParseDateString(s); err != nil {
			t.Errorf("ParseDateString(%q): %v", s, err)
		}
	}
	if _, err := ParseDateString("not a date"); err == nil {
		t.Error("expected error for junk input")
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	attempts := 0
	err := WithRetry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	wantErr := errors.New("permanent")
	err := WithRetry(context.Background(), cfg, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, cfg, func() error { return errors.New("fail") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
