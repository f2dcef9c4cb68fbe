package dataflows

import "errors"

var (
	// ErrNotConfigured means the provider's API credentials are missing.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrRiskLimit means an order was rejected by a trading risk control.
	ErrRiskLimit = errors.New("risk limit exceeded")

	// ErrRateLimited means the provider rejected the call for quota reasons.
	ErrRateLimited = errors.New("provider rate limited")
)
