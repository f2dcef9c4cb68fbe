package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-research/internal/models"
)

const (
	alpacaPaperURL = "https://paper-api.alpaca.markets"
	alpacaLiveURL  = "https://api.alpaca.markets"
)

// AlpacaClient wraps the Alpaca trading REST API with the risk controls the
// research server enforces before any order reaches the broker.
type AlpacaClient struct {
	client *resty.Client
	paper  bool
	logger zerolog.Logger

	maxPositionSize decimal.Decimal
	maxOrderValue   decimal.Decimal
	allowedSymbols  []string
}

// AlpacaConfig carries the credentials and risk limits for the client.
type AlpacaConfig struct {
	APIKey          string
	SecretKey       string
	Paper           bool
	MaxPositionSize float64
	MaxOrderValue   float64
	AllowedSymbols  []string
}

// NewAlpacaClient creates a trading client. It fails with ErrNotConfigured
// when credentials are missing.
func NewAlpacaClient(cfg AlpacaConfig, logger zerolog.Logger) (*AlpacaClient, error) {
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("alpaca: %w", ErrNotConfigured)
	}

	baseURL := alpacaLiveURL
	if cfg.Paper {
		baseURL = alpacaPaperURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("APCA-API-KEY-ID", cfg.APIKey)
	client.SetHeader("APCA-API-SECRET-KEY", cfg.SecretKey)

	return &AlpacaClient{
		client:          client,
		paper:           cfg.Paper,
		logger:          logger.With().Str("provider", "alpaca").Bool("paper", cfg.Paper).Logger(),
		maxPositionSize: decimal.NewFromFloat(cfg.MaxPositionSize),
		maxOrderValue:   decimal.NewFromFloat(cfg.MaxOrderValue),
		allowedSymbols:  cfg.AllowedSymbols,
	}, nil
}

// Paper reports whether the client trades against the paper endpoint.
func (ac *AlpacaClient) Paper() bool {
	return ac.paper
}

// validateSymbol enforces the allow-list; an empty list permits everything.
func (ac *AlpacaClient) validateSymbol(symbol string) error {
	if len(ac.allowedSymbols) == 0 {
		return nil
	}
	target := NormalizeSymbol(symbol)
	for _, s := range ac.allowedSymbols {
		if NormalizeSymbol(s) == target {
			return nil
		}
	}
	return fmt.Errorf("%w: symbol %s not in allowed list (%s)",
		ErrRiskLimit, target, strings.Join(ac.allowedSymbols, ", "))
}

// validateOrderValue rejects orders whose notional exceeds the configured
// maximum. Orders without a known price (market orders) pass through.
func (ac *AlpacaClient) validateOrderValue(qty, price float64) error {
	if price <= 0 {
		return nil
	}
	value := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))
	if value.GreaterThan(ac.maxOrderValue) {
		return fmt.Errorf("%w: order value $%s exceeds max $%s",
			ErrRiskLimit, value.StringFixed(2), ac.maxOrderValue.StringFixed(2))
	}
	return nil
}

func (ac *AlpacaClient) do(ctx context.Context, method, path string, body any, dest any) error {
	req := ac.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("alpaca %s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("alpaca %s %s: status %d: %s", method, path, resp.StatusCode(), resp.String())
	}
	if dest != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return fmt.Errorf("alpaca %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

// Wire types. Alpaca serializes every numeric field as a string.

type alpacaAccount struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	Currency         string `json:"currency"`
	BuyingPower      string `json:"buying_power"`
	Cash             string `json:"cash"`
	PortfolioValue   string `json:"portfolio_value"`
	Equity           string `json:"equity"`
	LastEquity       string `json:"last_equity"`
	LongMarketValue  string `json:"long_market_value"`
	ShortMarketValue string `json:"short_market_value"`
	PatternDayTrader bool   `json:"pattern_day_trader"`
	TradingBlocked   bool   `json:"trading_blocked"`
}

type alpacaPosition struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	Side           string `json:"side"`
	MarketValue    string `json:"market_value"`
	CostBasis      string `json:"cost_basis"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
	CurrentPrice   string `json:"current_price"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	ChangeToday    string `json:"change_today"`
}

type alpacaOrder struct {
	ID             string `json:"id"`
	ClientOrderID  string `json:"client_order_id"`
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	FilledQty      string `json:"filled_qty"`
	Side           string `json:"side"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	LimitPrice     string `json:"limit_price"`
	StopPrice      string `json:"stop_price"`
	FilledAvgPrice string `json:"filled_avg_price"`
	TimeInForce    string `json:"time_in_force"`
	CreatedAt      string `json:"created_at"`
	SubmittedAt    string `json:"submitted_at"`
	FilledAt       string `json:"filled_at"`
}

// GetAccount fetches the account snapshot.
func (ac *AlpacaClient) GetAccount(ctx context.Context) (*models.Account, error) {
	var raw alpacaAccount
	if err := ac.do(ctx, resty.MethodGet, "/v2/account", nil, &raw); err != nil {
		return nil, err
	}
	return &models.Account{
		AccountID:        raw.ID,
		Status:           raw.Status,
		Currency:         raw.Currency,
		BuyingPower:      moneyFloat(raw.BuyingPower),
		Cash:             moneyFloat(raw.Cash),
		PortfolioValue:   moneyFloat(raw.PortfolioValue),
		Equity:           moneyFloat(raw.Equity),
		LastEquity:       moneyFloat(raw.LastEquity),
		LongMarketValue:  moneyFloat(raw.LongMarketValue),
		ShortMarketValue: moneyFloat(raw.ShortMarketValue),
		PatternDayTrader: raw.PatternDayTrader,
		TradingBlocked:   raw.TradingBlocked,
		Paper:            ac.paper,
	}, nil
}

// GetPositions fetches all open positions.
func (ac *AlpacaClient) GetPositions(ctx context.Context) ([]models.Position, error) {
	var raw []alpacaPosition
	if err := ac.do(ctx, resty.MethodGet, "/v2/positions", nil, &raw); err != nil {
		return nil, err
	}
	positions := make([]models.Position, 0, len(raw))
	for _, p := range raw {
		positions = append(positions, convertPosition(p))
	}
	return positions, nil
}

// GetPosition fetches the position for symbol, or nil when there is none.
func (ac *AlpacaClient) GetPosition(ctx context.Context, symbol string) (*models.Position, error) {
	resp, err := ac.client.R().
		SetContext(ctx).
		Get("/v2/positions/" + NormalizeSymbol(symbol))
	if err != nil {
		return nil, fmt.Errorf("alpaca get position: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("alpaca get position: status %d: %s", resp.StatusCode(), resp.String())
	}

	var raw alpacaPosition
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("alpaca get position: decode: %w", err)
	}
	pos := convertPosition(raw)
	return &pos, nil
}

type orderRequest struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
	LimitPrice  string `json:"limit_price,omitempty"`
	StopPrice   string `json:"stop_price,omitempty"`
}

func (ac *AlpacaClient) submitOrder(ctx context.Context, req orderRequest) (*models.Order, error) {
	var raw alpacaOrder
	if err := ac.do(ctx, resty.MethodPost, "/v2/orders", req, &raw); err != nil {
		return nil, err
	}
	order := convertOrder(raw)
	ac.logger.Info().
		Str("symbol", order.Symbol).
		Str("side", order.Side).
		Str("type", order.Type).
		Str("order_id", order.OrderID).
		Msg("order submitted")
	return &order, nil
}

// PlaceMarketOrder submits a market order after the symbol allow-list check.
func (ac *AlpacaClient) PlaceMarketOrder(ctx context.Context, symbol string, qty float64, side, timeInForce string) (*models.Order, error) {
	if err := ac.validateSymbol(symbol); err != nil {
		return nil, err
	}
	return ac.submitOrder(ctx, orderRequest{
		Symbol:      NormalizeSymbol(symbol),
		Qty:         decimal.NewFromFloat(qty).String(),
		Side:        strings.ToLower(side),
		Type:        "market",
		TimeInForce: timeInForce,
	})
}

// PlaceLimitOrder submits a limit order after symbol and order-value checks.
func (ac *AlpacaClient) PlaceLimitOrder(ctx context.Context, symbol string, qty float64, side string, limitPrice float64, timeInForce string) (*models.Order, error) {
	if err := ac.validateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ac.validateOrderValue(qty, limitPrice); err != nil {
		return nil, err
	}
	return ac.submitOrder(ctx, orderRequest{
		Symbol:      NormalizeSymbol(symbol),
		Qty:         decimal.NewFromFloat(qty).String(),
		Side:        strings.ToLower(side),
		Type:        "limit",
		TimeInForce: timeInForce,
		LimitPrice:  decimal.NewFromFloat(limitPrice).String(),
	})
}

// PlaceStopOrder submits a stop order.
func (ac *AlpacaClient) PlaceStopOrder(ctx context.Context, symbol string, qty float64, side string, stopPrice float64, timeInForce string) (*models.Order, error) {
	if err := ac.validateSymbol(symbol); err != nil {
		return nil, err
	}
	return ac.submitOrder(ctx, orderRequest{
		Symbol:      NormalizeSymbol(symbol),
		Qty:         decimal.NewFromFloat(qty).String(),
		Side:        strings.ToLower(side),
		Type:        "stop",
		TimeInForce: timeInForce,
		StopPrice:   decimal.NewFromFloat(stopPrice).String(),
	})
}

// PlaceStopLimitOrder submits a stop-limit order; the limit price bounds the
// order value check.
func (ac *AlpacaClient) PlaceStopLimitOrder(ctx context.Context, symbol string, qty float64, side string, stopPrice, limitPrice float64, timeInForce string) (*models.Order, error) {
	if err := ac.validateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ac.validateOrderValue(qty, limitPrice); err != nil {
		return nil, err
	}
	return ac.submitOrder(ctx, orderRequest{
		Symbol:      NormalizeSymbol(symbol),
		Qty:         decimal.NewFromFloat(qty).String(),
		Side:        strings.ToLower(side),
		Type:        "stop_limit",
		TimeInForce: timeInForce,
		StopPrice:   decimal.NewFromFloat(stopPrice).String(),
		LimitPrice:  decimal.NewFromFloat(limitPrice).String(),
	})
}

// GetOrder fetches one order by ID.
func (ac *AlpacaClient) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var raw alpacaOrder
	if err := ac.do(ctx, resty.MethodGet, "/v2/orders/"+orderID, nil, &raw); err != nil {
		return nil, err
	}
	order := convertOrder(raw)
	return &order, nil
}

// GetOrders lists orders filtered by status ("open", "closed", "all"), capped
// at limit, optionally restricted to one symbol.
func (ac *AlpacaClient) GetOrders(ctx context.Context, status string, limit int, symbol string) ([]models.Order, error) {
	req := ac.client.R().
		SetContext(ctx).
		SetQueryParam("status", status).
		SetQueryParam("limit", fmt.Sprintf("%d", limit))
	if symbol != "" {
		req.SetQueryParam("symbols", NormalizeSymbol(symbol))
	}

	resp, err := req.Get("/v2/orders")
	if err != nil {
		return nil, fmt.Errorf("alpaca get orders: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("alpaca get orders: status %d: %s", resp.StatusCode(), resp.String())
	}

	var raw []alpacaOrder
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("alpaca get orders: decode: %w", err)
	}
	orders := make([]models.Order, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, convertOrder(o))
	}
	return orders, nil
}

// CancelOrder cancels one order by ID.
func (ac *AlpacaClient) CancelOrder(ctx context.Context, orderID string) error {
	return ac.do(ctx, resty.MethodDelete, "/v2/orders/"+orderID, nil, nil)
}

// CancelAllOrders cancels every open order and returns per-order statuses.
func (ac *AlpacaClient) CancelAllOrders(ctx context.Context) ([]models.CancelStatus, error) {
	var raw []struct {
		ID     string `json:"id"`
		Status int    `json:"status"`
	}
	if err := ac.do(ctx, resty.MethodDelete, "/v2/orders", nil, &raw); err != nil {
		return nil, err
	}
	statuses := make([]models.CancelStatus, 0, len(raw))
	for _, r := range raw {
		statuses = append(statuses, models.CancelStatus{
			OrderID: r.ID,
			Status:  fmt.Sprintf("%d", r.Status),
		})
	}
	return statuses, nil
}

// ClosePosition liquidates the position for symbol with a market order.
func (ac *AlpacaClient) ClosePosition(ctx context.Context, symbol string) (*models.Order, error) {
	var raw alpacaOrder
	if err := ac.do(ctx, resty.MethodDelete, "/v2/positions/"+NormalizeSymbol(symbol), nil, &raw); err != nil {
		return nil, err
	}
	order := convertOrder(raw)
	return &order, nil
}

// CloseAllPositions liquidates the whole portfolio and cancels open orders.
func (ac *AlpacaClient) CloseAllPositions(ctx context.Context) ([]models.CloseStatus, error) {
	var raw []struct {
		Symbol string `json:"symbol"`
		Status int    `json:"status"`
	}
	if err := ac.do(ctx, resty.MethodDelete, "/v2/positions?cancel_orders=true", nil, &raw); err != nil {
		return nil, err
	}
	statuses := make([]models.CloseStatus, 0, len(raw))
	for _, r := range raw {
		status := "failed"
		if r.Status == 200 {
			status = "closed"
		}
		statuses = append(statuses, models.CloseStatus{Symbol: r.Symbol, Status: status})
	}
	return statuses, nil
}

func convertPosition(p alpacaPosition) models.Position {
	return models.Position{
		Symbol:         p.Symbol,
		Qty:            moneyFloat(p.Qty),
		Side:           p.Side,
		MarketValue:    moneyFloat(p.MarketValue),
		CostBasis:      moneyFloat(p.CostBasis),
		UnrealizedPL:   moneyFloat(p.UnrealizedPL),
		UnrealizedPLPC: moneyFloat(p.UnrealizedPLPC),
		CurrentPrice:   moneyFloat(p.CurrentPrice),
		AvgEntryPrice:  moneyFloat(p.AvgEntryPrice),
		ChangeToday:    moneyFloat(p.ChangeToday),
	}
}

func convertOrder(o alpacaOrder) models.Order {
	return models.Order{
		OrderID:        o.ID,
		ClientOrderID:  o.ClientOrderID,
		Symbol:         o.Symbol,
		Qty:            moneyFloatPtr(o.Qty),
		FilledQty:      moneyFloat(o.FilledQty),
		Side:           o.Side,
		Type:           o.Type,
		Status:         o.Status,
		LimitPrice:     moneyFloatPtr(o.LimitPrice),
		StopPrice:      moneyFloatPtr(o.StopPrice),
		FilledAvgPrice: moneyFloatPtr(o.FilledAvgPrice),
		TimeInForce:    o.TimeInForce,
		CreatedAt:      o.CreatedAt,
		SubmittedAt:    o.SubmittedAt,
		FilledAt:       o.FilledAt,
	}
}

// moneyFloat parses a decimal money string, returning 0 for empty values.
func moneyFloat(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func moneyFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v := moneyFloat(s)
	return &v
}
