package models

// Account is a normalized Alpaca trading account snapshot.
type Account struct {
	AccountID        string  `json:"account_id"`
	Status           string  `json:"status"`
	Currency         string  `json:"currency"`
	BuyingPower      float64 `json:"buying_power"`
	Cash             float64 `json:"cash"`
	PortfolioValue   float64 `json:"portfolio_value"`
	Equity           float64 `json:"equity"`
	LastEquity       float64 `json:"last_equity"`
	LongMarketValue  float64 `json:"long_market_value"`
	ShortMarketValue float64 `json:"short_market_value"`
	PatternDayTrader bool    `json:"pattern_day_trader"`
	TradingBlocked   bool    `json:"trading_blocked"`
	Paper            bool    `json:"paper"`
}

// Position is one open portfolio position.
type Position struct {
	Symbol         string  `json:"symbol"`
	Qty            float64 `json:"qty"`
	Side           string  `json:"side"`
	MarketValue    float64 `json:"market_value"`
	CostBasis      float64 `json:"cost_basis"`
	UnrealizedPL   float64 `json:"unrealized_pl"`
	UnrealizedPLPC float64 `json:"unrealized_plpc"`
	CurrentPrice   float64 `json:"current_price"`
	AvgEntryPrice  float64 `json:"avg_entry_price"`
	ChangeToday    float64 `json:"change_today"`
}

// Order is a normalized broker order.
type Order struct {
	OrderID        string   `json:"order_id"`
	ClientOrderID  string   `json:"client_order_id"`
	Symbol         string   `json:"symbol"`
	Qty            *float64 `json:"qty"`
	FilledQty      float64  `json:"filled_qty"`
	Side           string   `json:"side"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	LimitPrice     *float64 `json:"limit_price"`
	StopPrice      *float64 `json:"stop_price"`
	FilledAvgPrice *float64 `json:"filled_avg_price"`
	TimeInForce    string   `json:"time_in_force"`
	CreatedAt      string   `json:"created_at"`
	SubmittedAt    string   `json:"submitted_at"`
	FilledAt       string   `json:"filled_at,omitempty"`
}

// Order placement inputs.

type MarketOrderInput struct {
	Symbol      string  `json:"symbol"`
	Qty         float64 `json:"qty"`
	Side        string  `json:"side"`
	TimeInForce string  `json:"time_in_force"`
}

type LimitOrderInput struct {
	Symbol      string  `json:"symbol"`
	Qty         float64 `json:"qty"`
	Side        string  `json:"side"`
	LimitPrice  float64 `json:"limit_price"`
	TimeInForce string  `json:"time_in_force"`
}

type StopOrderInput struct {
	Symbol      string  `json:"symbol"`
	Qty         float64 `json:"qty"`
	Side        string  `json:"side"`
	StopPrice   float64 `json:"stop_price"`
	TimeInForce string  `json:"time_in_force"`
}

type StopLimitOrderInput struct {
	Symbol      string  `json:"symbol"`
	Qty         float64 `json:"qty"`
	Side        string  `json:"side"`
	StopPrice   float64 `json:"stop_price"`
	LimitPrice  float64 `json:"limit_price"`
	TimeInForce string  `json:"time_in_force"`
}

type OrderIDInput struct {
	OrderID string `json:"order_id"`
}

type OrdersQueryInput struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Symbol string `json:"symbol"`
}

type SymbolInput struct {
	Symbol string `json:"symbol"`
}

type EmptyInput struct{}

// Tool outputs. Error carries risk-limit and broker failures so the tool can
// report them without aborting the whole invocation; ErrorType is "risk_limit"
// when a risk control rejected the order.

type OrderResult struct {
	Order     *Order `json:"order,omitempty"`
	Paper     bool   `json:"paper"`
	Warning   string `json:"warning,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"type,omitempty"`
}

type AccountResult struct {
	Account *Account `json:"account,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type PositionsResult struct {
	Positions []Position `json:"positions"`
	Count     int        `json:"count"`
	Paper     bool       `json:"paper"`
	Error     string     `json:"error,omitempty"`
}

type PositionResult struct {
	Position *Position `json:"position"`
	Paper    bool      `json:"paper"`
	Message  string    `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type OrdersResult struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
	Paper  bool    `json:"paper"`
	Error  string  `json:"error,omitempty"`
}

type CancelResult struct {
	Status  string `json:"status,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Paper   bool   `json:"paper"`
	Error   string `json:"error,omitempty"`
}

type CancelStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type CancelAllResult struct {
	CancelledCount int            `json:"cancelled_count"`
	Statuses       []CancelStatus `json:"statuses"`
	Paper          bool           `json:"paper"`
	Warning        string         `json:"warning,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type CloseStatus struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

type CloseAllResult struct {
	ClosedCount int           `json:"closed_count"`
	Responses   []CloseStatus `json:"responses"`
	Paper       bool          `json:"paper"`
	Warning     string        `json:"warning,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type TradingConfig struct {
	PaperTrading    bool     `json:"paper_trading"`
	MaxPositionSize float64  `json:"max_position_size"`
	MaxOrderValue   float64  `json:"max_order_value"`
	AllowedSymbols  []string `json:"allowed_symbols"`
	APIConfigured   bool     `json:"api_configured"`
}
