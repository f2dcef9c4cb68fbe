package models

type MacroContextInput struct{}

// MarketEnvironment is the aggregate read on macro conditions.
type MarketEnvironment struct {
	Outlook     string   `json:"outlook"`
	SignalScore float64  `json:"signal_score"`
	Notes       []string `json:"notes"`
}

// MacroContext collects the headline economic indicators. Each provider
// series can fail independently; the matching Error field carries the reason
// while the rest of the snapshot stays usable.
type MacroContext struct {
	FedFundsRate *float64 `json:"fed_funds_rate,omitempty"`
	FedFundsDate string   `json:"fed_funds_date,omitempty"`
	FedFundsErr  string   `json:"fed_funds_rate_error,omitempty"`

	TenYearYield *float64 `json:"ten_year_yield,omitempty"`
	TwoYearYield *float64 `json:"two_year_yield,omitempty"`
	YieldSpread  *float64 `json:"yield_spread,omitempty"`
	YieldCurve   string   `json:"yield_curve,omitempty"`
	TreasuryErr  string   `json:"treasury_error,omitempty"`

	GDPGrowthQoQ *float64 `json:"gdp_growth_qoq,omitempty"`
	GDPLatest    *float64 `json:"gdp_latest,omitempty"`
	GDPDate      string   `json:"gdp_date,omitempty"`
	GDPErr       string   `json:"gdp_error,omitempty"`

	UnemploymentRate *float64 `json:"unemployment_rate,omitempty"`
	UnemploymentDate string   `json:"unemployment_date,omitempty"`
	UnemploymentErr  string   `json:"unemployment_error,omitempty"`

	CPIYoY    *float64 `json:"cpi_yoy,omitempty"`
	CPILatest *float64 `json:"cpi_latest,omitempty"`
	CPIDate   string   `json:"cpi_date,omitempty"`
	CPIErr    string   `json:"cpi_error,omitempty"`

	Environment MarketEnvironment `json:"environment"`
}
