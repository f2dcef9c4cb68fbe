package models

// CompanyProfile is a subset of the Alpha Vantage company overview.
type CompanyProfile struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Exchange    string `json:"exchange"`
	MarketCap   int64  `json:"market_cap"`
	Employees   *int64 `json:"employees"`
	Website     string `json:"website"`
	IPODate     string `json:"ipo_date"`
	Country     string `json:"country"`
	Currency    string `json:"currency"`
}

// Financials holds the key ratio set derived from the company overview.
// Pointer fields are nil when the provider reports no value.
type Financials struct {
	Ticker string `json:"ticker"`

	// Valuation
	PERatio   *float64 `json:"pe_ratio"`
	ForwardPE *float64 `json:"forward_pe"`
	PEGRatio  *float64 `json:"peg_ratio"`
	PBRatio   *float64 `json:"pb_ratio"`
	PSRatio   *float64 `json:"ps_ratio"`
	EVEBITDA  *float64 `json:"ev_ebitda"`
	EVRevenue *float64 `json:"ev_revenue"`

	// Profitability
	GrossMargin     *float64 `json:"gross_margin"`
	OperatingMargin *float64 `json:"operating_margin"`
	ProfitMargin    *float64 `json:"profit_margin"`
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`

	// Growth
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy"`
	EarningsGrowthYoY *float64 `json:"earnings_growth_yoy"`

	// Dividend
	DividendYield    *float64 `json:"dividend_yield"`
	DividendPerShare *float64 `json:"dividend_per_share"`
	PayoutRatio      *float64 `json:"payout_ratio"`

	Beta              *float64 `json:"beta"`
	FiftyTwoWeekHigh  *float64 `json:"52_week_high"`
	FiftyTwoWeekLow   *float64 `json:"52_week_low"`
	FiftyDayMA        *float64 `json:"50_day_ma"`
	TwoHundredDayMA   *float64 `json:"200_day_ma"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
	EPS               *float64 `json:"eps"`
	BookValue         *float64 `json:"book_value"`
}

// QuarterlyEarnings is one reported quarter with the estimate miss/beat.
type QuarterlyEarnings struct {
	FiscalDate      string   `json:"fiscal_date"`
	ReportedDate    string   `json:"reported_date"`
	EPSEstimate     *float64 `json:"eps_estimate"`
	EPSActual       *float64 `json:"eps_actual"`
	Surprise        *float64 `json:"surprise"`
	SurprisePercent *float64 `json:"surprise_percent"`
}

type AnnualEarnings struct {
	FiscalYear string   `json:"fiscal_year"`
	EPS        *float64 `json:"eps"`
}

type Earnings struct {
	Ticker         string              `json:"ticker"`
	RecentQuarters []QuarterlyEarnings `json:"recent_quarters"`
	AnnualEarnings []AnnualEarnings    `json:"annual_earnings"`
}
