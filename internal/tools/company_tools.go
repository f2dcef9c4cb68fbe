package tools

import (
	"context"
	"math"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/dataflows"
	"stock-research/internal/models"
)

var tickerParams = map[string]*schema.ParameterInfo{
	"ticker": {
		Type:     "string",
		Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
		Required: true,
	},
}

// NewCompanyProfileTool returns the company overview tool.
func NewCompanyProfileTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_company_profile",
			Desc:        "Get company profile: name, sector, industry, market cap and description",
			ParamsOneOf: schema.NewParamsOneOfByParams(tickerParams),
		},
		func(ctx context.Context, input models.TickerInput) (*models.CompanyProfile, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "profile:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLProfile, func(ctx context.Context) (*models.CompanyProfile, error) {
				overview, err := d.AlphaVantage.GetCompanyOverview(ctx, ticker)
				if err != nil {
					return nil, err
				}

				marketCap := safeInt(overview["MarketCapitalization"])
				var cap int64
				if marketCap != nil {
					cap = *marketCap
				}

				return &models.CompanyProfile{
					Ticker:      ticker,
					Name:        overview["Name"],
					Description: overview["Description"],
					Sector:      overview["Sector"],
					Industry:    overview["Industry"],
					Exchange:    overview["Exchange"],
					MarketCap:   cap,
					Employees:   safeInt(overview["FullTimeEmployees"]),
					Website:     overview["OfficialSite"],
					IPODate:     overview["IPODate"],
					Country:     overview["Country"],
					Currency:    overview["Currency"],
				}, nil
			})
		},
	)
}

// NewFinancialsTool returns the key-ratios tool built on the company overview.
func NewFinancialsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_financials",
			Desc:        "Get key financial ratios: valuation, margins, growth, dividends and moving averages",
			ParamsOneOf: schema.NewParamsOneOfByParams(tickerParams),
		},
		func(ctx context.Context, input models.TickerInput) (*models.Financials, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "financials:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLFundamentals, func(ctx context.Context) (*models.Financials, error) {
				overview, err := d.AlphaVantage.GetCompanyOverview(ctx, ticker)
				if err != nil {
					return nil, err
				}

				return &models.Financials{
					Ticker:            ticker,
					PERatio:           safeFloat(overview["PERatio"]),
					ForwardPE:         safeFloat(overview["ForwardPE"]),
					PEGRatio:          safeFloat(overview["PEGRatio"]),
					PBRatio:           safeFloat(overview["PriceToBookRatio"]),
					PSRatio:           safeFloat(overview["PriceToSalesRatioTTM"]),
					EVEBITDA:          safeFloat(overview["EVToEBITDA"]),
					EVRevenue:         safeFloat(overview["EVToRevenue"]),
					GrossMargin:       grossMargin(overview),
					OperatingMargin:   safeFloat(overview["OperatingMarginTTM"]),
					ProfitMargin:      safeFloat(overview["ProfitMargin"]),
					ROE:               safeFloat(overview["ReturnOnEquityTTM"]),
					ROA:               safeFloat(overview["ReturnOnAssetsTTM"]),
					RevenueGrowthYoY:  safeFloat(overview["QuarterlyRevenueGrowthYOY"]),
					EarningsGrowthYoY: safeFloat(overview["QuarterlyEarningsGrowthYOY"]),
					DividendYield:     safeFloat(overview["DividendYield"]),
					DividendPerShare:  safeFloat(overview["DividendPerShare"]),
					PayoutRatio:       safeFloat(overview["PayoutRatio"]),
					Beta:              safeFloat(overview["Beta"]),
					FiftyTwoWeekHigh:  safeFloat(overview["52WeekHigh"]),
					FiftyTwoWeekLow:   safeFloat(overview["52WeekLow"]),
					FiftyDayMA:        safeFloat(overview["50DayMovingAverage"]),
					TwoHundredDayMA:   safeFloat(overview["200DayMovingAverage"]),
					SharesOutstanding: safeFloat(overview["SharesOutstanding"]),
					EPS:               safeFloat(overview["EPS"]),
					BookValue:         safeFloat(overview["BookValue"]),
				}, nil
			})
		},
	)
}

// grossMargin derives the gross margin from TTM gross profit over TTM
// revenue since the overview carries no margin field for it.
func grossMargin(overview map[string]string) *float64 {
	profit := safeFloat(overview["GrossProfitTTM"])
	revenue := safeFloat(overview["RevenueTTM"])
	if profit == nil || revenue == nil || *revenue == 0 {
		return nil
	}
	return floatPtr(round4(*profit / *revenue))
}

// NewEarningsTool returns the earnings history tool.
func NewEarningsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_earnings",
			Desc:        "Get recent quarterly earnings with estimate beats/misses and annual EPS history",
			ParamsOneOf: schema.NewParamsOneOfByParams(tickerParams),
		},
		func(ctx context.Context, input models.TickerInput) (*models.Earnings, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "earnings:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLFundamentals, func(ctx context.Context) (*models.Earnings, error) {
				resp, err := d.AlphaVantage.GetEarnings(ctx, ticker)
				if err != nil {
					return nil, err
				}

				quarters := resp.QuarterlyEarnings
				if len(quarters) > 8 {
					quarters = quarters[:8]
				}
				recent := make([]models.QuarterlyEarnings, 0, len(quarters))
				for _, q := range quarters {
					recent = append(recent, convertQuarter(q))
				}

				annuals := resp.AnnualEarnings
				if len(annuals) > 5 {
					annuals = annuals[:5]
				}
				annual := make([]models.AnnualEarnings, 0, len(annuals))
				for _, a := range annuals {
					annual = append(annual, models.AnnualEarnings{
						FiscalYear: a.FiscalDateEnding,
						EPS:        safeFloat(a.ReportedEPS),
					})
				}

				return &models.Earnings{
					Ticker:         ticker,
					RecentQuarters: recent,
					AnnualEarnings: annual,
				}, nil
			})
		},
	)
}

func convertQuarter(q dataflows.EarningsReport) models.QuarterlyEarnings {
	out := models.QuarterlyEarnings{
		FiscalDate:   q.FiscalDateEnding,
		ReportedDate: q.ReportedDate,
		EPSEstimate:  safeFloat(q.EstimatedEPS),
		EPSActual:    safeFloat(q.ReportedEPS),
	}
	if out.EPSActual != nil && out.EPSEstimate != nil {
		surprise := *out.EPSActual - *out.EPSEstimate
		out.Surprise = floatPtr(round4(surprise))
		if *out.EPSEstimate != 0 {
			out.SurprisePercent = floatPtr(round2(surprise / math.Abs(*out.EPSEstimate) * 100))
		}
	}
	return out
}
