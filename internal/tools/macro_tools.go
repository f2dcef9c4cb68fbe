package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/models"
)

// NewMacroContextTool returns the macroeconomic snapshot tool. Each series is
// fetched independently so one failing endpoint degrades the snapshot instead
// of failing it.
func NewMacroContextTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_macro_context",
			Desc:        "Get macroeconomic indicators: Fed funds rate, treasury yields, GDP, unemployment and inflation",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.MacroContextInput) (*models.MacroContext, error) {
			return cache.GetOrFetch(ctx, d.Cache, "macro:context", d.Config.TTLMacro, func(ctx context.Context) (*models.MacroContext, error) {
				result := &models.MacroContext{}

				if series, err := d.AlphaVantage.GetFederalFundsRate(ctx); err != nil {
					result.FedFundsErr = err.Error()
				} else if len(series.Data) > 0 {
					result.FedFundsRate = floatPtr(parseFloat(series.Data[0].Value))
					result.FedFundsDate = series.Data[0].Date
				}

				fetchTreasury(ctx, d, result)

				if series, err := d.AlphaVantage.GetRealGDP(ctx); err != nil {
					result.GDPErr = err.Error()
				} else if len(series.Data) >= 2 {
					current := parseFloat(series.Data[0].Value)
					prev := parseFloat(series.Data[1].Value)
					if prev > 0 {
						result.GDPGrowthQoQ = floatPtr(round2((current - prev) / prev * 100))
					}
					result.GDPLatest = floatPtr(current)
					result.GDPDate = series.Data[0].Date
				}

				if series, err := d.AlphaVantage.GetUnemployment(ctx); err != nil {
					result.UnemploymentErr = err.Error()
				} else if len(series.Data) > 0 {
					result.UnemploymentRate = floatPtr(parseFloat(series.Data[0].Value))
					result.UnemploymentDate = series.Data[0].Date
				}

				// YoY inflation needs thirteen monthly observations.
				if series, err := d.AlphaVantage.GetCPI(ctx); err != nil {
					result.CPIErr = err.Error()
				} else if len(series.Data) >= 13 {
					current := parseFloat(series.Data[0].Value)
					yearAgo := parseFloat(series.Data[12].Value)
					if yearAgo > 0 {
						result.CPIYoY = floatPtr(round2((current - yearAgo) / yearAgo * 100))
					}
					result.CPILatest = floatPtr(current)
					result.CPIDate = series.Data[0].Date
				}

				result.Environment = assessEnvironment(result)
				return result, nil
			})
		},
	)
}

func fetchTreasury(ctx context.Context, d *Deps, result *models.MacroContext) {
	tenYear, err := d.AlphaVantage.GetTreasuryYield(ctx, "10year")
	if err != nil {
		result.TreasuryErr = err.Error()
		return
	}
	twoYear, err := d.AlphaVantage.GetTreasuryYield(ctx, "2year")
	if err != nil {
		result.TreasuryErr = err.Error()
		return
	}

	if len(tenYear.Data) > 0 {
		result.TenYearYield = floatPtr(parseFloat(tenYear.Data[0].Value))
	}
	if len(twoYear.Data) > 0 {
		result.TwoYearYield = floatPtr(parseFloat(twoYear.Data[0].Value))
	}
	if result.TenYearYield == nil || result.TwoYearYield == nil {
		return
	}

	spread := *result.TenYearYield - *result.TwoYearYield
	result.YieldSpread = floatPtr(round2(spread))
	switch {
	case spread < 0:
		result.YieldCurve = "inverted"
	case spread < 0.25:
		result.YieldCurve = "flat"
	default:
		result.YieldCurve = "normal"
	}
}

// assessEnvironment votes each indicator into a favorable/challenging/mixed
// outlook. Missing indicators contribute their neutral branch, matching the
// zero-default reads below.
func assessEnvironment(data *models.MacroContext) models.MarketEnvironment {
	var signals []int
	var notes []string

	fedRate := floatOrZero(data.FedFundsRate)
	switch {
	case fedRate > 5:
		signals = append(signals, -1)
		notes = append(notes, "High interest rates (restrictive)")
	case fedRate < 2:
		signals = append(signals, 1)
		notes = append(notes, "Low interest rates (accommodative)")
	default:
		signals = append(signals, 0)
		notes = append(notes, "Moderate interest rates")
	}

	switch data.YieldCurve {
	case "inverted":
		signals = append(signals, -1)
		notes = append(notes, "Inverted yield curve (recession signal)")
	case "normal":
		signals = append(signals, 1)
		notes = append(notes, "Normal yield curve")
	}

	unemp := floatOrZero(data.UnemploymentRate)
	if unemp < 4 {
		signals = append(signals, 1)
		notes = append(notes, "Low unemployment")
	} else if unemp > 6 {
		signals = append(signals, -1)
		notes = append(notes, "High unemployment")
	}

	cpiYoY := floatOrZero(data.CPIYoY)
	switch {
	case cpiYoY > 4:
		signals = append(signals, -1)
		notes = append(notes, fmt.Sprintf("High inflation (%.1f%%)", cpiYoY))
	case cpiYoY < 2:
		signals = append(signals, 0)
		notes = append(notes, "Low inflation")
	default:
		signals = append(signals, 1)
		notes = append(notes, "Moderate inflation")
	}

	var sum int
	for _, s := range signals {
		sum += s
	}
	avg := 0.0
	if len(signals) > 0 {
		avg = float64(sum) / float64(len(signals))
	}

	outlook := "mixed"
	switch {
	case avg > 0.3:
		outlook = "favorable"
	case avg < -0.3:
		outlook = "challenging"
	}

	return models.MarketEnvironment{
		Outlook:     outlook,
		SignalScore: round2(avg),
		Notes:       notes,
	}
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
