// Package tools exposes every research operation as an eino tool so the set
// can be bound to an agent or invoked directly from the CLI.
package tools

import (
	"github.com/cloudwego/eino/components/tool"
	"github.com/rs/zerolog"

	"stock-research/internal/cache"
	"stock-research/internal/config"
	"stock-research/internal/dataflows"
)

// Deps carries the shared collaborators every tool constructor receives.
// Alpaca is nil when brokerage credentials are not configured; trading tools
// then report the missing configuration in their outputs.
type Deps struct {
	Config       *config.Config
	Cache        *cache.Cache
	AlphaVantage *dataflows.AlphaVantageClient
	Finnhub      *dataflows.FinnhubClient
	Yahoo        *dataflows.YahooClient
	Alpaca       *dataflows.AlpacaClient
	Logger       zerolog.Logger
}

// All returns the full tool set in registration order.
func All(d *Deps) []tool.BaseTool {
	return []tool.BaseTool{
		NewQuoteTool(d),
		NewHistoricalPricesTool(d),
		NewCompanyProfileTool(d),
		NewFinancialsTool(d),
		NewEarningsTool(d),
		NewAnalystRatingsTool(d),
		NewNewsSentimentTool(d),
		NewInsiderTradesTool(d),
		NewTechnicalIndicatorsTool(d),
		NewSupportResistanceTool(d),
		NewMacroContextTool(d),
		NewTradingAccountTool(d),
		NewPositionsTool(d),
		NewPositionTool(d),
		NewMarketOrderTool(d),
		NewLimitOrderTool(d),
		NewStopOrderTool(d),
		NewStopLimitOrderTool(d),
		NewOrderTool(d),
		NewOrdersTool(d),
		NewCancelOrderTool(d),
		NewCancelAllOrdersTool(d),
		NewClosePositionTool(d),
		NewCloseAllPositionsTool(d),
		NewTradingConfigTool(d),
	}
}
