package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/dataflows"
	"stock-research/internal/models"
)

// Trading tools degrade to an error payload instead of failing the tool call
// so the agent can read the failure. Risk rejections carry type "risk_limit".

const errBrokerNotConfigured = "trading is not configured; set ALPACA_API_KEY and ALPACA_SECRET_KEY"

func (d *Deps) broker() (*dataflows.AlpacaClient, error) {
	if d.Alpaca == nil {
		return nil, errors.New(errBrokerNotConfigured)
	}
	return d.Alpaca, nil
}

func tradeWarning(paper bool) string {
	if paper {
		return "PAPER TRADING"
	}
	return "LIVE TRADING"
}

// orderResult maps a placement outcome to the shared order payload.
func orderResult(client *dataflows.AlpacaClient, order *models.Order, err error) *models.OrderResult {
	if err != nil {
		result := &models.OrderResult{Error: err.Error()}
		if errors.Is(err, dataflows.ErrRiskLimit) {
			result.ErrorType = "risk_limit"
		}
		if client != nil {
			result.Paper = client.Paper()
		}
		return result
	}
	return &models.OrderResult{
		Order:   order,
		Paper:   client.Paper(),
		Warning: tradeWarning(client.Paper()),
	}
}

var orderBaseParams = map[string]*schema.ParameterInfo{
	"symbol": {
		Type:     "string",
		Desc:     "Stock symbol (e.g. 'AAPL')",
		Required: true,
	},
	"qty": {
		Type:     "number",
		Desc:     "Number of shares to trade",
		Required: true,
	},
	"side": {
		Type:     "string",
		Desc:     "'buy' or 'sell'",
		Required: true,
	},
	"time_in_force": {
		Type: "string",
		Desc: "Order duration: 'day', 'gtc', 'ioc', 'fok' (default 'day')",
	},
}

func orderParams(extra map[string]*schema.ParameterInfo) map[string]*schema.ParameterInfo {
	params := make(map[string]*schema.ParameterInfo, len(orderBaseParams)+len(extra))
	for k, v := range orderBaseParams {
		params[k] = v
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func defaultTIF(tif string) string {
	if tif == "" {
		return "day"
	}
	return tif
}

// NewTradingAccountTool returns the account snapshot tool.
func NewTradingAccountTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_trading_account",
			Desc:        "Get trading account details: buying power, cash, equity and restrictions",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.EmptyInput) (*models.AccountResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.AccountResult{Error: err.Error()}, nil
			}
			account, err := client.GetAccount(ctx)
			if err != nil {
				return &models.AccountResult{Error: err.Error()}, nil
			}
			return &models.AccountResult{Account: account}, nil
		},
	)
}

// NewPositionsTool returns the open positions tool.
func NewPositionsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_positions",
			Desc:        "Get all open portfolio positions with market value and unrealized P/L",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.EmptyInput) (*models.PositionsResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.PositionsResult{Error: err.Error()}, nil
			}
			positions, err := client.GetPositions(ctx)
			if err != nil {
				return &models.PositionsResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.PositionsResult{
				Positions: positions,
				Count:     len(positions),
				Paper:     client.Paper(),
			}, nil
		},
	)
}

// NewPositionTool returns the single-position lookup tool.
func NewPositionTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_position",
			Desc: "Get the open position for a specific symbol, or null when flat",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL')",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.SymbolInput) (*models.PositionResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.PositionResult{Error: err.Error()}, nil
			}
			symbol := dataflows.NormalizeSymbol(input.Symbol)
			position, err := client.GetPosition(ctx, symbol)
			if err != nil {
				return &models.PositionResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			result := &models.PositionResult{Position: position, Paper: client.Paper()}
			if position == nil {
				result.Message = fmt.Sprintf("No position in %s", symbol)
			}
			return result, nil
		},
	)
}

// NewMarketOrderTool returns the market order placement tool.
func NewMarketOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "place_market_order",
			Desc:        "Place a market order to buy or sell shares at the current price",
			ParamsOneOf: schema.NewParamsOneOfByParams(orderParams(nil)),
		},
		func(ctx context.Context, input models.MarketOrderInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.PlaceMarketOrder(ctx, input.Symbol, input.Qty, input.Side, defaultTIF(input.TimeInForce))
			return orderResult(client, order, err), nil
		},
	)
}

// NewLimitOrderTool returns the limit order placement tool.
func NewLimitOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "place_limit_order",
			Desc: "Place a limit order that fills only at the limit price or better",
			ParamsOneOf: schema.NewParamsOneOfByParams(orderParams(map[string]*schema.ParameterInfo{
				"limit_price": {
					Type:     "number",
					Desc:     "Maximum price to buy at, or minimum price to sell at",
					Required: true,
				},
			})),
		},
		func(ctx context.Context, input models.LimitOrderInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.PlaceLimitOrder(ctx, input.Symbol, input.Qty, input.Side, input.LimitPrice, defaultTIF(input.TimeInForce))
			return orderResult(client, order, err), nil
		},
	)
}

// NewStopOrderTool returns the stop order placement tool.
func NewStopOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "place_stop_order",
			Desc: "Place a stop order that becomes a market order when the stop price trades",
			ParamsOneOf: schema.NewParamsOneOfByParams(orderParams(map[string]*schema.ParameterInfo{
				"stop_price": {
					Type:     "number",
					Desc:     "Price at which the order triggers",
					Required: true,
				},
			})),
		},
		func(ctx context.Context, input models.StopOrderInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.PlaceStopOrder(ctx, input.Symbol, input.Qty, input.Side, input.StopPrice, defaultTIF(input.TimeInForce))
			return orderResult(client, order, err), nil
		},
	)
}

// NewStopLimitOrderTool returns the stop-limit order placement tool.
func NewStopLimitOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "place_stop_limit_order",
			Desc: "Place a stop-limit order: a limit order placed when the stop price triggers",
			ParamsOneOf: schema.NewParamsOneOfByParams(orderParams(map[string]*schema.ParameterInfo{
				"stop_price": {
					Type:     "number",
					Desc:     "Price at which the limit order is placed",
					Required: true,
				},
				"limit_price": {
					Type:     "number",
					Desc:     "Limit price for the triggered order",
					Required: true,
				},
			})),
		},
		func(ctx context.Context, input models.StopLimitOrderInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.PlaceStopLimitOrder(ctx, input.Symbol, input.Qty, input.Side, input.StopPrice, input.LimitPrice, defaultTIF(input.TimeInForce))
			return orderResult(client, order, err), nil
		},
	)
}

// NewOrderTool returns the order lookup tool.
func NewOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_order",
			Desc: "Get an order by ID with status, fills and timestamps",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "The order ID returned when the order was placed",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.OrderIDInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.GetOrder(ctx, input.OrderID)
			if err != nil {
				return &models.OrderResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.OrderResult{Order: order, Paper: client.Paper()}, nil
		},
	)
}

// NewOrdersTool returns the order list tool.
func NewOrdersTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_orders",
			Desc: "List orders filtered by status and symbol",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"status": {
					Type: "string",
					Desc: "Filter by status: 'open', 'closed' or 'all' (default 'open')",
				},
				"limit": {
					Type: "integer",
					Desc: "Max number of orders to return (default 50)",
				},
				"symbol": {
					Type: "string",
					Desc: "Filter by stock symbol",
				},
			}),
		},
		func(ctx context.Context, input models.OrdersQueryInput) (*models.OrdersResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrdersResult{Error: err.Error()}, nil
			}

			status := input.Status
			if status == "" {
				status = "open"
			}
			limit := input.Limit
			if limit <= 0 {
				limit = 50
			}

			orders, err := client.GetOrders(ctx, status, limit, input.Symbol)
			if err != nil {
				return &models.OrdersResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.OrdersResult{
				Orders: orders,
				Count:  len(orders),
				Paper:  client.Paper(),
			}, nil
		},
	)
}

// NewCancelOrderTool returns the single-order cancel tool.
func NewCancelOrderTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "cancel_order",
			Desc: "Cancel an open order by ID",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "The order ID to cancel",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.OrderIDInput) (*models.CancelResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.CancelResult{Error: err.Error()}, nil
			}
			if err := client.CancelOrder(ctx, input.OrderID); err != nil {
				return &models.CancelResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.CancelResult{
				Status:  "cancelled",
				OrderID: input.OrderID,
				Paper:   client.Paper(),
			}, nil
		},
	)
}

// NewCancelAllOrdersTool returns the cancel-everything tool.
func NewCancelAllOrdersTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "cancel_all_orders",
			Desc:        "Cancel all open orders. Use with caution.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.EmptyInput) (*models.CancelAllResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.CancelAllResult{Error: err.Error()}, nil
			}
			statuses, err := client.CancelAllOrders(ctx)
			if err != nil {
				return &models.CancelAllResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.CancelAllResult{
				CancelledCount: len(statuses),
				Statuses:       statuses,
				Paper:          client.Paper(),
				Warning:        "All open orders have been cancelled",
			}, nil
		},
	)
}

// NewClosePositionTool returns the close-position tool.
func NewClosePositionTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "close_position",
			Desc: "Close the entire position for a symbol with a market order",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "Stock symbol to close the position for",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.SymbolInput) (*models.OrderResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.OrderResult{Error: err.Error()}, nil
			}
			order, err := client.ClosePosition(ctx, dataflows.NormalizeSymbol(input.Symbol))
			return orderResult(client, order, err), nil
		},
	)
}

// NewCloseAllPositionsTool returns the liquidate-everything tool.
func NewCloseAllPositionsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "close_all_positions",
			Desc:        "Close all open positions and cancel all open orders. Use with extreme caution.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.EmptyInput) (*models.CloseAllResult, error) {
			client, err := d.broker()
			if err != nil {
				return &models.CloseAllResult{Error: err.Error()}, nil
			}
			responses, err := client.CloseAllPositions(ctx)
			if err != nil {
				return &models.CloseAllResult{Paper: client.Paper(), Error: err.Error()}, nil
			}
			return &models.CloseAllResult{
				ClosedCount: len(responses),
				Responses:   responses,
				Paper:       client.Paper(),
				Warning:     "ALL POSITIONS CLOSED - " + tradeWarning(client.Paper()),
			}, nil
		},
	)
}

// NewTradingConfigTool returns the risk configuration tool.
func NewTradingConfigTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_trading_config",
			Desc:        "Get the active trading configuration and risk limits",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input models.EmptyInput) (*models.TradingConfig, error) {
			return &models.TradingConfig{
				PaperTrading:    d.Config.AlpacaPaper,
				MaxPositionSize: d.Config.MaxPositionSize,
				MaxOrderValue:   d.Config.MaxOrderValue,
				AllowedSymbols:  d.Config.AllowedSymbols,
				APIConfigured:   d.Config.AlpacaConfigured(),
			}, nil
		},
	)
}
