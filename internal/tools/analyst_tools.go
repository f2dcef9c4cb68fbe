package tools

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/dataflows"
	"stock-research/internal/models"
)

// NewAnalystRatingsTool returns the analyst consensus tool backed by Finnhub.
func NewAnalystRatingsTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_analyst_ratings",
			Desc:        "Get analyst consensus, rating counts, price targets and recent upgrades/downgrades",
			ParamsOneOf: schema.NewParamsOneOfByParams(tickerParams),
		},
		func(ctx context.Context, input models.TickerInput) (*models.AnalystRatings, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "analysts:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLAnalysts, func(ctx context.Context) (*models.AnalystRatings, error) {
				trends, err := d.Finnhub.GetRecommendations(ctx, ticker)
				if err != nil {
					return nil, err
				}

				ratings := &models.AnalystRatings{Ticker: ticker, Consensus: "no_data"}
				if len(trends) > 0 {
					latest := trends[0]
					ratings.BuyCount = latest.Buy
					ratings.HoldCount = latest.Hold
					ratings.SellCount = latest.Sell
					ratings.StrongBuy = latest.StrongBuy
					ratings.StrongSell = latest.StrongSell
					ratings.TotalAnalysts = latest.Buy + latest.Hold + latest.Sell +
						latest.StrongBuy + latest.StrongSell
					ratings.Consensus = consensusLabel(latest)
				}

				// Price targets need a premium tier. Soft-fail when locked.
				if target, terr := d.Finnhub.GetPriceTarget(ctx, ticker); terr == nil && target.TargetMean > 0 {
					ratings.PriceTargetAvg = floatPtr(target.TargetMean)
					ratings.PriceTargetHigh = floatPtr(target.TargetHigh)
					ratings.PriceTargetLow = floatPtr(target.TargetLow)
					ratings.PriceTargetMedian = floatPtr(target.TargetMedian)
				} else if terr != nil && !errors.Is(terr, context.Canceled) {
					d.Logger.Debug().Err(terr).Str("ticker", ticker).Msg("price target unavailable")
				}

				if changes, cerr := d.Finnhub.GetUpgradesDowngrades(ctx, ticker); cerr == nil {
					if len(changes) > 10 {
						changes = changes[:10]
					}
					for _, c := range changes {
						ratings.RecentChanges = append(ratings.RecentChanges, models.RatingChange{
							Date:       c.Date(),
							Firm:       c.Company,
							Action:     c.Action,
							FromRating: c.FromGrade,
							ToRating:   c.ToGrade,
						})
					}
				} else {
					d.Logger.Debug().Err(cerr).Str("ticker", ticker).Msg("upgrade/downgrade history unavailable")
				}

				return ratings, nil
			})
		},
	)
}

// consensusLabel collapses the latest rating counts into a single label.
func consensusLabel(t dataflows.RecommendationTrend) string {
	buy := t.Buy + t.StrongBuy
	sell := t.Sell + t.StrongSell
	total := buy + t.Hold + sell
	if total == 0 {
		return "no_data"
	}

	buyRatio := float64(buy) / float64(total)
	sellRatio := float64(sell) / float64(total)
	switch {
	case buyRatio > 0.6:
		return "strong_buy"
	case buyRatio > 0.4:
		return "buy"
	case sellRatio > 0.6:
		return "strong_sell"
	case sellRatio > 0.4:
		return "sell"
	default:
		return "hold"
	}
}
