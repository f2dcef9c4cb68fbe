package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"stock-research/internal/cache"
	"stock-research/internal/dataflows"
	"stock-research/internal/models"
)

// NewNewsSentimentTool returns the news sentiment tool.
func NewNewsSentimentTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_news_sentiment",
			Desc: "Get recent news articles with sentiment scores for a stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"ticker": {
					Type:     "string",
					Desc:     "Stock symbol (e.g. 'AAPL', 'MSFT')",
					Required: true,
				},
				"limit": {
					Type: "integer",
					Desc: "Max number of articles to return (default 10, max 50)",
				},
			}),
		},
		func(ctx context.Context, input models.NewsSentimentInput) (*models.NewsSentiment, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			limit := input.Limit
			if limit <= 0 {
				limit = 10
			}
			if limit > 50 {
				limit = 50
			}

			key := fmt.Sprintf("news:%s:%d", ticker, limit)
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLNews, func(ctx context.Context) (*models.NewsSentiment, error) {
				items, err := d.AlphaVantage.GetNewsSentiment(ctx, ticker, limit)
				if err != nil {
					return nil, err
				}
				return scoreNews(ticker, items, limit), nil
			})
		},
	)
}

// scoreNews converts provider news items into a scored summary. Sentiment is
// the ticker-specific score when present, not the article-wide one.
func scoreNews(ticker string, items []dataflows.NewsItem, limit int) *models.NewsSentiment {
	result := &models.NewsSentiment{Ticker: ticker, OverallSentiment: "neutral"}

	var total float64
	for _, item := range items {
		if len(result.Articles) >= limit {
			break
		}

		var score, relevance float64
		for _, ts := range item.TickerSentiment {
			if dataflows.NormalizeSymbol(ts.Ticker) == ticker {
				score = parseFloat(ts.TickerSentimentScore)
				relevance = parseFloat(ts.RelevanceScore)
				break
			}
		}

		label := sentimentLabel(score, 0.25)
		switch label {
		case "positive":
			result.PositiveCount++
		case "negative":
			result.NegativeCount++
		default:
			result.NeutralCount++
		}
		total += score

		result.Articles = append(result.Articles, models.NewsArticle{
			Title:          item.Title,
			Source:         item.Source,
			URL:            item.URL,
			Published:      formatNewsTime(item.TimePublished),
			Summary:        item.Summary,
			Sentiment:      label,
			SentimentScore: score,
			Relevance:      relevance,
		})
	}

	result.ArticleCount = len(result.Articles)
	if result.ArticleCount > 0 {
		result.AverageScore = round4(total / float64(result.ArticleCount))
		result.OverallSentiment = sentimentLabel(result.AverageScore, 0.15)
	}
	return result
}

func sentimentLabel(score, threshold float64) string {
	switch {
	case score > threshold:
		return "positive"
	case score < -threshold:
		return "negative"
	default:
		return "neutral"
	}
}

func formatNewsTime(raw string) string {
	t, err := dataflows.ParseDateString(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02 15:04")
}

// NewInsiderTradesTool returns the insider activity tool.
func NewInsiderTradesTool(d *Deps) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_insider_trades",
			Desc:        "Get recent insider buying and selling with a net sentiment summary",
			ParamsOneOf: schema.NewParamsOneOfByParams(tickerParams),
		},
		func(ctx context.Context, input models.TickerInput) (*models.InsiderActivity, error) {
			ticker := dataflows.NormalizeSymbol(input.Ticker)
			if err := dataflows.ValidateSymbol(ticker); err != nil {
				return nil, err
			}

			key := "insiders:" + ticker
			return cache.GetOrFetch(ctx, d.Cache, key, d.Config.TTLAnalysts, func(ctx context.Context) (*models.InsiderActivity, error) {
				rows, err := d.AlphaVantage.GetInsiderTransactions(ctx, ticker)
				if err != nil {
					return nil, err
				}
				return aggregateInsiders(ticker, rows), nil
			})
		},
	)
}

// aggregateInsiders scans the most recent 50 transactions and reports the
// top 20 alongside bought/sold totals.
func aggregateInsiders(ticker string, rows []dataflows.InsiderTransaction) *models.InsiderActivity {
	if len(rows) > 50 {
		rows = rows[:50]
	}

	activity := &models.InsiderActivity{Ticker: ticker}
	for _, row := range rows {
		shares := parseInt(row.Shares)
		txType := "sell"
		if row.AcquisitionOrDisposition == "A" {
			txType = "buy"
			activity.TotalBought += shares
		} else {
			activity.TotalSold += shares
		}

		if len(activity.Transactions) < 20 {
			tx := models.InsiderTransaction{
				Name:            row.Executive,
				Title:           row.ExecutiveTitle,
				TransactionDate: row.TransactionDate,
				TransactionType: txType,
				Shares:          shares,
				SecurityType:    row.SecurityType,
			}
			if price := safeFloat(row.SharePrice); price != nil && *price > 0 {
				tx.Value = floatPtr(round2(*price * float64(shares)))
			}
			activity.Transactions = append(activity.Transactions, tx)
		}
	}

	activity.TransactionCount = len(rows)
	activity.NetShares = activity.TotalBought - activity.TotalSold
	switch {
	case activity.TransactionCount == 0:
		activity.NetInsiderSentiment = "no_data"
	case activity.NetShares > 0:
		activity.NetInsiderSentiment = "net_buying"
	case activity.NetShares < 0:
		activity.NetInsiderSentiment = "net_selling"
	default:
		activity.NetInsiderSentiment = "neutral"
	}
	return activity
}
