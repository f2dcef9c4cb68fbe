package tools

import (
	"testing"

	"stock-research/internal/dataflows"
)

func newsItem(ticker, title string, score, relevance string) dataflows.NewsItem {
	return dataflows.NewsItem{
		Title:         title,
		Source:        "Newswire",
		TimePublished: "20260115T143000",
		TickerSentiment: []dataflows.TickerSentiment{
			{Ticker: ticker, TickerSentimentScore: score, RelevanceScore: relevance},
		},
	}
}

func TestScoreNews(t *testing.T) {
	items := []dataflows.NewsItem{
		newsItem("AAPL", "beat", "0.4", "0.9"),
		newsItem("AAPL", "miss", "-0.3", "0.8"),
		newsItem("AAPL", "quiet", "0.1", "0.5"),
	}

	result := scoreNews("AAPL", items, 10)
	if result.ArticleCount != 3 {
		t.Fatalf("ArticleCount = %d, want 3", result.ArticleCount)
	}
	if result.PositiveCount != 1 || result.NegativeCount != 1 || result.NeutralCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1",
			result.PositiveCount, result.NeutralCount, result.NegativeCount)
	}
	if result.AverageScore != 0.0667 {
		t.Errorf("AverageScore = %v, want 0.0667", result.AverageScore)
	}
	if result.OverallSentiment != "neutral" {
		t.Errorf("OverallSentiment = %q, want neutral", result.OverallSentiment)
	}
	if result.Articles[0].Published != "2026-01-15 14:30" {
		t.Errorf("Published = %q", result.Articles[0].Published)
	}
}

func TestScoreNewsIgnoresOtherTickers(t *testing.T) {
	items := []dataflows.NewsItem{
		{
			Title: "sector roundup",
			TickerSentiment: []dataflows.TickerSentiment{
				{Ticker: "MSFT", TickerSentimentScore: "0.9", RelevanceScore: "0.9"},
				{Ticker: "AAPL", TickerSentimentScore: "-0.5", RelevanceScore: "0.4"},
			},
		},
	}

	result := scoreNews("AAPL", items, 10)
	if result.Articles[0].SentimentScore != -0.5 {
		t.Errorf("SentimentScore = %v, want -0.5", result.Articles[0].SentimentScore)
	}
	if result.Articles[0].Sentiment != "negative" {
		t.Errorf("Sentiment = %q, want negative", result.Articles[0].Sentiment)
	}
}

func TestScoreNewsLimit(t *testing.T) {
	items := []dataflows.NewsItem{
		newsItem("AAPL", "a", "0.5", "0.9"),
		newsItem("AAPL", "b", "0.5", "0.9"),
		newsItem("AAPL", "c", "0.5", "0.9"),
	}

	result := scoreNews("AAPL", items, 2)
	if result.ArticleCount != 2 {
		t.Errorf("ArticleCount = %d, want 2", result.ArticleCount)
	}
	if result.OverallSentiment != "positive" {
		t.Errorf("OverallSentiment = %q, want positive", result.OverallSentiment)
	}
}

func TestScoreNewsEmpty(t *testing.T) {
	result := scoreNews("AAPL", nil, 10)
	if result.OverallSentiment != "neutral" || result.ArticleCount != 0 {
		t.Errorf("empty feed: sentiment=%q count=%d", result.OverallSentiment, result.ArticleCount)
	}
}

func TestSentimentLabel(t *testing.T) {
	cases := []struct {
		score, threshold float64
		want             string
	}{
		{0.3, 0.25, "positive"},
		{0.25, 0.25, "neutral"},
		{-0.3, 0.25, "negative"},
		{0.16, 0.15, "positive"},
		{0.0, 0.15, "neutral"},
	}
	for _, tc := range cases {
		if got := sentimentLabel(tc.score, tc.threshold); got != tc.want {
			t.Errorf("sentimentLabel(%v, %v) = %q, want %q", tc.score, tc.threshold, got, tc.want)
		}
	}
}

func insiderRow(ad, shares, price string) dataflows.InsiderTransaction {
	return dataflows.InsiderTransaction{
		TransactionDate:          "2026-01-10",
		Executive:                "J. Doe",
		ExecutiveTitle:           "CFO",
		SecurityType:             "Common Stock",
		AcquisitionOrDisposition: ad,
		Shares:                   shares,
		SharePrice:               price,
	}
}

func TestAggregateInsiders(t *testing.T) {
	rows := []dataflows.InsiderTransaction{
		insiderRow("A", "1000", "150.00"),
		insiderRow("D", "400", "155.00"),
		insiderRow("A", "200", ""),
	}

	activity := aggregateInsiders("AAPL", rows)
	if activity.TotalBought != 1200 || activity.TotalSold != 400 {
		t.Errorf("totals = %d/%d, want 1200/400", activity.TotalBought, activity.TotalSold)
	}
	if activity.NetShares != 800 {
		t.Errorf("NetShares = %d, want 800", activity.NetShares)
	}
	if activity.NetInsiderSentiment != "net_buying" {
		t.Errorf("sentiment = %q, want net_buying", activity.NetInsiderSentiment)
	}
	if activity.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", activity.TransactionCount)
	}

	if v := activity.Transactions[0].Value; v == nil || *v != 150000 {
		t.Errorf("first transaction value = %v, want 150000", v)
	}
	if activity.Transactions[2].Value != nil {
		t.Errorf("transaction without price should have nil value")
	}
	if activity.Transactions[1].TransactionType != "sell" {
		t.Errorf("disposition should map to sell")
	}
}

func TestAggregateInsidersEmpty(t *testing.T) {
	activity := aggregateInsiders("AAPL", nil)
	if activity.NetInsiderSentiment != "no_data" {
		t.Errorf("sentiment = %q, want no_data", activity.NetInsiderSentiment)
	}
}

func TestAggregateInsidersCaps(t *testing.T) {
	rows := make([]dataflows.InsiderTransaction, 60)
	for i := range rows {
		rows[i] = insiderRow("D", "10", "100")
	}

	activity := aggregateInsiders("AAPL", rows)
	if activity.TransactionCount != 50 {
		t.Errorf("TransactionCount = %d, want 50 (scan cap)", activity.TransactionCount)
	}
	if len(activity.Transactions) != 20 {
		t.Errorf("reported transactions = %d, want 20", len(activity.Transactions))
	}
	if activity.NetInsiderSentiment != "net_selling" {
		t.Errorf("sentiment = %q, want net_selling", activity.NetInsiderSentiment)
	}
}
