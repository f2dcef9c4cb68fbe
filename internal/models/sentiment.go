package models

type NewsSentimentInput struct {
	Ticker string `json:"ticker"`
	Limit  int    `json:"limit"`
}

// NewsArticle is one article with its ticker-specific sentiment.
type NewsArticle struct {
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	Published      string  `json:"published"`
	Summary        string  `json:"summary"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
	Relevance      float64 `json:"relevance"`
}

type NewsSentiment struct {
	Ticker           string        `json:"ticker"`
	OverallSentiment string        `json:"overall_sentiment"`
	AverageScore     float64       `json:"average_score"`
	ArticleCount     int           `json:"article_count"`
	PositiveCount    int           `json:"positive_count"`
	NeutralCount     int           `json:"neutral_count"`
	NegativeCount    int           `json:"negative_count"`
	Articles         []NewsArticle `json:"articles"`
}

// InsiderTransaction is one insider buy or sell.
type InsiderTransaction struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	TransactionDate string   `json:"transaction_date"`
	TransactionType string   `json:"transaction_type"`
	Shares          int64    `json:"shares"`
	Value           *float64 `json:"value"`
	SecurityType    string   `json:"security_type"`
}

type InsiderActivity struct {
	Ticker              string               `json:"ticker"`
	NetInsiderSentiment string               `json:"net_insider_sentiment"`
	TotalBought         int64                `json:"total_bought"`
	TotalSold           int64                `json:"total_sold"`
	NetShares           int64                `json:"net_shares"`
	TransactionCount    int                  `json:"transaction_count"`
	Transactions        []InsiderTransaction `json:"transactions"`
}
