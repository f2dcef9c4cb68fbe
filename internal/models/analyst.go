package models

// RatingChange is one analyst upgrade or downgrade.
type RatingChange struct {
	Date       string `json:"date"`
	Firm       string `json:"firm"`
	Action     string `json:"action"`
	FromRating string `json:"from_rating"`
	ToRating   string `json:"to_rating"`
}

// AnalystRatings aggregates consensus, rating counts and price targets.
// Price target fields are nil when the provider tier does not expose them.
type AnalystRatings struct {
	Ticker            string         `json:"ticker"`
	Consensus         string         `json:"consensus"`
	BuyCount          int            `json:"buy_count"`
	HoldCount         int            `json:"hold_count"`
	SellCount         int            `json:"sell_count"`
	TotalAnalysts     int            `json:"total_analysts"`
	StrongBuy         int            `json:"strong_buy"`
	StrongSell        int            `json:"strong_sell"`
	PriceTargetAvg    *float64       `json:"price_target_avg"`
	PriceTargetHigh   *float64       `json:"price_target_high"`
	PriceTargetLow    *float64       `json:"price_target_low"`
	PriceTargetMedian *float64       `json:"price_target_median"`
	RecentChanges     []RatingChange `json:"recent_changes"`
}
