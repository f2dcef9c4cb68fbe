package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Provider API keys
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	FinnhubAPIKey      string `json:"finnhub_api_key"`

	// Alpaca brokerage
	AlpacaAPIKey    string `json:"alpaca_api_key"`
	AlpacaSecretKey string `json:"alpaca_secret_key"`
	AlpacaPaper     bool   `json:"alpaca_paper"`

	// Provider endpoints
	AlphaVantageBaseURL string `json:"alpha_vantage_base_url"`
	FinnhubBaseURL      string `json:"finnhub_base_url"`

	// Local databases
	CacheDBPath   string `json:"cache_db_path"`
	HistoryDBPath string `json:"history_db_path"`

	// Per-category cache TTLs
	TTLQuote        time.Duration `json:"ttl_quote"`
	TTLNews         time.Duration `json:"ttl_news"`
	TTLFundamentals time.Duration `json:"ttl_fundamentals"`
	TTLProfile      time.Duration `json:"ttl_profile"`
	TTLMacro        time.Duration `json:"ttl_macro"`
	TTLTechnicals   time.Duration `json:"ttl_technicals"`
	TTLAnalysts     time.Duration `json:"ttl_analysts"`

	// Trading risk controls
	MaxPositionSize float64  `json:"max_position_size"`
	MaxOrderValue   float64  `json:"max_order_value"`
	AllowedSymbols  []string `json:"allowed_symbols"`

	// Research agent model
	AgentAPIKey  string `json:"agent_api_key"`
	AgentBaseURL string `json:"agent_base_url"`
	AgentModel   string `json:"agent_model"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		AlpacaPaper: true,

		AlphaVantageBaseURL: "https://www.alphavantage.co/query",
		FinnhubBaseURL:      "https://finnhub.io/api/v1",

		CacheDBPath:   "cache.db",
		HistoryDBPath: "history.db",

		TTLQuote:        time.Minute,
		TTLNews:         15 * time.Minute,
		TTLFundamentals: 24 * time.Hour,
		TTLProfile:      24 * time.Hour,
		TTLMacro:        24 * time.Hour,
		TTLTechnicals:   5 * time.Minute,
		TTLAnalysts:     6 * time.Hour,

		MaxPositionSize: 10000,
		MaxOrderValue:   5000,

		AgentModel: "deepseek-chat",
		LogLevel:   "info",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("ALPACA_API_KEY"); val != "" {
		c.AlpacaAPIKey = val
	}
	if val := os.Getenv("ALPACA_SECRET_KEY"); val != "" {
		c.AlpacaSecretKey = val
	}
	if val := os.Getenv("ALPACA_PAPER"); val != "" {
		if paper, err := strconv.ParseBool(val); err == nil {
			c.AlpacaPaper = paper
		}
	}

	if val := os.Getenv("ALPHA_VANTAGE_BASE_URL"); val != "" {
		c.AlphaVantageBaseURL = val
	}
	if val := os.Getenv("FINNHUB_BASE_URL"); val != "" {
		c.FinnhubBaseURL = val
	}

	if val := os.Getenv("CACHE_DB_PATH"); val != "" {
		c.CacheDBPath = val
	}
	if val := os.Getenv("HISTORY_DB_PATH"); val != "" {
		c.HistoryDBPath = val
	}

	if val := os.Getenv("TRADING_MAX_POSITION_SIZE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxPositionSize = v
		}
	}
	if val := os.Getenv("TRADING_MAX_ORDER_VALUE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxOrderValue = v
		}
	}
	if val := os.Getenv("TRADING_ALLOWED_SYMBOLS"); val != "" {
		c.AllowedSymbols = parseSymbolList(val)
	}

	if val := os.Getenv("AGENT_API_KEY"); val != "" {
		c.AgentAPIKey = val
	}
	if val := os.Getenv("AGENT_BASE_URL"); val != "" {
		c.AgentBaseURL = val
	}
	if val := os.Getenv("AGENT_MODEL"); val != "" {
		c.AgentModel = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.LogFile = val
	}

	if val := os.Getenv("STOCK_RESEARCH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// parseSymbolList splits a comma-separated symbol list, trimming whitespace
// and uppercasing entries. Empty entries are dropped.
func parseSymbolList(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// SymbolAllowed reports whether trading in symbol is permitted. An empty
// allow-list permits every symbol.
func (c *Config) SymbolAllowed(symbol string) bool {
	if len(c.AllowedSymbols) == 0 {
		return true
	}
	target := strings.ToUpper(symbol)
	for _, s := range c.AllowedSymbols {
		if s == target {
			return true
		}
	}
	return false
}

// AlpacaConfigured reports whether both brokerage credentials are present.
func (c *Config) AlpacaConfigured() bool {
	return c.AlpacaAPIKey != "" && c.AlpacaSecretKey != ""
}
