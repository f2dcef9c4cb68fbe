// Package cli wires the configuration, cache, provider clients and tools
// into the stock-research command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"stock-research/internal/cache"
	"stock-research/internal/config"
	"stock-research/internal/dataflows"
	"stock-research/internal/logging"
	"stock-research/internal/tools"
)

// newDeps builds the shared tool dependencies. The returned cleanup closes
// the cache database.
func newDeps(cfg *config.Config) (*tools.Deps, func(), error) {
	logger := newLogger(cfg)

	c, err := cache.New(cfg.CacheDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}

	deps := &tools.Deps{
		Config:       cfg,
		Cache:        c,
		AlphaVantage: dataflows.NewAlphaVantageClient(cfg.AlphaVantageBaseURL, cfg.AlphaVantageAPIKey, logger),
		Finnhub:      dataflows.NewFinnhubClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, logger),
		Yahoo:        dataflows.NewYahooClient(logger),
		Logger:       logger,
	}

	alpaca, err := dataflows.NewAlpacaClient(dataflows.AlpacaConfig{
		APIKey:          cfg.AlpacaAPIKey,
		SecretKey:       cfg.AlpacaSecretKey,
		Paper:           cfg.AlpacaPaper,
		MaxPositionSize: cfg.MaxPositionSize,
		MaxOrderValue:   cfg.MaxOrderValue,
		AllowedSymbols:  cfg.AllowedSymbols,
	}, logger)
	switch {
	case err == nil:
		deps.Alpaca = alpaca
	case errors.Is(err, dataflows.ErrNotConfigured):
		logger.Debug().Msg("alpaca keys not set, trading tools disabled")
	default:
		c.Close()
		return nil, nil, err
	}

	return deps, func() { c.Close() }, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.LogLevel
	if cfg.LogFile != "" {
		logCfg.File = true
		logCfg.FilePath = cfg.LogFile
	}
	if cfg.Debug {
		logCfg.Level = "debug"
	}
	return logging.NewLogger(logCfg)
}
