package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/guilherme-rhein/invest-smart-b3/internal/cache"
	"github.com/guilherme-rhein/invest-smart-b3/internal/classifier"
	"github.com/guilherme-rhein/invest-smart-b3/internal/collector"
	"github.com/guilherme-rhein/invest-smart-b3/internal/config"
	"github.com/guilherme-rhein/invest-smart-b3/internal/fundamentals"
	"github.com/guilherme-rhein/invest-smart-b3/internal/logger"
	"github.com/guilherme-rhein/invest-smart-b3/internal/scheduler"
	"github.com/guilherme-rhein/invest-smart-b3/internal/server"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("config validation")
	}

	log := logger.New(cfg.Log.Level)
	log.Info().Msg("invest-smart-b3 starting")

	// Providers and caches
	fetcher := collector.NewYahooFetcher(cfg.Providers.PriceBaseURL)
	log.Info().Str("source", fetcher.Name()).Msg("price data source ready")

	prices := cache.NewPriceSeriesCache(fetcher, cfg.PriceTTL(), log)
	fundClient := fundamentals.NewClient(cfg.Providers.FundamentalsURL, log)
	fund := cache.NewFundamentalsCache(fundClient, log)

	// Classification pipeline
	cl := classifier.New(prices, classifier.Options{
		RSIPeriod:    cfg.Classification.RSIPeriod,
		HistoryBars:  cfg.Classification.HistoryBars,
		Interval:     cfg.Classification.Interval,
		FetchTimeout: cfg.FetchTimeout(),
		Workers:      cfg.Classification.Workers,
	}, log)

	// Cache maintenance
	sched := scheduler.New(prices, fund, log)
	if err := sched.RegisterAll(cfg.Schedule.PruneCron, cfg.Schedule.FundamentalsCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP surface
	srv := server.New(cl, fund, log)
	go func() {
		if err := srv.Start(cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("invest-smart-b3 stopped")
}
