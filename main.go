package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"macro-radar-bot/bot"
	"macro-radar-bot/config"
	"macro-radar-bot/digest"
	"macro-radar-bot/health"
	"macro-radar-bot/market"
	"macro-radar-bot/news"
	"macro-radar-bot/scheduler"
	"macro-radar-bot/translate"
)

const startupText = "Macro Radar ✅\n\nBot connected and running."

func main() {
	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	slog.Info("starting Macro Radar",
		"send_hours", cfg.SendHours,
		"utc_offset", cfg.UTCOffsetHours(),
		"feeds", len(cfg.FeedURLs),
		"port", cfg.Port,
	)

	timeout := time.Duration(cfg.FetchTimeoutSecs) * time.Second
	location := scheduler.FixedZone(cfg.UTCOffsetHours())

	// Initialize components
	sender, err := bot.NewSender(cfg.BotToken, cfg.ChatID,
		bot.WithAPIURL(cfg.TelegramAPIURL),
		bot.WithTimeout(timeout),
	)
	if err != nil {
		slog.Error("failed to initialize Telegram sender", "error", err)
		os.Exit(1)
	}

	quotes := market.NewClient(
		market.WithBinanceURL(cfg.BinanceURL),
		market.WithQuoteURL(cfg.QuoteURL),
		market.WithTimeout(timeout),
	)
	headlines := news.NewFetcher(cfg.FeedURLs,
		news.WithTimeout(timeout),
		news.WithPerFeedLimit(cfg.PerFeedLimit),
		news.WithMaxHeadlines(cfg.MaxHeadlines),
	)

	runnerOpts := []digest.Option{
		digest.WithSymbols(cfg.BTCSymbol, cfg.EquitySymbol, cfg.CurrencySymbol),
		digest.WithLocation(location),
	}
	if cfg.Translate() {
		translator := translate.NewBestEffort(translate.NewClient(
			translate.WithTarget(cfg.TranslateTo),
			translate.WithBaseURL(cfg.TranslateURL),
			translate.WithTimeout(timeout),
		))
		runnerOpts = append(runnerOpts, digest.WithTranslator(translator))
	}
	runner := digest.NewRunner(quotes, headlines, sender, runnerOpts...)

	sched, err := scheduler.NewScheduler(location, cfg.SendHours, runner.Run,
		scheduler.WithInterval(time.Duration(cfg.PollIntervalSecs)*time.Second),
	)
	if err != nil {
		slog.Error("failed to initialize scheduler", "error", err)
		os.Exit(1)
	}

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StartupMessage {
		if _, err := sender.Send(ctx, startupText, false); err != nil {
			slog.Warn("startup message not delivered", "error", err)
		}
	}

	if err := sched.Start(ctx); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	slog.Info("scheduler started", "interval_secs", cfg.PollIntervalSecs)

	// Liveness server runs until shutdown
	if err := health.NewServer(cfg.Port).Run(ctx); err != nil {
		slog.Error("liveness server failed", "error", err)
	}

	stopCtx := sched.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		slog.Warn("timed out waiting for in-flight send")
	}
	slog.Info("Macro Radar stopped")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
