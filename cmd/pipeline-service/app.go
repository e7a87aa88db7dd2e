package main

import (
	"context"
	"fmt"
	"time"

	"golang-stock-sentinel/internal/pipeline/cache"
	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/markethours"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/internal/pipeline/strategy"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/postgres"
	"golang-stock-sentinel/pkg/redis"
	"golang-stock-sentinel/pkg/retry"
	"golang-stock-sentinel/pkg/sqlite"
	"golang-stock-sentinel/pkg/telegram"
	"golang-stock-sentinel/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// app holds the wired services shared by the serve and run commands.
type app struct {
	cfg         *config.Config
	loc         *time.Location
	db          *gorm.DB
	redisClient *redis.Client
	marketData  service.MarketDataService
	store       service.SignalStore
	streaks     service.StreakTracker
	ledger      service.PaperLedger
	pipeline    service.PipelineService
	runs        service.PipelineRunService
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	case "sqlite":
		db, err := sqlite.NewDB(sqlite.Config{Path: cfg.Database.Path, LogLevel: cfg.Database.LogLevel})
		if err != nil {
			return nil, err
		}
		// SQLite has no migration history of its own; the schema follows the entities.
		if err := repository.AutoMigrate(db.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return db.DB, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func newAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		return repository.NewGeminiAIRepository(cfg, log, genAiClient)
	case "openai":
		return repository.NewOpenAIRepository(cfg, log)
	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}

func buildApp(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, loc: utils.MustLoadLocation(cfg.Market.Timezone)}
	now := utils.Clock(utils.TimeNowCST)

	calendar, err := markethours.NewCalendar(a.loc, cfg.Market.Sessions, cfg.Market.Holidays)
	if err != nil {
		return nil, fmt.Errorf("invalid market calendar: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}

	publisher := repository.NewNoopSignalPublisher()
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		a.redisClient = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.EnsureGroup(ctx, common.RedisStreamPipelineRunRequest, common.RedisStreamGroup); err != nil {
			a.Close()
			return nil, err
		}
		publisher = repository.NewRedisSignalPublisher(client.Client, cfg.Redis.StreamMaxLen)
	}

	notifier := telegram.NewNoopNotifier()
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
	} else {
		appLogger.Warn("Telegram bot token not set, notifications disabled")
	}

	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Initialize repositories
	marketRepo := repository.NewEastmoneyRepository(cfg, appLogger)
	recordRepo := repository.NewAnalysisRecordRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	runRepo := repository.NewPipelineRunRepository(db)

	snapshotCache, err := cache.NewSnapshotCache(cache.Config{
		Dir:         cfg.Cache.Dir,
		TTL:         cfg.Cache.TTL,
		OffHoursTTL: cfg.Cache.OffHoursTTL,
	}, calendar, now, appLogger)
	if err != nil {
		a.Close()
		return nil, err
	}
	retrier := retry.NewExecutor(retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay}, appLogger)

	// Initialize services
	a.marketData = service.NewMarketDataService(marketRepo, snapshotCache, calendar, retrier, cfg.Snapshot.Options(), now, appLogger)
	enricher := service.NewEnrichmentService(marketRepo, retrier, service.EnrichmentConfig{
		HistoryDays:    cfg.Strategy.HistoryDays,
		MinHistoryBars: cfg.Strategy.MinHistoryBars,
		SectorTTL:      cfg.Cache.SectorTTL,
	}, now, appLogger)
	scorer := service.NewScoringGateway(aiRepo, rate.NewLimiter(rate.Every(cfg.Scoring.Pacing), 1), appLogger)
	a.store = service.NewSignalStore(recordRepo, a.loc, now, appLogger)
	a.streaks = service.NewStreakTracker(recordRepo, a.loc, now)
	a.ledger = service.NewPaperLedger(portfolioRepo, service.LedgerConfig{
		Name:           cfg.Portfolio.Name,
		InitialCash:    decimal.NewFromFloat(cfg.Portfolio.InitialCash),
		TargetNotional: decimal.NewFromFloat(cfg.Portfolio.TargetNotional),
		LotSize:        cfg.Portfolio.LotSize,
	}, now, appLogger)
	a.runs = service.NewPipelineRunService(runRepo, appLogger)

	a.pipeline = service.NewPipelineService(service.PipelineDependencies{
		MarketData: a.marketData,
		Scanner:    strategy.NewScanner(cfg.Strategy.TopN),
		Enricher:   enricher,
		Scorer:     scorer,
		Store:      a.store,
		Streaks:    a.streaks,
		Ledger:     a.ledger,
		Publisher:  publisher,
		Runs:       runRepo,
		Notifier:   notifier,
	}, service.PipelineConfig{
		MaxBatch:         cfg.Strategy.MaxBatch,
		ScoreThreshold:   cfg.Scoring.ScoreThreshold,
		TrailingDays:     cfg.Streak.TrailingDays,
		AutoTradeEnabled: cfg.AutoTrade.Enabled,
		StreakThreshold:  cfg.AutoTrade.StreakThreshold,
	}, a.loc, now, appLogger)

	return a, nil
}
