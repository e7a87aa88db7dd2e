package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/delivery/consumer"
	delivery "golang-stock-sentinel/internal/pipeline/delivery/http"
	_ "golang-stock-sentinel/internal/pipeline/docs"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var (
	configPath     string
	maxCandidates  int
	scoreThreshold int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduler, the dashboard API and the run request consumer",
	Run:   runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the pipeline once and prints the summary",
	Run:   runOnce,
}

func loadConfigAndLogger() (*config.Config, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding, logger.WithFile(logger.FileConfig{
		Path:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
	}))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := loadConfigAndLogger()
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Pipeline Service", logger.Field("name", cfg.App.Name), logger.StringField("database", cfg.Database.Driver))

	a, err := buildApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline service", logger.ErrorField(err))
	}
	defer a.Close()

	// Start scheduler
	if cfg.Scheduler.Enabled {
		schedulerSvc, err := service.NewSchedulerService(a.pipeline, cfg.Scheduler.Triggers, cfg.Scheduler.PollingInterval, utils.TimeNowCST, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
		}
		go schedulerSvc.Start(ctx)
	} else {
		appLogger.Info("Scheduler disabled, runs are on demand only")
	}

	// Start run request consumer
	var redisConsumer *consumer.RedisConsumer
	if a.redisClient != nil {
		redisConsumer = consumer.NewRedisConsumer(cfg.Consumer, a.redisClient.Client, a.pipeline, appLogger)
		redisConsumer.Start(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")

	recordHandler := delivery.NewRecordHandler(a.store, a.streaks, a.loc, delivery.StreakDefaults{
		TrailingDays:   cfg.Streak.TrailingDays,
		ScoreThreshold: cfg.Scoring.ScoreThreshold,
	}, appLogger)
	recordHandler.RegisterRoutes(apiV1.Group("/records"))
	recordHandler.RegisterStreakRoutes(apiV1.Group("/streaks"))

	portfolioHandler := delivery.NewPortfolioHandler(a.ledger, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	pipelineHandler := delivery.NewPipelineHandler(a.pipeline, a.runs, a.marketData, appLogger)
	pipelineHandler.RegisterRoutes(apiV1.Group("/pipeline"))
	pipelineHandler.RegisterSnapshotRoutes(apiV1.Group("/snapshot"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	if redisConsumer != nil {
		redisConsumer.Stop()
	}

	appLogger.Info("Server exiting")
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := loadConfigAndLogger()
	defer func() { _ = appLogger.Sync() }()

	a, err := buildApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline service", logger.ErrorField(err))
	}
	defer a.Close()

	summary, runErr := a.pipeline.Run(ctx, dto.RunOptions{
		MaxCandidates:  maxCandidates,
		ScoreThreshold: scoreThreshold,
		Trigger:        common.TriggerCLI,
	})
	if summary != nil {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			appLogger.Error("Failed to encode run summary", logger.ErrorField(err))
		} else {
			fmt.Println(string(out))
		}
	}
	if runErr != nil {
		appLogger.Error("Pipeline run failed", logger.ErrorField(runErr))
		a.Close()
		os.Exit(1)
	}
}

// @title Stock Sentinel API
// @version 1.0
// @description Signal records, streaks, the paper portfolio and pipeline runs of the stock sentinel service.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "pipeline-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-pipeline.yaml", "Path to the configuration file")

	runCmd.Flags().IntVar(&maxCandidates, "max-candidates", 0, "Maximum candidates to score (0 uses the configured batch size)")
	runCmd.Flags().IntVar(&scoreThreshold, "score-threshold", 0, "Score a streak day must reach (0 uses the configured threshold)")

	rootCmd.AddCommand(serveCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing pipeline-service CLI: %s\n", err)
		os.Exit(1)
	}
}
