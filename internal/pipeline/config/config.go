package config

import (
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/config"
)

// Scheduler holds the daily trigger configuration.
type Scheduler struct {
	Enabled         bool          `mapstructure:"enabled"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	Triggers        []string      `mapstructure:"triggers"`
}

// Market holds exchange calendar settings.
type Market struct {
	Timezone string   `mapstructure:"timezone"`
	Sessions []string `mapstructure:"sessions"`
	Holidays []string `mapstructure:"holidays"`
}

// Cache holds snapshot cache settings.
type Cache struct {
	Dir         string        `mapstructure:"dir"`
	TTL         time.Duration `mapstructure:"ttl"`
	OffHoursTTL time.Duration `mapstructure:"off_hours_ttl"`
	SectorTTL   time.Duration `mapstructure:"sector_ttl"`
}

// Retry holds provider retry settings.
type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

// Strategy holds scanner settings.
type Strategy struct {
	TopN           int `mapstructure:"top_n"`
	MaxBatch       int `mapstructure:"max_batch"`
	HistoryDays    int `mapstructure:"history_days"`
	MinHistoryBars int `mapstructure:"min_history_bars"`
}

// Snapshot holds validation settings for fetched rows. Unset flags default to true.
type Snapshot struct {
	Bounds        dto.Bounds `mapstructure:"bounds"`
	ExcludeST     *bool      `mapstructure:"exclude_st"`
	DropSuspended *bool      `mapstructure:"drop_suspended"`
}

// Options returns the validation options for dto.NewSnapshot.
func (s Snapshot) Options() dto.SnapshotOptions {
	return dto.SnapshotOptions{
		Bounds:        s.Bounds,
		ExcludeST:     s.ExcludeST == nil || *s.ExcludeST,
		DropSuspended: s.DropSuspended == nil || *s.DropSuspended,
	}
}

// Scoring holds scoring gateway settings.
type Scoring struct {
	Pacing         time.Duration `mapstructure:"pacing"`
	ScoreThreshold int           `mapstructure:"score_threshold"`
}

// Streak holds streak tracker settings.
type Streak struct {
	TrailingDays int `mapstructure:"trailing_days"`
}

// AutoTrade holds paper-trading trigger settings.
type AutoTrade struct {
	Enabled         bool `mapstructure:"enabled"`
	StreakThreshold int  `mapstructure:"streak_threshold"`
}

// Portfolio holds paper-trading account settings.
type Portfolio struct {
	Name           string  `mapstructure:"name"`
	InitialCash    float64 `mapstructure:"initial_cash"`
	TargetNotional float64 `mapstructure:"target_notional"`
	LotSize        int64   `mapstructure:"lot_size"`
}

// MarketData holds the quote provider settings.
type MarketData struct {
	QuoteURL            string        `mapstructure:"quote_url"`
	HistoryURL          string        `mapstructure:"history_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	PageSize            int           `mapstructure:"page_size"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string  `mapstructure:"api_key"`
	Model               string  `mapstructure:"model"`
	Temperature         float32 `mapstructure:"temperature"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int     `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for an OpenAI-compatible chat completions API.
type OpenAI struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Temperature         float64       `mapstructure:"temperature"`
	MaxTokens           int           `mapstructure:"max_tokens"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Consumer holds Redis stream consumer settings.
type Consumer struct {
	BlockTimeout time.Duration `mapstructure:"block_timeout"`
	// ReadTimeout bounds one read-and-acknowledge cycle. Runs started from the stream are not bound by it.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// Config holds the full configuration for the pipeline service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
	Market     Market          `mapstructure:"market"`
	Cache      Cache           `mapstructure:"cache"`
	Retry      Retry           `mapstructure:"retry"`
	Strategy   Strategy        `mapstructure:"strategy"`
	Snapshot   Snapshot        `mapstructure:"snapshot"`
	Scoring    Scoring         `mapstructure:"scoring"`
	Streak     Streak          `mapstructure:"streak"`
	AutoTrade  AutoTrade       `mapstructure:"auto_trade"`
	Portfolio  Portfolio       `mapstructure:"portfolio"`
	MarketData MarketData      `mapstructure:"market_data"`
	AI         AI              `mapstructure:"ai"`
	Gemini     Gemini          `mapstructure:"gemini"`
	OpenAI     OpenAI          `mapstructure:"openai"`
	Telegram   Telegram        `mapstructure:"telegram"`
	Consumer   Consumer        `mapstructure:"consumer"`
}

// Load loads the pipeline configuration from the given path and fills unset values with defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills every zero-valued setting with its default.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "pipeline-service"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "json"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "data/sentinel.db"
	}
	if c.Redis.StreamMaxLen == 0 {
		c.Redis.StreamMaxLen = 1000
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}

	if c.Scheduler.PollingInterval == 0 {
		c.Scheduler.PollingInterval = 30 * time.Second
	}
	if len(c.Scheduler.Triggers) == 0 {
		c.Scheduler.Triggers = []string{
			"CRON_TZ=Asia/Shanghai 0 10 * * 1-5",
			"CRON_TZ=Asia/Shanghai 30 14 * * 1-5",
		}
	}

	if c.Market.Timezone == "" {
		c.Market.Timezone = "Asia/Shanghai"
	}
	if len(c.Market.Sessions) == 0 {
		c.Market.Sessions = []string{"09:00-15:00"}
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/cache"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.OffHoursTTL == 0 {
		c.Cache.OffHoursTTL = 24 * time.Hour
	}
	if c.Cache.SectorTTL == 0 {
		c.Cache.SectorTTL = 24 * time.Hour
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = 2 * time.Second
	}

	if c.Strategy.TopN == 0 {
		c.Strategy.TopN = 10
	}
	if c.Strategy.MaxBatch == 0 {
		c.Strategy.MaxBatch = 30
	}
	if c.Strategy.HistoryDays == 0 {
		c.Strategy.HistoryDays = 120
	}
	if c.Strategy.MinHistoryBars == 0 {
		c.Strategy.MinHistoryBars = 20
	}

	if c.Snapshot.Bounds == (dto.Bounds{}) {
		c.Snapshot.Bounds = dto.DefaultBounds()
	}

	if c.Scoring.Pacing == 0 {
		c.Scoring.Pacing = 500 * time.Millisecond
	}
	if c.Scoring.ScoreThreshold == 0 {
		c.Scoring.ScoreThreshold = 75
	}

	if c.Streak.TrailingDays == 0 {
		c.Streak.TrailingDays = 5
	}
	if c.AutoTrade.StreakThreshold == 0 {
		c.AutoTrade.StreakThreshold = 2
	}

	if c.Portfolio.Name == "" {
		c.Portfolio.Name = "default"
	}
	if c.Portfolio.InitialCash == 0 {
		c.Portfolio.InitialCash = 1_000_000
	}
	if c.Portfolio.TargetNotional == 0 {
		c.Portfolio.TargetNotional = 50_000
	}
	if c.Portfolio.LotSize == 0 {
		c.Portfolio.LotSize = 100
	}

	if c.MarketData.QuoteURL == "" {
		c.MarketData.QuoteURL = "https://82.push2.eastmoney.com"
	}
	if c.MarketData.HistoryURL == "" {
		c.MarketData.HistoryURL = "https://push2his.eastmoney.com"
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 15 * time.Second
	}
	if c.MarketData.PageSize == 0 {
		c.MarketData.PageSize = 100
	}
	if c.MarketData.MaxRequestPerMinute == 0 {
		c.MarketData.MaxRequestPerMinute = 600
	}

	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 15
	}
	if c.Gemini.MaxTokenPerMinute == 0 {
		c.Gemini.MaxTokenPerMinute = 1_000_000
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "qwen-plus"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 800
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 60 * time.Second
	}
	if c.OpenAI.MaxRequestPerMinute == 0 {
		c.OpenAI.MaxRequestPerMinute = 60
	}

	if c.Consumer.BlockTimeout == 0 {
		c.Consumer.BlockTimeout = 5 * time.Second
	}
	if c.Consumer.ReadTimeout == 0 {
		c.Consumer.ReadTimeout = 30 * time.Second
	}
}
