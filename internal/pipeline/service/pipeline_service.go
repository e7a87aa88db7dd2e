package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/repository"
	"golang-stock-sentinel/internal/pipeline/strategy"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/telegram"
	"golang-stock-sentinel/pkg/utils"

	"github.com/google/uuid"
)

var (
	// ErrRunInProgress is returned when a run is requested while another is active.
	ErrRunInProgress = errors.New("pipeline run already in progress")
	// ErrSnapshotUnavailable aborts a run when no market snapshot could be obtained.
	ErrSnapshotUnavailable = errors.New("market snapshot unavailable")
)

// PipelineConfig holds the orchestrator's run defaults.
type PipelineConfig struct {
	MaxBatch         int
	ScoreThreshold   int
	TrailingDays     int
	AutoTradeEnabled bool
	StreakThreshold  int
}

// PipelineDependencies are the collaborators of the orchestrator.
type PipelineDependencies struct {
	MarketData MarketDataService
	Scanner    *strategy.Scanner
	Enricher   EnrichmentService
	Scorer     ScoringGateway
	Store      SignalStore
	Streaks    StreakTracker
	Ledger     PaperLedger
	Publisher  repository.SignalPublisher
	Runs       repository.PipelineRunRepository
	Notifier   telegram.Notifier
}

// PipelineService runs the signal pipeline end to end.
type PipelineService interface {
	Run(ctx context.Context, opts dto.RunOptions) (*dto.RunSummary, error)
	CurrentPhase() dto.Phase
}

// NewPipelineService creates a new PipelineService.
func NewPipelineService(deps PipelineDependencies, cfg PipelineConfig, loc *time.Location, now utils.Clock, log *logger.Logger) PipelineService {
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxBatch
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = DefaultScoreThreshold
	}
	if cfg.TrailingDays <= 0 {
		cfg.TrailingDays = DefaultTrailingDays
	}
	if cfg.StreakThreshold <= 0 {
		cfg.StreakThreshold = 2
	}
	if deps.Publisher == nil {
		deps.Publisher = repository.NewNoopSignalPublisher()
	}
	if deps.Notifier == nil {
		deps.Notifier = telegram.NewNoopNotifier()
	}

	s := &pipelineService{deps: deps, cfg: cfg, loc: loc, now: now, logger: log}
	s.phase.Store(dto.PhaseIdle)
	return s
}

type pipelineService struct {
	deps    PipelineDependencies
	cfg     PipelineConfig
	loc     *time.Location
	now     utils.Clock
	logger  *logger.Logger
	running atomic.Bool
	phase   atomic.Value
}

// scored is a candidate carried from scoring to persistence.
type scored struct {
	candidate  dto.Candidate
	enrichment dto.Enrichment
	result     dto.ScoreResult
	outcome    int
}

func (s *pipelineService) CurrentPhase() dto.Phase {
	return s.phase.Load().(dto.Phase)
}

func (s *pipelineService) setPhase(ctx context.Context, p dto.Phase) {
	prev := s.phase.Swap(p).(dto.Phase)
	s.logger.InfoContext(ctx, "Pipeline phase changed", logger.StringField("from", string(prev)), logger.StringField("to", string(p)))
}

// Run executes one pipeline run. Only a snapshot failure aborts the run; every per-candidate failure is isolated.
func (s *pipelineService) Run(ctx context.Context, opts dto.RunOptions) (*dto.RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = s.cfg.MaxBatch
	}
	if opts.ScoreThreshold <= 0 {
		opts.ScoreThreshold = s.cfg.ScoreThreshold
	}
	if opts.Trigger == "" {
		opts.Trigger = common.TriggerManual
	}

	summary := &dto.RunSummary{
		RunID:          uuid.NewString(),
		Trigger:        opts.Trigger,
		StartedAt:      s.now(),
		ScoreThreshold: opts.ScoreThreshold,
		ScannedByRule:  make(map[dto.Strategy]int),
		Outcomes:       []dto.CandidateOutcome{},
		Streaks:        []dto.StreakInfo{},
		Trades:         []dto.TradeOutcome{},
	}
	ctx = logger.WithRunID(ctx, summary.RunID)
	defer s.setPhase(ctx, dto.PhaseIdle)

	s.logger.InfoContext(ctx, "Pipeline run started", logger.StringField("trigger", opts.Trigger), logger.IntField("max_candidates", opts.MaxCandidates))
	history := s.startHistory(ctx, summary)

	s.setPhase(ctx, dto.PhaseScanning)
	snapshot, err := s.deps.MarketData.GetSnapshot(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
		summary.Aborted = true
		summary.AbortReason = err.Error()
		s.logger.ErrorContext(ctx, "Pipeline run aborted", logger.ErrorField(err))
		s.finish(ctx, summary, history, err)
		return summary, err
	}
	summary.SnapshotSize = len(snapshot.Rows)
	summary.Breadth = snapshot.Breadth()
	summary.Sentiment = snapshot.Sentiment()
	s.logger.InfoContext(ctx, "Market sentiment",
		logger.Float64Field("temperature", summary.Sentiment.Temperature.Score),
		logger.StringField("level", string(summary.Sentiment.Temperature.Level)),
		logger.Float64Field("median_change", summary.Sentiment.MedianChange))

	var outputs [][]dto.Candidate
	for _, r := range s.deps.Scanner.Scan(snapshot) {
		summary.ScannedByRule[r.Strategy] = len(r.Candidates)
		outputs = append(outputs, r.Candidates)
	}

	s.setPhase(ctx, dto.PhaseDeduping)
	batch := Aggregate(outputs, opts.MaxCandidates)
	summary.Candidates = len(batch)

	s.setPhase(ctx, dto.PhaseEnrichingScoring)
	items := make([]scored, 0, len(batch))
	for _, c := range batch {
		item := s.enrichAndScore(ctx, c)
		item.outcome = len(summary.Outcomes)
		summary.Outcomes = append(summary.Outcomes, dto.CandidateOutcome{
			Symbol:     c.Symbol,
			Name:       c.Name,
			Strategy:   c.Strategy,
			Sector:     item.enrichment.Sector,
			Score:      item.result.Score,
			Suggestion: item.result.Suggestion,
			Degraded:   item.result.Degraded,
		})
		if item.result.Degraded {
			summary.Degraded++
		} else {
			summary.Scored++
		}
		items = append(items, item)
	}

	s.setPhase(ctx, dto.PhasePersisting)
	var persisted []dto.Candidate
	for _, item := range items {
		outcome := &summary.Outcomes[item.outcome]
		id, err := s.persist(ctx, item)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist record", logger.StringField("symbol", item.candidate.Symbol), logger.ErrorField(err))
			outcome.Error = err.Error()
			summary.Failed++
			continue
		}
		outcome.RecordID = id
		outcome.Persisted = true
		summary.Persisted++
		persisted = append(persisted, item.candidate)
	}

	s.setPhase(ctx, dto.PhaseStreakChecking)
	streaks := s.checkStreaks(ctx, persisted, opts.ScoreThreshold)
	for _, info := range streaks {
		if info.DistinctDayCount >= 2 {
			summary.Streaks = append(summary.Streaks, info)
		}
	}
	sort.SliceStable(summary.Streaks, func(i, j int) bool {
		if summary.Streaks[i].DistinctDayCount != summary.Streaks[j].DistinctDayCount {
			return summary.Streaks[i].DistinctDayCount > summary.Streaks[j].DistinctDayCount
		}
		return summary.Streaks[i].Symbol < summary.Streaks[j].Symbol
	})

	if s.cfg.AutoTradeEnabled && s.deps.Ledger != nil {
		s.setPhase(ctx, dto.PhaseAutoTrading)
		summary.Trades = s.autoTrade(ctx, persisted, streaks)
		if err := s.deps.Ledger.UpdatePrices(ctx, snapshot.Prices()); err != nil {
			s.logger.WarnContext(ctx, "Failed to mark portfolio to market", logger.ErrorField(err))
		}
	}

	s.setPhase(ctx, dto.PhaseSummarizing)
	s.finish(ctx, summary, history, nil)
	return summary, nil
}

// enrichAndScore isolates one candidate; a panic degrades that candidate only.
func (s *pipelineService) enrichAndScore(ctx context.Context, c dto.Candidate) (item scored) {
	item = scored{
		candidate:  c,
		enrichment: dto.Enrichment{Sector: dto.LabelUnknown, Trend: dto.LabelUnknown, VolumeLabel: dto.LabelUnknown},
		result:     dto.DefaultScoreResult(),
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Recovered from panic while scoring candidate", logger.StringField("symbol", c.Symbol), logger.Field("panic", r))
		}
	}()

	item.enrichment = s.deps.Enricher.Enrich(ctx, c)
	item.result = s.deps.Scorer.Score(ctx, c, item.enrichment)
	s.logger.InfoContext(ctx, "Candidate scored",
		logger.StringField("symbol", c.Symbol),
		logger.StringField("strategy", string(c.Strategy)),
		logger.IntField("score", item.result.Score),
		logger.StringField("suggestion", string(item.result.Suggestion)),
		logger.Field("degraded", item.result.Degraded),
	)
	return item
}

// persist saves one record; a panic fails that candidate only.
func (s *pipelineService) persist(ctx context.Context, item scored) (id uint, err error) {
	c := item.candidate
	defer func() {
		if r := recover(); r != nil {
			id, err = 0, fmt.Errorf("panic while persisting %s: %v", c.Symbol, r)
		}
	}()
	record := &entity.AnalysisRecord{
		Symbol:      c.Symbol,
		Name:        c.Name,
		Price:       c.Price,
		ChangePct:   c.ChangePct,
		Turnover:    c.Turnover,
		VolumeRatio: c.VolumeRatio,
		Sector:      item.enrichment.Sector,
		Strategy:    string(c.Strategy),
		Score:       item.result.Score,
		Reason:      item.result.Reason,
		Suggestion:  string(item.result.Suggestion),
		Status:      entity.StatusNew,
	}
	id, err = s.deps.Store.Save(ctx, record)
	if err != nil {
		return 0, err
	}
	if err := s.deps.Publisher.PublishRecord(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish record", logger.StringField("symbol", c.Symbol), logger.ErrorField(err))
	}
	return id, nil
}

func (s *pipelineService) checkStreaks(ctx context.Context, persisted []dto.Candidate, threshold int) map[string]dto.StreakInfo {
	if len(persisted) == 0 {
		return map[string]dto.StreakInfo{}
	}
	symbols := make([]string, 0, len(persisted))
	for _, c := range persisted {
		symbols = append(symbols, c.Symbol)
	}
	streaks, err := s.deps.Streaks.Streaks(ctx, symbols, s.cfg.TrailingDays, threshold)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check streaks", logger.ErrorField(err))
		return map[string]dto.StreakInfo{}
	}
	return streaks
}

func (s *pipelineService) autoTrade(ctx context.Context, persisted []dto.Candidate, streaks map[string]dto.StreakInfo) []dto.TradeOutcome {
	trades := []dto.TradeOutcome{}
	today := s.now().In(s.loc).Format("2006-01-02")

	for _, c := range persisted {
		info := streaks[c.Symbol]
		if info.DistinctDayCount < s.cfg.StreakThreshold {
			continue
		}
		trades = append(trades, s.buy(ctx, c, info, today))
	}
	return trades
}

// buy places one paper order; a panic becomes a failed trade.
func (s *pipelineService) buy(ctx context.Context, c dto.Candidate, info dto.StreakInfo, today string) (trade dto.TradeOutcome) {
	trade = dto.TradeOutcome{Symbol: c.Symbol, Name: c.Name, StreakDays: info.DistinctDayCount, Price: c.Price}
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Recovered from panic during paper buy", logger.StringField("symbol", c.Symbol), logger.Field("panic", r))
			trade.Success = false
			trade.Reason = fmt.Sprintf("panic: %v", r)
		}
	}()

	res, err := s.deps.Ledger.Buy(ctx, dto.BuyRequest{Symbol: c.Symbol, Name: c.Name, Price: c.Price, Date: today})
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "Paper buy failed", logger.StringField("symbol", c.Symbol), logger.ErrorField(err))
		trade.Reason = err.Error()
	case !res.Success:
		s.logger.InfoContext(ctx, "Paper buy rejected", logger.StringField("symbol", c.Symbol), logger.StringField("reason", res.Reason))
		trade.Reason = res.Reason
	default:
		trade.Success = true
		trade.Shares = res.Shares
		trade.Cost = res.Cost.StringFixed(2)
		s.notify(ctx, telegram.FormatTradeMessage(trade, s.now()))
	}
	return trade
}

func (s *pipelineService) startHistory(ctx context.Context, summary *dto.RunSummary) *entity.PipelineRun {
	if s.deps.Runs == nil {
		return nil
	}
	run := &entity.PipelineRun{
		RunID:     summary.RunID,
		Trigger:   summary.Trigger,
		Status:    entity.RunStatusRunning,
		StartedAt: summary.StartedAt.UTC(),
	}
	if err := s.deps.Runs.Create(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "Failed to record run start", logger.ErrorField(err))
		return nil
	}
	return run
}

// finish stamps timings, records the outcome and sends notifications.
func (s *pipelineService) finish(ctx context.Context, summary *dto.RunSummary, run *entity.PipelineRun, runErr error) {
	summary.FinishedAt = s.now()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String()

	if runErr != nil {
		s.notify(ctx, telegram.FormatErrorAlertMessage(summary.FinishedAt, "Pipeline run aborted", runErr.Error(), summary.RunID))
	} else {
		for _, msg := range telegram.FormatRunSummaryMessages(summary) {
			s.notify(ctx, msg)
		}
		s.logger.InfoContext(ctx, "Pipeline run completed",
			logger.IntField("candidates", summary.Candidates),
			logger.IntField("scored", summary.Scored),
			logger.IntField("degraded", summary.Degraded),
			logger.IntField("persisted", summary.Persisted),
			logger.IntField("failed", summary.Failed),
			logger.IntField("trades", len(summary.Trades)),
			logger.StringField("duration", summary.Duration),
		)
	}

	if run == nil {
		return
	}
	run.CompletedAt = sql.NullTime{Time: summary.FinishedAt.UTC(), Valid: true}
	if runErr != nil {
		run.Status = entity.RunStatusFailed
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	} else {
		run.Status = entity.RunStatusCompleted
	}
	if output, err := json.Marshal(summary); err == nil {
		run.Output = output
	}
	if err := s.deps.Runs.Update(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "Failed to record run result", logger.ErrorField(err))
	}
}

func (s *pipelineService) notify(ctx context.Context, text string) {
	if err := s.deps.Notifier.SendMessage(text); err != nil {
		s.logger.WarnContext(ctx, "Failed to send Telegram notification", logger.ErrorField(err))
	}
}
