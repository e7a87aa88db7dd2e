package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService fires the pipeline at its configured times of day.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessTriggers(ctx context.Context, now time.Time)
	NextRuns() []time.Time
}

type trigger struct {
	expression string
	schedule   cron.Schedule
	next       time.Time
}

// NewSchedulerService parses the trigger expressions. Expressions may carry a CRON_TZ= prefix.
func NewSchedulerService(pipeline PipelineService, expressions []string, pollingInterval time.Duration, now utils.Clock, log *logger.Logger) (SchedulerService, error) {
	if pollingInterval <= 0 {
		return nil, fmt.Errorf("polling interval must be positive")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	start := now()
	triggers := make([]*trigger, 0, len(expressions))
	for _, expr := range expressions {
		schedule, err := parser.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trigger %q: %w", expr, err)
		}
		triggers = append(triggers, &trigger{expression: expr, schedule: schedule, next: schedule.Next(start)})
	}

	return &schedulerService{
		pipeline:        pipeline,
		triggers:        triggers,
		pollingInterval: pollingInterval,
		now:             now,
		logger:          log,
	}, nil
}

type schedulerService struct {
	mu              sync.Mutex
	pipeline        PipelineService
	triggers        []*trigger
	pollingInterval time.Duration
	now             utils.Clock
	logger          *logger.Logger
}

// Start begins the periodic trigger polling loop.
func (s *schedulerService) Start(ctx context.Context) {
	for _, t := range s.NextRuns() {
		s.logger.Info("Pipeline trigger scheduled", logger.Field("next_run", t))
	}

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessTriggers(ctx, s.now())
		}
	}
}

// ProcessTriggers runs the pipeline once when any trigger is due, then advances every trigger that came due by the end of the run.
func (s *schedulerService) ProcessTriggers(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*trigger
	for _, t := range s.triggers {
		if !now.Before(t.next) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Pipeline trigger fired", logger.StringField("trigger", due[0].expression))
	summary, err := s.pipeline.Run(ctx, dto.RunOptions{Trigger: common.TriggerScheduled})
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Warn("Skipping scheduled run, another run is active")
	case err != nil:
		s.logger.Error("Scheduled pipeline run failed", logger.ErrorField(err))
	default:
		s.logger.Info("Scheduled pipeline run finished", logger.StringField("run_id", summary.RunID), logger.IntField("persisted", summary.Persisted))
	}

	// Every trigger that came due before the run ended is skipped, not replayed.
	after := now
	if t := s.now(); t.After(after) {
		after = t
	}
	for _, t := range s.triggers {
		if !after.Before(t.next) {
			t.next = t.schedule.Next(after)
		}
	}
}

// NextRuns returns the next fire time of every trigger.
func (s *schedulerService) NextRuns() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]time.Time, 0, len(s.triggers))
	for _, t := range s.triggers {
		out = append(out, t.next)
	}
	return out
}
