package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-stock-sentinel/internal/pipeline/config"
	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"
	"golang-stock-sentinel/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer turns messages on the run-request stream into pipeline runs.
type RedisConsumer struct {
	cfg         config.Consumer
	redisClient *redis.Client
	pipeline    service.PipelineService
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg config.Consumer, redisClient *redis.Client, pipeline service.PipelineService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:         cfg,
		redisClient: redisClient,
		pipeline:    pipeline,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the consumer's processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.ProcessRunRequest, common.RedisStreamPipelineRunRequest, c.cfg.ReadTimeout)
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// ProcessRunRequest dequeues one run request and executes it.
func (c *RedisConsumer) ProcessRunRequest(ctx context.Context) {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamPipelineRunRequest, ">"},
		Count:    1,
		Block:    c.cfg.BlockTimeout,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		c.logger.Error("Failed to read from run request stream", logger.ErrorField(err))
		return
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	if err := c.HandleMessage(ctx, message); err != nil {
		c.logger.Error("Run request failed", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}

	// Requests are acknowledged even when the run fails; a new request must be sent to retry.
	if err := c.redisClient.XAck(context.WithoutCancel(ctx), common.RedisStreamPipelineRunRequest, common.RedisStreamGroup, message.ID).Err(); err != nil {
		c.logger.Error("Failed to acknowledge run request", logger.ErrorField(err), logger.Field("message_id", message.ID))
	}
}

// HandleMessage decodes one stream message and runs the pipeline for it.
func (c *RedisConsumer) HandleMessage(ctx context.Context, message redis.XMessage) error {
	req, err := DecodeRunRequest(message)
	if err != nil {
		return err
	}

	c.logger.Info("Processing run request", logger.Field("message_id", message.ID), logger.IntField("max_candidates", req.MaxCandidates))
	// A started run completes even if the read context expires or the consumer stops.
	summary, err := c.pipeline.Run(context.WithoutCancel(ctx), dto.RunOptions{
		MaxCandidates:  req.MaxCandidates,
		ScoreThreshold: req.ScoreThreshold,
		Trigger:        common.TriggerStream,
	})
	if errors.Is(err, service.ErrRunInProgress) {
		c.logger.Warn("Dropping run request, another run is active", logger.Field("message_id", message.ID))
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("Run request completed", logger.StringField("run_id", summary.RunID), logger.IntField("persisted", summary.Persisted))
	return nil
}

// DecodeRunRequest reads the JSON 'payload' field. A message without a payload requests a run with defaults.
func DecodeRunRequest(message redis.XMessage) (dto.RunRequest, error) {
	var req dto.RunRequest
	raw, found := message.Values["payload"]
	if !found {
		return req, nil
	}
	payload, ok := raw.(string)
	if !ok {
		return req, fmt.Errorf("field 'payload' is not a string in message %s", message.ID)
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal run request %s: %w", message.ID, err)
	}
	if req.MaxCandidates < 0 || req.ScoreThreshold < 0 || req.ScoreThreshold > 100 {
		return req, fmt.Errorf("run request %s is out of range", message.ID)
	}
	return req, nil
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
