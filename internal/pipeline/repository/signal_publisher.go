package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-stock-sentinel/internal/entity"
	"golang-stock-sentinel/pkg/common"

	"github.com/redis/go-redis/v9"
)

// SignalPublisher announces newly persisted analysis records to downstream consumers.
type SignalPublisher interface {
	PublishRecord(ctx context.Context, record *entity.AnalysisRecord) error
}

// NewRedisSignalPublisher publishes records onto a capped Redis stream.
func NewRedisSignalPublisher(client *redis.Client, maxLen int64) SignalPublisher {
	return &redisSignalPublisher{client: client, maxLen: maxLen}
}

type redisSignalPublisher struct {
	client *redis.Client
	maxLen int64
}

func (p *redisSignalPublisher) PublishRecord(ctx context.Context, record *entity.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamSignalCreated,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": payload, "symbol": record.Symbol},
	}).Err(); err != nil {
		return fmt.Errorf("failed to publish record %d: %w", record.ID, err)
	}
	return nil
}

// NewNoopSignalPublisher returns a publisher that drops every record.
func NewNoopSignalPublisher() SignalPublisher {
	return noopSignalPublisher{}
}

type noopSignalPublisher struct{}

func (noopSignalPublisher) PublishRecord(context.Context, *entity.AnalysisRecord) error { return nil }
