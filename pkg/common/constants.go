package common

const (
	RedisStreamPipelineRunRequest = "pipeline.run.request"
	RedisStreamSignalCreated      = "signal.analysis.created"

	RedisStreamGroup    = "pipeline-group"
	RedisStreamConsumer = "pipeline-consumer"
)

const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerStream    = "stream"
	TriggerCLI       = "cli"
)

const SnapshotCacheKey = "market_snapshot"
