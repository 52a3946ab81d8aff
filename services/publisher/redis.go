package publisher

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoRuns is returned by LatestRun when the stream is empty
var ErrNoRuns = errors.New("no pipeline runs published")

// RedisPublisher implements Publisher on a Redis stream
type RedisPublisher struct {
	client          *redis.Client
	stream          string
	streamMaxLength int64
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		stream:          stream,
		streamMaxLength: int64(streamMaxLength),
	}
}

// Ping checks that the server is reachable
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish appends the event and trims the stream to its maximum length
func (p *RedisPublisher) Publish(ctx context.Context, event RunEvent) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.streamMaxLength,
		Approx: true,
		Values: map[string]interface{}{
			"run_id":      event.RunID,
			"records":     strconv.Itoa(event.Records),
			"table":       event.Table,
			"finished_at": event.FinishedAt.UTC().Format(time.RFC3339),
		},
	}).Err()
}

// LatestRun returns the run id of the newest event on the stream
func (p *RedisPublisher) LatestRun(ctx context.Context) (string, error) {
	messages, err := p.client.XRevRangeN(ctx, p.stream, "+", "-", 1).Result()
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", ErrNoRuns
	}

	runID, _ := messages[0].Values["run_id"].(string)
	if runID == "" {
		return "", ErrNoRuns
	}
	return runID, nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
