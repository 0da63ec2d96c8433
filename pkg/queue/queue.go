package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	cfg "github.com/hchen1203/hotel-doc-ingest/config"
)

// TaskTypeExtraction is the asynq task type for one extraction attempt.
const TaskTypeExtraction = "extraction:process"

// statusTTL bounds how long the last known attempt state lives in redis.
const statusTTL = 24 * time.Hour

// ExtractionTask is the unit of work handed to the worker. RequestID
// correlates every ProcessingLog entry of the attempt.
type ExtractionTask struct {
	FileID       string    `json:"fileId"`
	RequestID    string    `json:"requestId"`
	StoragePath  string    `json:"storagePath"`
	DocumentType string    `json:"documentType"`
	EnqueuedAt   time.Time `json:"enqueuedAt"`
}

// Queue dispatches extraction attempts and caches their last known state.
type Queue interface {
	Enqueue(ctx context.Context, task *ExtractionTask) error
	SaveStatus(ctx context.Context, fileID, status string) error
	GetStatus(ctx context.Context, fileID string) (string, error)
}

// AsynqQueue implements Queue on asynq with a redis status cache.
type AsynqQueue struct {
	client *asynq.Client
	redis  *redis.Client
}

func GetQueue() (*AsynqQueue, error) {
	rc := cfg.GetRedisConfig()
	redisOpt := asynq.RedisClientOpt{Addr: rc.Addr, DB: rc.DB, Password: rc.Password}

	return &AsynqQueue{
		client: asynq.NewClient(redisOpt),
		redis: redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			DB:       rc.DB,
			Password: rc.Password,
		}),
	}, nil
}

func (q *AsynqQueue) Enqueue(ctx context.Context, task *ExtractionTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	// MaxRetry is zero on purpose: a failed extraction attempt is terminal
	// and retry is a user-initiated action, never automatic.
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(30 * time.Minute),
		asynq.TaskID(task.RequestID),
		asynq.Queue("default"),
	}

	t := asynq.NewTask(TaskTypeExtraction, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return q.SaveStatus(ctx, task.FileID, "queued")
}

func (q *AsynqQueue) SaveStatus(ctx context.Context, fileID, status string) error {
	key := fmt.Sprintf("extraction_status:%s", fileID)
	if err := q.redis.Set(ctx, key, status, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func (q *AsynqQueue) GetStatus(ctx context.Context, fileID string) (string, error) {
	key := fmt.Sprintf("extraction_status:%s", fileID)
	status, err := q.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

func (q *AsynqQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.redis.Close()
}
