package config

import (
	"sync"
	"time"
)

var (
	pipelineOnce   sync.Once
	pipelineConfig *PipelineConfig

	redisOnce   sync.Once
	redisConfig *RedisConfig
)

// PipelineConfig carries the tunables of the ingestion pipeline.
type PipelineConfig struct {
	StorageBackend string
	MaxFileSize    int64
	// StuckThreshold is the single authoritative window after which an
	// in-flight extraction counts as stuck, used by both the status check
	// and the reconciliation sweep.
	StuckThreshold time.Duration
	// SweepInterval is the cron cadence of the reconciliation service.
	SweepInterval time.Duration
}

func GetPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		loadEnv()
		pipelineConfig = &PipelineConfig{
			StorageBackend: getEnv("STORAGE_BACKEND", "minio"),
			MaxFileSize:    int64(getEnvInt("MAX_FILE_SIZE_MB", 50)) * 1024 * 1024,
			StuckThreshold: getEnvMinutes("STUCK_THRESHOLD_MINUTES", 5*time.Minute),
			SweepInterval:  getEnvMinutes("SWEEP_INTERVAL_MINUTES", 10*time.Minute),
		}
	})
	return pipelineConfig
}

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

func GetRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		loadEnv()
		redisConfig = &RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			DB:       getEnvInt("REDIS_DB", 0),
			Password: getEnv("REDIS_PASSWORD", ""),
		}
	})
	return redisConfig
}
