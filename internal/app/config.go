package app

import (
	"time"

	"github.com/yungbote/personachat-backend/internal/platform/logger"
	"github.com/yungbote/personachat-backend/internal/utils"
)

type Config struct {
	Port           string
	MaxUploadBytes int64

	IndexBatchSize       int
	IndexConcurrency     int
	IndexInterBatchDelay time.Duration
	IndexRetryAttempts   int
	IndexRetryBackoff    time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "3001", log)
	maxUploadMB := utils.GetEnvAsInt("MAX_UPLOAD_MB", 50, log)

	batchSize := utils.GetEnvAsInt("INDEX_BATCH_SIZE", 10, log)
	concurrency := utils.GetEnvAsInt("INDEX_CONCURRENCY", 1, log)
	interBatchSec := utils.GetEnvAsInt("INDEX_INTER_BATCH_SECONDS", 2, log)
	retryAttempts := utils.GetEnvAsInt("INDEX_RETRY_ATTEMPTS", 7, log)
	retryBackoffSec := utils.GetEnvAsInt("INDEX_RETRY_BACKOFF_SECONDS", 5, log)

	return Config{
		Port:                 port,
		MaxUploadBytes:       int64(maxUploadMB) << 20,
		IndexBatchSize:       batchSize,
		IndexConcurrency:     concurrency,
		IndexInterBatchDelay: time.Duration(interBatchSec) * time.Second,
		IndexRetryAttempts:   retryAttempts,
		IndexRetryBackoff:    time.Duration(retryBackoffSec) * time.Second,
	}
}
