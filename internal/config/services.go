package config

import "time"

type OrchestratorCfg struct {
	// Workers is the number of submissions graded concurrently; 1 keeps batches sequential
	Workers         int
	MaxAttempts     int
	RetryBaseDelay  time.Duration
	ExtractParallel int
}

func NewOrchestratorCfg() *OrchestratorCfg {
	workers := getEnvAsInt("GRADING_WORKERS", 1)
	if workers < 1 {
		workers = 1
	}
	attempts := getEnvAsInt("GRADING_MAX_ATTEMPTS", 1)
	if attempts < 1 {
		attempts = 1
	}
	return &OrchestratorCfg{
		Workers:         workers,
		MaxAttempts:     attempts,
		RetryBaseDelay:  time.Duration(getEnvAsInt("GRADING_RETRY_BASE_DELAY_MS", 500)) * time.Millisecond,
		ExtractParallel: getEnvAsInt("EXTRACT_PARALLEL", 4),
	}
}
