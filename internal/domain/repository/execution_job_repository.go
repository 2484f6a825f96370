package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"freecode/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// ExecutionJobRepository keeps a bounded, newest-first history of judge
// calls per user.
type ExecutionJobRepository interface {
	Append(ctx context.Context, job *model.ExecutionJob) error
	ListByUser(ctx context.Context, userID string, limit int) ([]model.ExecutionJob, error)
}

type redisExecutionJobRepository struct {
	rdb    *redis.Client
	maxLen int
	ttl    time.Duration
}

func NewRedisExecutionJobRepository(rdb *redis.Client, maxLen int, ttl time.Duration) ExecutionJobRepository {
	if maxLen <= 0 {
		maxLen = 20
	}
	return &redisExecutionJobRepository{rdb: rdb, maxLen: maxLen, ttl: ttl}
}

func executionHistoryKey(userID string) string {
	return "execution_history:" + userID
}

func (r *redisExecutionJobRepository) Append(ctx context.Context, job *model.ExecutionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redisExecutionJobRepository.Append: marshal: %w", err)
	}
	key := executionHistoryKey(job.UserID)

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(r.maxLen-1))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisExecutionJobRepository.Append: %w", err)
	}
	return nil
}

func (r *redisExecutionJobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ExecutionJob, error) {
	if limit <= 0 || limit > r.maxLen {
		limit = r.maxLen
	}
	raw, err := r.rdb.LRange(ctx, executionHistoryKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisExecutionJobRepository.ListByUser: %w", err)
	}
	jobs := make([]model.ExecutionJob, 0, len(raw))
	for _, item := range raw {
		var job model.ExecutionJob
		if err := json.Unmarshal([]byte(item), &job); err != nil {
			return nil, fmt.Errorf("redisExecutionJobRepository.ListByUser: decode: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

type memoryExecutionJobRepository struct {
	mu     sync.Mutex
	maxLen int
	byUser map[string][]model.ExecutionJob
}

func NewMemoryExecutionJobRepository(maxLen int) ExecutionJobRepository {
	if maxLen <= 0 {
		maxLen = 20
	}
	return &memoryExecutionJobRepository{maxLen: maxLen, byUser: make(map[string][]model.ExecutionJob)}
}

func (r *memoryExecutionJobRepository) Append(ctx context.Context, job *model.ExecutionJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := append([]model.ExecutionJob{*job}, r.byUser[job.UserID]...)
	if len(jobs) > r.maxLen {
		jobs = jobs[:r.maxLen]
	}
	r.byUser[job.UserID] = jobs
	return nil
}

func (r *memoryExecutionJobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.ExecutionJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := r.byUser[userID]
	if limit <= 0 || limit > len(jobs) {
		limit = len(jobs)
	}
	out := make([]model.ExecutionJob, limit)
	copy(out, jobs[:limit])
	return out, nil
}
