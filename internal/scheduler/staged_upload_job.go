package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/blues/arbigrants/internal/storage"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// StagedUploadJob 清理 staging/ 下超过 TTL 仍未提升的 logo。
// 正常流程会在提交结束时删除暂存对象，这里处理进程中途退出留下的残留。
type StagedUploadJob struct {
	store    storage.ObjectStore
	ttl      time.Duration
	interval time.Duration
	workers  int
	now      func() time.Time
}

// NewStagedUploadJob 创建暂存清理任务
func NewStagedUploadJob(store storage.ObjectStore, cfg *config.Config) *StagedUploadJob {
	workers := cfg.Task.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := time.Duration(cfg.Task.Interval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ttl := cfg.Storage.StagingTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &StagedUploadJob{
		store:    store,
		ttl:      ttl,
		interval: interval,
		workers:  workers,
		now:      time.Now,
	}
}

// GetName 获取任务名称
func (j *StagedUploadJob) GetName() string {
	return "staged_upload_sweeper"
}

// GetSchedule 获取调度配置
func (j *StagedUploadJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *StagedUploadJob) Execute() {
	logger.Info("Starting staged upload sweep")

	deleted, err := j.Sweep(context.Background())
	if err != nil {
		logger.Error("Staged upload sweep failed: %v", err)
		return
	}

	logger.Info("Staged upload sweep completed. Deleted %d objects", deleted)
}

// Sweep 删除过期暂存对象，返回删除数量
func (j *StagedUploadJob) Sweep(ctx context.Context) (int, error) {
	objects, err := j.store.List(ctx, storage.StagingPrefix)
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.ttl)
	var stale []string
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			stale = append(stale, obj.Key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(j.workers)
	if err != nil {
		return 0, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		deleted atomic.Int64
	)
	for _, key := range stale {
		key := key
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := j.store.Delete(ctx, key); err != nil {
				logger.Warn("Failed to delete staged object %s: %v", key, err)
				return
			}
			deleted.Add(1)
		}); err != nil {
			wg.Done()
			logger.Warn("Failed to schedule deletion of %s: %v", key, err)
		}
	}
	wg.Wait()

	return int(deleted.Load()), nil
}
