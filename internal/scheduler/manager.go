package scheduler

import (
	"fmt"

	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/blues/arbigrants/internal/storage"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	store     storage.ObjectStore
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(store storage.ObjectStore, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Manager{
		scheduler: s,
		store:     store,
		config:    cfg,
	}, nil
}

// Start 注册任务并启动调度器
func Start(store storage.ObjectStore, cfg *config.Config) (*Manager, error) {
	manager, err := NewManager(store, cfg)
	if err != nil {
		return nil, err
	}

	if err := manager.RegisterJobs(); err != nil {
		return nil, err
	}

	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager, nil
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() error {
	job := NewStagedUploadJob(m.store, m.config)

	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	return nil
}

// Jobs 已注册任务数量
func (m *Manager) Jobs() int {
	return len(m.scheduler.Jobs())
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
