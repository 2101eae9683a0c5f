package infra

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cfohelper/internal/domain"
)

// Scheduler runs background maintenance jobs against the account store
type Scheduler struct {
	cron       *cron.Cron
	repo       domain.AccountRepository
	logger     *zap.Logger
	healthSpec string
	statsSpec  string
	healthy    atomic.Bool
}

// NewScheduler creates a new scheduler
func NewScheduler(repo domain.AccountRepository, healthSpec, statsSpec string, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		cron:       cron.New(),
		repo:       repo,
		logger:     logger,
		healthSpec: healthSpec,
		statsSpec:  statsSpec,
	}
	s.healthy.Store(true)
	return s
}

// Start registers the jobs and starts the cron runner
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler...")

	if _, err := s.cron.AddFunc(s.healthSpec, func() { s.CheckHealth(context.Background()) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.statsSpec, func() { s.ReportStats(context.Background()) }); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("[OK] Scheduler started",
		zap.String("health", s.healthSpec),
		zap.String("stats", s.statsSpec),
	)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.logger.Info("[OK] Scheduler stopped")
}

// CheckHealth pings the store and logs transitions between healthy and unhealthy
func (s *Scheduler) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := s.repo.Ping(ctx)
	was := s.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		s.logger.Warn("[CRON] Account store unreachable", zap.Error(err))
	case err == nil && !was:
		s.logger.Info("[CRON] Account store reachable again")
	}
	return err == nil
}

// Healthy reports the result of the last health check
func (s *Scheduler) Healthy() bool {
	return s.healthy.Load()
}

// ReportStats logs account and history counts
func (s *Scheduler) ReportStats(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("[CRON] Failed to collect store stats", zap.Error(err))
		return
	}
	s.logger.Info("[CRON] Store stats",
		zap.Int64("users", stats.Users),
		zap.Int64("history_entries", stats.Entries),
	)
}
