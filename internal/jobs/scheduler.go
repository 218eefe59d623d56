// Package jobs runs the periodic maintenance tasks of the service.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"recovery/internal/metrics"
	"recovery/internal/services"
	"recovery/pkg/memcache"
)

const (
	JobSubscriptionSync = "subscription_sync"
	JobLimiterSweep     = "limiter_sweep"

	limiterSweepSchedule = "@every 5m"
)

// Syncer is the part of the subscription service the sweep needs.
type Syncer interface {
	SyncAll(ctx context.Context) (services.SyncReport, error)
}

type Scheduler struct {
	cron     *cron.Cron
	syncer   Syncer
	limiters memcache.LimiterStore
	log      *zap.Logger
	timeout  time.Duration

	mu      sync.Mutex
	running bool
}

func NewScheduler(syncer Syncer, limiters memcache.LimiterStore, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		syncer:   syncer,
		limiters: limiters,
		log:      log,
		timeout:  10 * time.Minute,
	}
}

// Register adds the jobs. An empty syncSchedule disables reconciliation.
func (s *Scheduler) Register(syncSchedule string) error {
	if syncSchedule != "" {
		if _, err := s.cron.AddFunc(syncSchedule, func() { s.RunSubscriptionSync(context.Background()) }); err != nil {
			return fmt.Errorf("schedule %s %q: %w", JobSubscriptionSync, syncSchedule, err)
		}
	}
	if s.limiters != nil {
		if _, err := s.cron.AddFunc(limiterSweepSchedule, s.RunLimiterSweep); err != nil {
			return fmt.Errorf("schedule %s: %w", JobLimiterSweep, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunSubscriptionSync reconciles every billed account with the provider.
func (s *Scheduler) RunSubscriptionSync(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.syncer.SyncAll(ctx)
	metrics.RecordJobRun(JobSubscriptionSync, time.Since(start), err == nil)
	if err != nil {
		s.log.Error("subscription sync aborted", zap.Error(err), zap.Int("checked", report.Checked))
		return
	}
	s.log.Info("subscription sync finished",
		zap.Int("checked", report.Checked),
		zap.Int("changed", report.Changed),
		zap.Int("failed", report.Failed),
		zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) RunLimiterSweep() {
	start := time.Now()
	removed := s.limiters.Sweep()
	metrics.RecordJobRun(JobLimiterSweep, time.Since(start), true)
	if removed > 0 {
		s.log.Debug("rate limiters swept", zap.Int("removed", removed), zap.Int("remaining", s.limiters.Len()))
	}
}
