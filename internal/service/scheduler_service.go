package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/config"
	"github.com/entretech/wanotify/internal/scheduler"
)

type schedulerService struct {
	schedulers []*scheduler.Scheduler
	logger     *zap.Logger
}

// NewSchedulerService builds the four background loops: due-message
// dispatch, stuck-message recovery, approval expiry and log cleanup.
func NewSchedulerService(
	cfg *config.Config,
	delivery DeliveryService,
	approvals ApprovalService,
	logger *zap.Logger,
) SchedulerService {
	svc := &schedulerService{
		logger: logger,
	}

	svc.schedulers = []*scheduler.Scheduler{
		scheduler.NewScheduler("process-pending", logger,
			time.Duration(cfg.Scheduler.PendingIntervalSeconds)*time.Second,
			delivery.ProcessDue),
		scheduler.NewScheduler("recover-stuck", logger,
			time.Duration(cfg.Scheduler.RetryIntervalMinutes)*time.Minute,
			delivery.RecoverStuck),
		scheduler.NewScheduler("expire-approvals", logger,
			time.Duration(cfg.Scheduler.ExpiryIntervalMinutes)*time.Minute,
			approvals.ExpireOld),
		scheduler.NewScheduler("cleanup-logs", logger,
			time.Duration(cfg.Scheduler.CleanupIntervalHours)*time.Hour,
			delivery.Cleanup),
	}

	return svc
}

func (s *schedulerService) Start() error {
	ctx := context.Background()
	for i, sched := range s.schedulers {
		if err := sched.Start(ctx); err != nil {
			// Roll back the ones already started so Start is all-or-nothing.
			for j := 0; j < i; j++ {
				if stopErr := s.schedulers[j].Stop(); stopErr != nil {
					s.logger.Error("Failed to stop scheduler during rollback",
						zap.String("task", s.schedulers[j].Name()),
						zap.Error(stopErr))
				}
			}
			return err
		}
	}
	return nil
}

func (s *schedulerService) Stop() error {
	var firstErr error
	for _, sched := range s.schedulers {
		if err := sched.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// IsRunning reports whether every background task is running.
func (s *schedulerService) IsRunning() bool {
	for _, sched := range s.schedulers {
		if !sched.IsRunning() {
			return false
		}
	}
	return true
}

func (s *schedulerService) Status() map[string]bool {
	status := make(map[string]bool, len(s.schedulers))
	for _, sched := range s.schedulers {
		status[sched.Name()] = sched.IsRunning()
	}
	return status
}
