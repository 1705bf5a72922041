package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/openbooks/backend/internal/application/billing"
	"go.uber.org/zap"
)

// TrialExpiryScheduler periodically expires trial subscriptions whose trial
// window has ended. Stripe-managed subscriptions transition via webhooks;
// this sweep covers tenants that never attached a payment method.
type TrialExpiryScheduler struct {
	service   *billing.SubscriptionService
	logger    *zap.Logger
	config    TrialExpirySchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// TrialExpirySchedulerConfig holds configuration for the trial expiry scheduler
type TrialExpirySchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// SweepInterval is how often expired trials are swept
	SweepInterval time.Duration

	// SweepTimeout is the maximum time for a single sweep
	SweepTimeout time.Duration
}

// DefaultTrialExpirySchedulerConfig returns default configuration
func DefaultTrialExpirySchedulerConfig() TrialExpirySchedulerConfig {
	return TrialExpirySchedulerConfig{
		Enabled:       true,
		SweepInterval: 1 * time.Hour,
		SweepTimeout:  5 * time.Minute,
	}
}

// NewTrialExpiryScheduler creates a new trial expiry scheduler
func NewTrialExpiryScheduler(
	service *billing.SubscriptionService,
	logger *zap.Logger,
	config TrialExpirySchedulerConfig,
) *TrialExpiryScheduler {
	return &TrialExpiryScheduler{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start starts the trial expiry scheduler
func (s *TrialExpiryScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Trial expiry scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Trial expiry scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *TrialExpiryScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Trial expiry scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Trial expiry scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *TrialExpiryScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Trial expiry loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

// executeSweep expires all trials that have passed their trial end time
func (s *TrialExpiryScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()
	expired, err := s.service.ExpireTrials(sweepCtx, startTime)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Trial expiry sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if expired > 0 {
		s.logger.Info("Trial expiry sweep completed",
			zap.Duration("duration", duration),
			zap.Int("expired_count", expired),
		)
	}
}

// TriggerImmediateSweep triggers an immediate trial expiry sweep
func (s *TrialExpiryScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate trial expiry sweep")

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *TrialExpiryScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
