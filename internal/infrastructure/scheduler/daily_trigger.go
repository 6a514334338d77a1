package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	// RunHour is the hour of day (24h clock) the daily jobs fire
	RunHour int

	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultDailyTriggerConfig returns default daily trigger configuration
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		RunHour:       2, // 2am
		CheckInterval: time.Minute,
	}
}

// DailyTrigger fires the billing run, late fee sweep and installation
// reminders once a day at the configured hour.
type DailyTrigger struct {
	config    DailyTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // which date we last ran for
}

// NewDailyTrigger creates a new daily trigger
func NewDailyTrigger(config DailyTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *DailyTrigger {
	return &DailyTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the daily trigger
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("run_hour", d.config.RunHour),
		zap.Duration("check_interval", d.config.CheckInterval),
	)

	return nil
}

// Stop stops the daily trigger
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether the daily jobs are due
func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkAndTrigger(time.Now())
		}
	}
}

// checkAndTrigger fires the daily jobs once per date when the run hour
// comes around.
func (d *DailyTrigger) checkAndTrigger(now time.Time) {
	currentDate := now.Format("2006-01-02")

	d.mu.Lock()
	alreadyRan := d.lastRunDate == currentDate
	d.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != d.config.RunHour {
		return
	}

	d.mu.Lock()
	d.lastRunDate = currentDate
	d.mu.Unlock()

	d.logger.Info("Triggering daily jobs", zap.String("date", currentDate))
	for _, jobType := range AllJobTypes() {
		if err := d.scheduler.Schedule(jobType, now); err != nil {
			d.logger.Error("Failed to schedule daily job",
				zap.String("job_type", string(jobType)),
				zap.Error(err),
			)
		}
	}
}

// TriggerNow submits one job immediately, outside the daily cycle. The
// back-office uses this to kick a billing run by hand.
func (d *DailyTrigger) TriggerNow(jobType JobType) error {
	return d.scheduler.Schedule(jobType, time.Now())
}
