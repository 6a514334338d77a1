package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/application/billing"
)

// BillingRunner runs the scheduled billing work
type BillingRunner interface {
	RunBillingCycle(ctx context.Context, now time.Time) (*billing.BillingRunResult, error)
	ApplyLateFees(ctx context.Context, now time.Time) (*billing.LateFeeRunResult, error)
}

// ReminderRunner runs the installation reminder sweep
type ReminderRunner interface {
	Run(ctx context.Context, now time.Time) (*ReminderRunResult, error)
}

// Executor dispatches scheduled jobs to the service that does the work
type Executor struct {
	billing   BillingRunner
	reminders ReminderRunner
	logger    *zap.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(billingRunner BillingRunner, reminders ReminderRunner, logger *zap.Logger) *Executor {
	return &Executor{
		billing:   billingRunner,
		reminders: reminders,
		logger:    logger,
	}
}

// Execute runs one job
func (e *Executor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeBillingRun:
		result, err := e.billing.RunBillingCycle(ctx, job.RunAt)
		if err != nil {
			return err
		}
		e.logger.Info("billing run finished",
			zap.String("job_id", job.ID.String()),
			zap.Int("invoices_issued", result.InvoicesIssued),
			zap.Int("failures", result.Failures),
		)
		return nil

	case JobTypeLateFees:
		result, err := e.billing.ApplyLateFees(ctx, job.RunAt)
		if err != nil {
			return err
		}
		e.logger.Info("late fee run finished",
			zap.String("job_id", job.ID.String()),
			zap.Int("fees_applied", result.FeesApplied),
			zap.Int("failures", result.Failures),
		)
		return nil

	case JobTypeInstallationReminders:
		_, err := e.reminders.Run(ctx, job.RunAt)
		return err

	default:
		return ErrUnknownJobType
	}
}
