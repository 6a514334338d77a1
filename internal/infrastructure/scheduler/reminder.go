package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/audit"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/ordering"
	"github.com/occtelecom/backend/internal/infrastructure/email"
)

// CommunicationLog records outbound messages so agents can see what a
// customer has been sent.
type CommunicationLog interface {
	RecordEmail(ctx context.Context, customerID uuid.UUID, meta audit.EmailMetadata) (*audit.Communication, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// ReminderRunResult summarizes one installation reminder run
type ReminderRunResult struct {
	RemindersSent int
	Failures      int
}

// InstallationReminder emails customers ahead of their engineer visit.
// Each booking is reminded at most once; the sent flag on the booking
// keeps repeat runs from mailing twice.
type InstallationReminder struct {
	bookingRepo  ordering.BookingRepository
	slotRepo     ordering.SlotRepository
	orderRepo    ordering.OrderRepository
	customerRepo customer.Repository
	mailer       email.Mailer
	comms        CommunicationLog
	window       time.Duration
	logger       *zap.Logger
}

// NewInstallationReminder creates a new InstallationReminder
func NewInstallationReminder(
	bookingRepo ordering.BookingRepository,
	slotRepo ordering.SlotRepository,
	orderRepo ordering.OrderRepository,
	customerRepo customer.Repository,
	mailer email.Mailer,
	comms CommunicationLog,
	window time.Duration,
	logger *zap.Logger,
) *InstallationReminder {
	return &InstallationReminder{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		mailer:       mailer,
		comms:        comms,
		window:       window,
		logger:       logger,
	}
}

// Run sends a reminder for every unreminded booking whose slot starts
// inside the lookahead window. One bad booking does not stop the run.
func (r *InstallationReminder) Run(ctx context.Context, now time.Time) (*ReminderRunResult, error) {
	due, err := r.bookingRepo.FindDueReminders(ctx, now, now.Add(r.window))
	if err != nil {
		return nil, err
	}

	result := &ReminderRunResult{}
	for i := range due {
		booking := &due[i]
		if err := r.remind(ctx, booking); err != nil {
			result.Failures++
			r.logger.Error("failed to send installation reminder",
				zap.String("booking_id", booking.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.RemindersSent++
	}

	r.logger.Info("installation reminder run finished",
		zap.Int("reminders_sent", result.RemindersSent),
		zap.Int("failures", result.Failures),
	)
	return result, nil
}

func (r *InstallationReminder) remind(ctx context.Context, booking *ordering.Booking) error {
	slot, err := r.slotRepo.FindByID(ctx, booking.SlotID)
	if err != nil {
		return err
	}
	order, err := r.orderRepo.FindByID(ctx, booking.OrderID)
	if err != nil {
		return err
	}
	cust, err := r.customerRepo.FindByID(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	msg := reminderMessage(cust, order, slot)
	comm, err := r.comms.RecordEmail(ctx, cust.ID, audit.EmailMetadata{
		To:       msg.To,
		Subject:  msg.Subject,
		Template: "installation_reminder",
	})
	if err != nil {
		return err
	}

	if err := r.mailer.Send(ctx, msg); err != nil {
		if markErr := r.comms.MarkFailed(ctx, comm.ID, err.Error()); markErr != nil {
			r.logger.Warn("failed to mark communication as failed",
				zap.String("communication_id", comm.ID.String()),
				zap.Error(markErr),
			)
		}
		return err
	}
	if err := r.comms.MarkSent(ctx, comm.ID); err != nil {
		r.logger.Warn("failed to mark communication as sent",
			zap.String("communication_id", comm.ID.String()),
			zap.Error(err),
		)
	}

	booking.MarkReminderSent()
	return r.bookingRepo.Save(ctx, booking)
}

func reminderMessage(cust *customer.Customer, order *ordering.Order, slot *ordering.InstallationSlot) *email.Message {
	visitDate := slot.Date.Format("Monday 2 January")
	window := fmt.Sprintf("%02d:00 and %02d:00", slot.StartHour, slot.EndHour)

	return &email.Message{
		To:      cust.Email,
		Subject: fmt.Sprintf("Reminder: your installation visit on %s", visitDate),
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p>"+
				"<p>A quick reminder that an engineer will visit on <strong>%s</strong> "+
				"between %s to install your services for order %s.</p>"+
				"<p>Please make sure someone over 18 is at home during the visit.</p>",
			cust.FullName, visitDate, window, order.OrderNumber,
		),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nA quick reminder that an engineer will visit on %s between %s "+
				"to install your services for order %s.\n\n"+
				"Please make sure someone over 18 is at home during the visit.\n",
			cust.FullName, visitDate, window, order.OrderNumber,
		),
	}
}
