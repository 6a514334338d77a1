package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/occtelecom/backend/internal/infrastructure/payment"
)

// PaymentService collects invoice payments through the card gateway and
// records receipts against settled invoices
type PaymentService struct {
	invoiceRepo billing.InvoiceRepository
	receiptRepo billing.ReceiptRepository
	attemptRepo billing.PaymentAttemptRepository
	gateway     payment.Gateway
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	invoiceRepo billing.InvoiceRepository,
	receiptRepo billing.ReceiptRepository,
	attemptRepo billing.PaymentAttemptRepository,
	gateway payment.Gateway,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		attemptRepo: attemptRepo,
		gateway:     gateway,
		publisher:   publisher,
		logger:      logger,
	}
}

// PayOnline charges the card token a customer entered in the portal
func (s *PaymentService) PayOnline(ctx context.Context, invoiceID uuid.UUID, req PayInvoiceRequest) (*ReceiptResponse, error) {
	return s.chargeInvoice(ctx, invoiceID, req.CardToken, billing.PaymentMethodCardOnline, nil)
}

// RecordPhonePayment charges a card keyed in by an agent over the phone
// and stamps the receipt with who took it
func (s *PaymentService) RecordPhonePayment(ctx context.Context, invoiceID uuid.UUID, req PhonePaymentRequest) (*ReceiptResponse, error) {
	return s.chargeInvoice(ctx, invoiceID, req.CardToken, billing.PaymentMethodCardPhone, &req.TakenBy)
}

func (s *PaymentService) chargeInvoice(ctx context.Context, invoiceID uuid.UUID, cardToken string, method billing.PaymentMethod, takenBy *uuid.UUID) (*ReceiptResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsUnpaid() {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice is not awaiting payment")
	}

	attempt, err := billing.NewPaymentAttempt(inv.ID, inv.CustomerID, inv.Total)
	if err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	resp, chargeErr := s.gateway.Charge(ctx, &payment.ChargeRequest{
		Reference:   inv.InvoiceNumber,
		Amount:      inv.Total,
		Currency:    "GBP",
		Description: "Invoice " + inv.InvoiceNumber,
		CardToken:   cardToken,
	})
	if chargeErr != nil {
		code, note := "gateway_error", chargeErr.Error()
		if errors.Is(chargeErr, payment.ErrChargeDeclined) && resp != nil {
			code, note = resp.DeclineCode, resp.DeclineNote
		}
		if err := attempt.Fail(code, note); err == nil {
			if err := s.attemptRepo.Save(ctx, attempt); err != nil {
				s.logger.Error("failed to record payment failure",
					zap.String("invoice_number", inv.InvoiceNumber),
					zap.Error(err),
				)
			}
		}
		if errors.Is(chargeErr, payment.ErrChargeDeclined) {
			return nil, shared.NewDomainError("PAYMENT_DECLINED", "The card was declined")
		}
		return nil, chargeErr
	}

	if err := attempt.Succeed(resp.GatewayRef); err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Save(ctx, attempt); err != nil {
		return nil, err
	}

	return s.settle(ctx, inv, method, resp.GatewayRef, time.Now(), takenBy)
}

// settle marks the invoice paid and cuts a receipt for the payment
func (s *PaymentService) settle(ctx context.Context, inv *billing.Invoice, method billing.PaymentMethod, gatewayRef string, paidAt time.Time, takenBy *uuid.UUID) (*ReceiptResponse, error) {
	seq, err := s.receiptRepo.NextReceiptSequence(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := billing.NewReceipt(billing.FormatReceiptNumber(seq), inv.ID, inv.CustomerID, inv.Total, method, gatewayRef)
	if err != nil {
		return nil, err
	}
	if takenBy != nil {
		receipt.RecordTakenBy(*takenBy)
	}

	if err := inv.MarkPaid(paidAt); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishInvoiceEvents(ctx, inv)

	s.logger.Info("invoice paid",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.String("method", string(method)),
	)

	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// HandleCallback processes a signed payment notification pushed by the
// gateway. Settling is idempotent: a notification for an invoice that is
// already paid is acknowledged without a second receipt.
func (s *PaymentService) HandleCallback(ctx context.Context, payload []byte, signature string) error {
	cb, err := s.gateway.VerifyCallback(payload, signature)
	if err != nil {
		return err
	}
	if cb.Status != payment.ChargeStatusPaid {
		s.logger.Info("ignoring non-paid payment callback",
			zap.String("reference", cb.Reference),
			zap.String("status", string(cb.Status)),
		)
		return nil
	}

	inv, err := s.invoiceRepo.FindByInvoiceNumber(ctx, cb.Reference)
	if err != nil {
		return err
	}
	if !inv.IsUnpaid() {
		return nil
	}

	paidAt := time.Now()
	if cb.PaidAt != nil {
		paidAt = *cb.PaidAt
	}
	_, err = s.settle(ctx, inv, billing.PaymentMethodCardOnline, cb.GatewayRef, paidAt, nil)
	return err
}

// ListInvoiceReceipts returns receipts recorded against an invoice
func (s *PaymentService) ListInvoiceReceipts(ctx context.Context, invoiceID uuid.UUID) ([]ReceiptResponse, error) {
	receipts, err := s.receiptRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		items = append(items, ToReceiptResponse(&receipts[i]))
	}
	return items, nil
}

// ListCustomerReceipts returns a customer's payment history
func (s *PaymentService) ListCustomerReceipts(ctx context.Context, customerID uuid.UUID) ([]ReceiptResponse, error) {
	receipts, err := s.receiptRepo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	items := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		items = append(items, ToReceiptResponse(&receipts[i]))
	}
	return items, nil
}

// ListInvoiceAttempts returns the charge attempts made against an invoice
func (s *PaymentService) ListInvoiceAttempts(ctx context.Context, invoiceID uuid.UUID) ([]PaymentAttemptResponse, error) {
	attempts, err := s.attemptRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentAttemptResponse, 0, len(attempts))
	for i := range attempts {
		items = append(items, ToPaymentAttemptResponse(&attempts[i]))
	}
	return items, nil
}

func (s *PaymentService) publishInvoiceEvents(ctx context.Context, inv *billing.Invoice) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, inv.GetDomainEvents()...)
	inv.ClearDomainEvents()
}
