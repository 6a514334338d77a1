package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/billing"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/infrastructure/printing"
	"github.com/occtelecom/backend/internal/infrastructure/storage"
)

const downloadExpiry = 15 * time.Minute

// DocumentService renders invoice and receipt PDFs and serves download
// links from object storage. Documents are rendered once and cached
// under their storage key.
type DocumentService struct {
	invoiceRepo  billing.InvoiceRepository
	receiptRepo  billing.ReceiptRepository
	customerRepo customer.Repository
	builder      *printing.DocumentBuilder
	renderer     printing.PDFRenderer
	store        storage.DocumentStore
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	invoiceRepo billing.InvoiceRepository,
	receiptRepo billing.ReceiptRepository,
	customerRepo customer.Repository,
	builder *printing.DocumentBuilder,
	renderer printing.PDFRenderer,
	store storage.DocumentStore,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		invoiceRepo:  invoiceRepo,
		receiptRepo:  receiptRepo,
		customerRepo: customerRepo,
		builder:      builder,
		renderer:     renderer,
		store:        store,
		logger:       logger,
	}
}

// InvoicePDF returns a download link for the invoice PDF, rendering and
// uploading it first if it has not been generated yet
func (s *DocumentService) InvoicePDF(ctx context.Context, invoiceID uuid.UUID) (*DocumentResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	key := storage.InvoiceKey(inv.InvoiceNumber)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		c, err := s.customerRepo.FindByID(ctx, inv.CustomerID)
		if err != nil {
			return nil, err
		}
		html, err := s.builder.BuildInvoiceHTML(buildInvoiceDocument(inv, c))
		if err != nil {
			return nil, err
		}
		if err := s.renderAndStore(ctx, key, html, "Invoice "+inv.InvoiceNumber); err != nil {
			return nil, err
		}
	}

	return s.downloadResponse(ctx, key)
}

// ReceiptPDF returns a download link for the receipt PDF, rendering and
// uploading it first if it has not been generated yet
func (s *DocumentService) ReceiptPDF(ctx context.Context, receiptID uuid.UUID) (*DocumentResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	key := storage.ReceiptKey(receipt.ReceiptNumber)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		inv, err := s.invoiceRepo.FindByID(ctx, receipt.InvoiceID)
		if err != nil {
			return nil, err
		}
		c, err := s.customerRepo.FindByID(ctx, receipt.CustomerID)
		if err != nil {
			return nil, err
		}
		html, err := s.builder.BuildReceiptHTML(buildReceiptDocument(receipt, inv, c))
		if err != nil {
			return nil, err
		}
		if err := s.renderAndStore(ctx, key, html, "Receipt "+receipt.ReceiptNumber); err != nil {
			return nil, err
		}
	}

	return s.downloadResponse(ctx, key)
}

func (s *DocumentService) renderAndStore(ctx context.Context, key, html, title string) error {
	result, err := s.renderer.Render(ctx, &printing.RenderRequest{HTML: html, Title: title})
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, key, result.PDFData, "application/pdf"); err != nil {
		return err
	}
	s.logger.Info("document rendered",
		zap.String("key", key),
		zap.Duration("render_duration", result.RenderDuration),
	)
	return nil
}

func (s *DocumentService) downloadResponse(ctx context.Context, key string) (*DocumentResponse, error) {
	url, _, err := s.store.DownloadURL(ctx, key, downloadExpiry)
	if err != nil {
		return nil, err
	}
	return &DocumentResponse{Key: key, DownloadURL: url}, nil
}

func buildInvoiceDocument(inv *billing.Invoice, c *customer.Customer) *printing.InvoiceDocument {
	lines := make([]printing.DocumentLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, printing.DocumentLine{
			Description: l.Description,
			Amount:      l.Amount,
			IsLateFee:   l.IsLateFee,
		})
	}

	var issuedAt time.Time
	if inv.IssuedAt != nil {
		issuedAt = *inv.IssuedAt
	}

	return &printing.InvoiceDocument{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  c.FullName,
		CustomerRef:   c.AccountNumber,
		AddressLines:  addressLines(c),
		IssuedAt:      issuedAt,
		DueDate:       inv.DueDate,
		Lines:         lines,
		Total:         inv.Total,
		Overdue:       inv.Status == billing.InvoiceStatusOverdue,
	}
}

func buildReceiptDocument(r *billing.Receipt, inv *billing.Invoice, c *customer.Customer) *printing.ReceiptDocument {
	return &printing.ReceiptDocument{
		ReceiptNumber: r.ReceiptNumber,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  c.FullName,
		CustomerRef:   c.AccountNumber,
		Amount:        r.Amount,
		Method:        string(r.Method),
		PaidAt:        r.PaidAt,
	}
}

func addressLines(c *customer.Customer) []string {
	var lines []string
	for _, l := range []string{c.AddressLine1, c.AddressLine2, c.City, c.Postcode} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
