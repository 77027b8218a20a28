package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/pagination"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

const defaultPageLen = 10

// invoiceAPI is the slice of the core API used for payment history.
type invoiceAPI interface {
	ListMemberInvoices(ctx context.Context, memberID uuid.UUID, page, pageLen int) (*vitalfit.InvoicePage, error)
	GetInvoiceByID(ctx context.Context, invoiceID uuid.UUID) (*vitalfit.Invoice, error)
}

// ServiceParams groups dependencies for the payment history service.
type ServiceParams struct {
	Client  invoiceAPI
	Logger  *logger.Logger
	PageLen int
}

// Service exposes the member's invoice and payment history. Billing is
// owned by the core API; this layer only reads and reshapes it.
type Service struct {
	client  invoiceAPI
	logger  *logger.Logger
	pageLen int
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	pageLen := params.PageLen
	if pageLen <= 0 {
		pageLen = defaultPageLen
	}
	return &Service{
		client:  params.Client,
		logger:  params.Logger,
		pageLen: pageLen,
	}, nil
}

// History returns one page of the member's invoices, newest first.
func (s *Service) History(ctx context.Context, memberID uuid.UUID, page int) (*HistoryPage, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	normalized := pagination.NormalizePage(pagination.Page{Number: page, Size: s.pageLen}, defaultPageLen)
	page = normalized.Number

	result, err := s.client.ListMemberInvoices(ctx, memberID, page, s.pageLen)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(result.Items))
	for i := range result.Items {
		entries = append(entries, toHistoryEntry(&result.Items[i]))
	}
	return &HistoryPage{
		Entries:    entries,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}, nil
}

// InvoiceDetail returns a single invoice with its payments, scoped to the
// requesting member.
func (s *Service) InvoiceDetail(ctx context.Context, memberID, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	if memberID == uuid.Nil || invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member and invoice ids are required")
	}

	invoice, err := s.client.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.MemberID != memberID {
		s.logger.Warn(s.logger.WithMemberID(ctx, memberID.String()), "invoice detail requested for another member")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "invoice does not belong to member")
	}

	detail := &InvoiceDetail{
		Entry:    toHistoryEntry(invoice),
		Items:    invoice.Items,
		Payments: invoice.Payments,
	}
	return detail, nil
}

func toHistoryEntry(invoice *vitalfit.Invoice) HistoryEntry {
	paid := decimal.Zero
	for _, payment := range invoice.Payments {
		paid = paid.Add(payment.AmountUSD)
	}
	return HistoryEntry{
		InvoiceID:    invoice.ID,
		Status:       invoice.Status,
		TotalUSD:     invoice.TotalUSD,
		PaidUSD:      paid,
		BalanceUSD:   invoice.TotalUSD.Sub(paid),
		ItemCount:    len(invoice.Items),
		PaymentCount: len(invoice.Payments),
		CreatedAt:    invoice.CreatedAt,
	}
}
