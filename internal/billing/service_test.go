package billing

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

type stubInvoiceAPI struct {
	page        *vitalfit.InvoicePage
	invoice     *vitalfit.Invoice
	listCalls   int
	lastPage    int
	lastPageLen int
}

func (s *stubInvoiceAPI) ListMemberInvoices(_ context.Context, _ uuid.UUID, page, pageLen int) (*vitalfit.InvoicePage, error) {
	s.listCalls++
	s.lastPage = page
	s.lastPageLen = pageLen
	if s.page == nil {
		return &vitalfit.InvoicePage{Page: page, TotalPages: 1}, nil
	}
	return s.page, nil
}

func (s *stubInvoiceAPI) GetInvoiceByID(_ context.Context, invoiceID uuid.UUID) (*vitalfit.Invoice, error) {
	if s.invoice == nil || s.invoice.ID != invoiceID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return s.invoice, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func paidInvoice(memberID uuid.UUID) *vitalfit.Invoice {
	return &vitalfit.Invoice{
		ID:       uuid.New(),
		MemberID: memberID,
		BranchID: uuid.New(),
		Status:   enums.InvoiceStatusPaid,
		Items: []vitalfit.InvoiceItem{
			{ItemID: uuid.New(), Kind: "membership", Name: "Plan Básico", AmountUSD: decimal.NewFromInt(45)},
			{ItemID: uuid.New(), Kind: "service", Name: "Nutrición", AmountUSD: decimal.NewFromInt(42)},
		},
		Payments: []vitalfit.Payment{
			{ID: uuid.New(), AmountUSD: decimal.NewFromInt(50), RecordedAt: time.Now()},
			{ID: uuid.New(), AmountUSD: decimal.NewFromInt(37), RecordedAt: time.Now()},
		},
		TotalUSD:  decimal.NewFromInt(87),
		TaxRate:   decimal.NewFromFloat(0.16),
		CreatedAt: time.Now(),
	}
}

func TestHistorySummarizesInvoices(t *testing.T) {
	memberID := uuid.New()
	api := &stubInvoiceAPI{
		page: &vitalfit.InvoicePage{
			Items:      []vitalfit.Invoice{*paidInvoice(memberID)},
			Page:       1,
			TotalPages: 3,
		},
	}
	svc, err := NewService(ServiceParams{Client: api, Logger: testLogger(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.History(context.Background(), memberID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastPage != 1 {
		t.Fatalf("page = %d, want clamped to 1", api.lastPage)
	}
	if api.lastPageLen != defaultPageLen {
		t.Fatalf("page len = %d, want %d", api.lastPageLen, defaultPageLen)
	}
	if len(result.Entries) != 1 || result.TotalPages != 3 {
		t.Fatalf("unexpected page: %+v", result)
	}

	entry := result.Entries[0]
	if !entry.PaidUSD.Equal(decimal.NewFromInt(87)) {
		t.Fatalf("paid = %s, want 87", entry.PaidUSD)
	}
	if !entry.BalanceUSD.IsZero() {
		t.Fatalf("balance = %s, want 0", entry.BalanceUSD)
	}
	if entry.ItemCount != 2 || entry.PaymentCount != 2 {
		t.Fatalf("unexpected counts: %+v", entry)
	}
}

func TestInvoiceDetailRejectsOtherMembers(t *testing.T) {
	owner := uuid.New()
	invoice := paidInvoice(owner)
	api := &stubInvoiceAPI{invoice: invoice}
	svc, _ := NewService(ServiceParams{Client: api, Logger: testLogger(t)})

	_, err := svc.InvoiceDetail(context.Background(), uuid.New(), invoice.ID)
	if err == nil {
		t.Fatal("expected foreign invoice to be rejected")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}

	detail, err := svc.InvoiceDetail(context.Background(), owner, invoice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Payments) != 2 || detail.Entry.InvoiceID != invoice.ID {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestHistoryRequiresMember(t *testing.T) {
	svc, _ := NewService(ServiceParams{Client: &stubInvoiceAPI{}, Logger: testLogger(t)})

	if _, err := svc.History(context.Background(), uuid.Nil, 1); err == nil {
		t.Fatal("expected nil member id to fail")
	}
}
