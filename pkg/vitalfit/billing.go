package vitalfit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
)

// CreateInvoice opens an invoice for the member's current selection.
// The core API snapshots item prices at creation time.
func (c *Client) CreateInvoice(ctx context.Context, params InvoiceCreateParams) (*Invoice, error) {
	if params.MemberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if params.BranchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch id is required")
	}
	if params.MembershipID == nil && len(params.PackageIDs) == 0 && len(params.ServiceIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice requires at least one item")
	}

	var out Invoice
	if err := c.post(ctx, "create_invoice", "/v1/invoices", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvoiceByID fetches an invoice with its payment history.
func (c *Client) GetInvoiceByID(ctx context.Context, invoiceID uuid.UUID) (*Invoice, error) {
	path := fmt.Sprintf("/v1/invoices/%s", invoiceID)

	var out Invoice
	if err := c.get(ctx, "get_invoice", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMemberInvoices returns one page of the member's invoices, newest first.
func (c *Client) ListMemberInvoices(ctx context.Context, memberID uuid.UUID, page, pageLen int) (*InvoicePage, error) {
	query := url.Values{}
	query.Set("member_id", memberID.String())
	query.Set("page", strconv.Itoa(page))
	query.Set("page_len", strconv.Itoa(pageLen))

	var out InvoicePage
	if err := c.get(ctx, "list_member_invoices", "/v1/invoices", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddPayment records a manual payment against the invoice and returns the
// refreshed invoice. Amounts are USD.
func (c *Client) AddPayment(ctx context.Context, invoiceID uuid.UUID, params PaymentParams) (*Invoice, error) {
	if invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if params.MethodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}

	path := fmt.Sprintf("/v1/invoices/%s/payments", invoiceID)

	var out Invoice
	if err := c.post(ctx, "add_payment", path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession opens a hosted card checkout for the invoice and
// returns the redirect URL the client must follow.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if params.InvoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if params.MethodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}

	var out CheckoutSession
	if err := c.post(ctx, "create_checkout_session", "/v1/checkout-sessions", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
