package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/api/middleware"
	"github.com/vitalfit/vitalfit-backend/api/responses"
	"github.com/vitalfit/vitalfit-backend/api/validators"
	checkoutsvc "github.com/vitalfit/vitalfit-backend/internal/checkout"
	"github.com/vitalfit/vitalfit-backend/internal/pricing"
	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

type startSessionPayload struct {
	MembershipID *uuid.UUID `json:"membership_id,omitempty" validate:"omitempty"`
	Currency     string     `json:"currency,omitempty"`
}

// CheckoutStart opens a wizard session for the authenticated member.
func CheckoutStart(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload startSessionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		currency, err := currencyOrDefault(payload.Currency)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sel, err := svc.StartSession(ctx, memberID, payload.MembershipID, currency)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSelectionResponse(sel))
	}
}

// CheckoutSelection returns the current wizard state.
func CheckoutSelection(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sel, err := svc.Selection(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, sel); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSelectionResponse(sel))
	}
}

type membershipPayload struct {
	MembershipID uuid.UUID `json:"membership_id" validate:"required"`
}

// CheckoutSetMembership picks (or toggles off) the membership plan.
func CheckoutSetMembership(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionMutation(svc, logg, func(r *http.Request, sessionID uuid.UUID) (*selection.Selection, error) {
		var payload membershipPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SetMembership(r.Context(), sessionID, payload.MembershipID)
	})
}

type branchPayload struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
}

// CheckoutSetBranch pins the gym branch for the session.
func CheckoutSetBranch(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionMutation(svc, logg, func(r *http.Request, sessionID uuid.UUID) (*selection.Selection, error) {
		var payload branchPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SetBranch(r.Context(), sessionID, payload.BranchID)
	})
}

type packagePayload struct {
	PackageID uuid.UUID `json:"package_id" validate:"required"`
}

// CheckoutTogglePackage adds or removes a session pack.
func CheckoutTogglePackage(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionMutation(svc, logg, func(r *http.Request, sessionID uuid.UUID) (*selection.Selection, error) {
		var payload packagePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.TogglePackage(r.Context(), sessionID, payload.PackageID)
	})
}

type servicePayload struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
}

// CheckoutToggleService adds or removes a branch service.
func CheckoutToggleService(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionMutation(svc, logg, func(r *http.Request, sessionID uuid.UUID) (*selection.Selection, error) {
		var payload servicePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.ToggleService(r.Context(), sessionID, payload.ServiceID)
	})
}

type currencyPayload struct {
	Currency string `json:"currency" validate:"required"`
}

// CheckoutSetCurrency switches the display currency.
func CheckoutSetCurrency(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionMutation(svc, logg, func(r *http.Request, sessionID uuid.UUID) (*selection.Selection, error) {
		var payload currencyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		currency, err := enums.ParseCurrency(payload.Currency)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency")
		}
		return svc.SetCurrency(r.Context(), sessionID, currency)
	})
}

// CheckoutQuote computes the totals for the session.
func CheckoutQuote(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		quote, err := svc.Quote(ctx, sessionID, middleware.IsMemberFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, quote.Selection); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteResponse{
			Selection: newSelectionResponse(quote.Selection),
			Summary:   newSummaryResponse(quote.Summary),
		})
	}
}

// CheckoutConfirmOrder gates step 1 → 2 and creates the invoice upstream.
func CheckoutConfirmOrder(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sel, err := svc.Selection(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, sel); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		confirmed, err := svc.ConfirmOrder(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSelectionResponse(confirmed))
	}
}

type paymentPayload struct {
	MethodID   uuid.UUID        `json:"method_id" validate:"required"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Reference  string           `json:"reference,omitempty"`
	ReceiptURL *string          `json:"receipt_url,omitempty" validate:"omitempty,url"`
	ReturnURL  string           `json:"return_url,omitempty" validate:"omitempty,url"`
}

// CheckoutSubmitPayment handles step 2: hosted methods return a redirect,
// bank transfers route to step 3, other manual methods settle immediately.
func CheckoutSubmitPayment(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paymentHandler(svc, logg, func(r *http.Request, sessionID uuid.UUID, params checkoutsvc.PaymentParams) (*checkoutsvc.PaymentResult, error) {
		return svc.SubmitPayment(r.Context(), sessionID, params)
	})
}

// CheckoutConfirmTransfer handles step 3: the member reports the transfer
// reference for a bank payment.
func CheckoutConfirmTransfer(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paymentHandler(svc, logg, func(r *http.Request, sessionID uuid.UUID, params checkoutsvc.PaymentParams) (*checkoutsvc.PaymentResult, error) {
		return svc.ConfirmTransfer(r.Context(), sessionID, params)
	})
}

// CheckoutSuccess returns the settled invoice for the confirmation screen.
func CheckoutSuccess(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.Success(ctx, sessionID, middleware.IsMemberFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, result.Selection); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, successResponse{
			Selection: newSelectionResponse(result.Selection),
			Invoice:   newInvoiceResponse(result.Invoice),
			Summary:   newSummaryResponse(result.Summary),
		})
	}
}

func paymentHandler(
	svc *checkoutsvc.Service,
	logg *logger.Logger,
	run func(*http.Request, uuid.UUID, checkoutsvc.PaymentParams) (*checkoutsvc.PaymentResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sel, err := svc.Selection(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, sel); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload paymentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := run(r, sessionID, checkoutsvc.PaymentParams{
			MethodID:   payload.MethodID,
			Amount:     payload.Amount,
			Reference:  payload.Reference,
			ReceiptURL: payload.ReceiptURL,
			ReturnURL:  payload.ReturnURL,
			IsMember:   middleware.IsMemberFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentResponse{
			Selection:   newSelectionResponse(result.Selection),
			RedirectURL: result.RedirectURL,
			AmountPaid:  result.AmountPaid,
			ReceiptURL:  result.ReceiptURL,
		})
	}
}

func selectionMutation(
	svc *checkoutsvc.Service,
	logg *logger.Logger,
	run func(*http.Request, uuid.UUID) (*selection.Selection, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID, err := sessionIDFromPath(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		current, err := svc.Selection(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := authorizeSession(ctx, current); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sel, err := run(r, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSelectionResponse(sel))
	}
}

func sessionIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "sessionId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session id")
	}
	return id, nil
}

func requireMember(ctx context.Context) (uuid.UUID, error) {
	memberID := middleware.MemberIDFromContext(ctx)
	if memberID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "member context missing")
	}
	return memberID, nil
}

func authorizeSession(ctx context.Context, sel *selection.Selection) error {
	memberID, err := requireMember(ctx)
	if err != nil {
		return err
	}
	if sel.MemberID != memberID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "session does not belong to member")
	}
	return nil
}

type selectionResponse struct {
	SessionID   uuid.UUID         `json:"session_id"`
	Step        int               `json:"step"`
	Membership  *selectedItemDTO  `json:"membership,omitempty"`
	BranchID    *uuid.UUID        `json:"branch_id,omitempty"`
	Packages    []selectedItemDTO `json:"packages"`
	Services    []selectedItemDTO `json:"services"`
	Currency    enums.Currency    `json:"currency"`
	MethodID    *uuid.UUID        `json:"method_id,omitempty"`
	Invoice     *invoiceResponse  `json:"invoice,omitempty"`
	RedirectURL *string           `json:"redirect_url,omitempty"`
}

type selectedItemDTO struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	PriceUSD decimal.Decimal `json:"price_usd"`
}

type quoteResponse struct {
	Selection selectionResponse `json:"selection"`
	Summary   summaryResponse   `json:"summary"`
}

type summaryResponse struct {
	SubtotalUSD      decimal.Decimal `json:"subtotal_usd"`
	TaxUSD           decimal.Decimal `json:"tax_usd"`
	TotalUSD         decimal.Decimal `json:"total_usd"`
	DisplaySubtotal  decimal.Decimal `json:"display_subtotal"`
	DisplayTotal     decimal.Decimal `json:"display_total"`
	DisplaySymbol    string          `json:"display_symbol"`
	TaxPercentage    decimal.Decimal `json:"tax_percentage"`
	PrunedServiceIDs []uuid.UUID     `json:"pruned_service_ids,omitempty"`
}

type paymentResponse struct {
	Selection   selectionResponse `json:"selection"`
	RedirectURL *string           `json:"redirect_url,omitempty"`
	AmountPaid  *decimal.Decimal  `json:"amount_paid,omitempty"`
	ReceiptURL  *string           `json:"receipt_url,omitempty"`
}

type successResponse struct {
	Selection selectionResponse `json:"selection"`
	Invoice   *invoiceResponse  `json:"invoice"`
	Summary   summaryResponse   `json:"summary"`
}

type invoiceResponse struct {
	ID        uuid.UUID           `json:"id"`
	Status    enums.InvoiceStatus `json:"status"`
	Items     []invoiceItemDTO    `json:"items"`
	Payments  []paymentDTO        `json:"payments"`
	TotalUSD  decimal.Decimal     `json:"total_usd"`
	CreatedAt time.Time           `json:"created_at"`
}

type invoiceItemDTO struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

type paymentDTO struct {
	ID         uuid.UUID       `json:"id"`
	MethodID   uuid.UUID       `json:"method_id"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	Reference  string          `json:"reference,omitempty"`
	ReceiptURL *string         `json:"receipt_url,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

func newSelectionResponse(sel *selection.Selection) selectionResponse {
	resp := selectionResponse{
		SessionID:   sel.SessionID,
		Step:        int(sel.Step),
		BranchID:    sel.BranchID,
		Packages:    itemDTOs(sel.Packages),
		Services:    itemDTOs(sel.Services),
		Currency:    sel.Currency,
		MethodID:    sel.MethodID,
		RedirectURL: sel.RedirectURL,
	}
	if sel.Membership != nil {
		dto := itemDTO(*sel.Membership)
		resp.Membership = &dto
	}
	if sel.Invoice != nil {
		invoice := newInvoiceResponse(sel.Invoice)
		resp.Invoice = invoice
	}
	return resp
}

func itemDTOs(items []selection.SelectedItem) []selectedItemDTO {
	out := make([]selectedItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, itemDTO(item))
	}
	return out
}

func itemDTO(item selection.SelectedItem) selectedItemDTO {
	return selectedItemDTO{ID: item.ID, Name: item.Name, PriceUSD: item.PriceUSD}
}

func newSummaryResponse(summary pricing.Summary) summaryResponse {
	return summaryResponse{
		SubtotalUSD:      summary.SubtotalBase,
		TaxUSD:           summary.TaxAmountBase,
		TotalUSD:         summary.BaseTotal,
		DisplaySubtotal:  summary.DisplaySubtotal,
		DisplayTotal:     summary.DisplayTotal,
		DisplaySymbol:    summary.DisplaySymbol,
		TaxPercentage:    summary.TaxPercentage,
		PrunedServiceIDs: summary.PrunedServiceIDs,
	}
}

func newInvoiceResponse(invoice *vitalfit.Invoice) *invoiceResponse {
	if invoice == nil {
		return nil
	}
	items := make([]invoiceItemDTO, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, invoiceItemDTO{
			ItemID:    item.ItemID,
			Kind:      item.Kind,
			Name:      item.Name,
			AmountUSD: item.AmountUSD,
		})
	}
	payments := make([]paymentDTO, 0, len(invoice.Payments))
	for _, payment := range invoice.Payments {
		payments = append(payments, paymentDTO{
			ID:         payment.ID,
			MethodID:   payment.MethodID,
			AmountUSD:  payment.AmountUSD,
			Reference:  payment.Reference,
			ReceiptURL: payment.ReceiptURL,
			RecordedAt: payment.RecordedAt,
		})
	}
	return &invoiceResponse{
		ID:        invoice.ID,
		Status:    invoice.Status,
		Items:     items,
		Payments:  payments,
		TotalUSD:  invoice.TotalUSD,
		CreatedAt: invoice.CreatedAt,
	}
}
