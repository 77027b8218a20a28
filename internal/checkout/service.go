package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/internal/pricing"
	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/metrics"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

var (
	errStoreRequired   = errors.New("checkout session store is required")
	errCatalogRequired = errors.New("checkout catalog is required")
	errBillingRequired = errors.New("checkout billing client is required")
	errLoggerRequired  = errors.New("checkout logger is required")
)

// sessionStore is the slice of the selection store the wizard mutates.
type sessionStore interface {
	Create(ctx context.Context, memberID uuid.UUID, seed *selection.SelectedItem) (*selection.Selection, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*selection.Selection, error)
	Update(ctx context.Context, sessionID uuid.UUID, fn func(*selection.Selection) error) (*selection.Selection, error)
}

// catalogSource provides the fresh catalog data totals are computed from.
type catalogSource interface {
	Memberships(ctx context.Context, locale string, currency enums.Currency) ([]vitalfit.Membership, error)
	Packages(ctx context.Context, currency enums.Currency) ([]vitalfit.Package, error)
	LoadedServices(ctx context.Context, branchID uuid.UUID, currency enums.Currency) ([]vitalfit.Service, error)
	PaymentMethods(ctx context.Context, branchID uuid.UUID) ([]vitalfit.PaymentMethod, error)
	TaxRate(ctx context.Context, branchID uuid.UUID) (*vitalfit.TaxRate, error)
}

// billingAPI is the slice of the core API the wizard settles through.
type billingAPI interface {
	CreateInvoice(ctx context.Context, params vitalfit.InvoiceCreateParams) (*vitalfit.Invoice, error)
	AddPayment(ctx context.Context, invoiceID uuid.UUID, params vitalfit.PaymentParams) (*vitalfit.Invoice, error)
	CreateCheckoutSession(ctx context.Context, params vitalfit.CheckoutSessionParams) (*vitalfit.CheckoutSession, error)
	GetInvoiceByID(ctx context.Context, invoiceID uuid.UUID) (*vitalfit.Invoice, error)
}

// Service orchestrates the four-step wizard: 1 select plan, 2 payment,
// 3 transfer confirmation, 4 success. The hosted card path is terminal at
// step 2; manual reference payments skip step 3.
type Service struct {
	store   sessionStore
	catalog catalogSource
	billing billingAPI
	logger  *logger.Logger
	metrics *metrics.CheckoutMetrics
	locale  string
}

type ServiceParams struct {
	Store   sessionStore
	Catalog catalogSource
	Billing billingAPI
	Logger  *logger.Logger
	Metrics *metrics.CheckoutMetrics
	Locale  string
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, errStoreRequired
	}
	if params.Catalog == nil {
		return nil, errCatalogRequired
	}
	if params.Billing == nil {
		return nil, errBillingRequired
	}
	if params.Logger == nil {
		return nil, errLoggerRequired
	}
	locale := params.Locale
	if locale == "" {
		locale = "es"
	}
	return &Service{
		store:   params.Store,
		catalog: params.Catalog,
		billing: params.Billing,
		logger:  params.Logger,
		metrics: params.Metrics,
		locale:  locale,
	}, nil
}

// Quote is the computed totals plus the (possibly pruned) selection.
type Quote struct {
	Selection *selection.Selection
	Summary   pricing.Summary
}

// Quote computes the current totals for the session. Services the member
// gets for free are pruned from the selection; the summary reports them so
// the caller can surface a notice.
func (s *Service) Quote(ctx context.Context, sessionID uuid.UUID, isMember bool) (*Quote, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("quote", time.Since(start)) }()

	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	in, err := s.pricingInput(ctx, sel, isMember)
	if err != nil {
		return nil, err
	}
	summary := pricing.Compute(in)

	if len(summary.PrunedServiceIDs) > 0 {
		sel, err = s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
			for _, id := range summary.PrunedServiceIDs {
				live.RemoveService(id)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		ctx = s.logger.WithSessionID(ctx, sessionID.String())
		s.logger.Info(s.logger.WithField(ctx, "pruned", len(summary.PrunedServiceIDs)), "free member services removed from selection")
	}

	return &Quote{Selection: sel, Summary: summary}, nil
}

// ConfirmOrder gates step 1 → 2: the selection must be processable, the
// invoice is created upstream, attached, and the wizard advances. On any
// failure the session is left exactly as it was.
func (s *Service) ConfirmOrder(ctx context.Context, sessionID uuid.UUID) (*selection.Selection, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("confirm_order", time.Since(start)) }()

	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.Step != enums.StepSelectPlan {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already confirmed")
	}
	if !sel.CanProcess() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a branch and at least one item first")
	}

	// Re-confirming after a partial failure reuses the invoice that already
	// exists instead of opening a second one.
	invoice := sel.Invoice
	if invoice == nil {
		invoice, err = s.billing.CreateInvoice(ctx, vitalfit.InvoiceCreateParams{
			MemberID:     sel.MemberID,
			BranchID:     *sel.BranchID,
			MembershipID: sel.MembershipID,
			PackageIDs:   sel.PackageIDs(),
			ServiceIDs:   sel.ServiceIDs(),
		})
		if err != nil {
			s.logger.Error(s.logger.WithSessionID(ctx, sessionID.String()), "invoice creation failed", err)
			return nil, err
		}
		s.metrics.IncInvoiceCreated()
	}

	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := live.SetInvoice(invoice); err != nil {
			return err
		}
		return live.SetStep(enums.StepPayment)
	})
}

// PaymentParams carries the step 2/3 submission.
type PaymentParams struct {
	MethodID   uuid.UUID
	Amount     *decimal.Decimal
	Reference  string
	ReceiptURL *string
	ReturnURL  string
	IsMember   bool
}

// PaymentResult reports where the submission landed: a hosted redirect URL,
// or a recorded payment with the refreshed invoice.
type PaymentResult struct {
	Selection   *selection.Selection
	RedirectURL *string
	AmountPaid  *decimal.Decimal
	ReceiptURL  *string
}

// SubmitPayment handles step 2. Hosted card methods open a checkout session
// and return the redirect URL without advancing; bank transfers route to
// step 3; other manual methods record the payment and jump to step 4.
func (s *Service) SubmitPayment(ctx context.Context, sessionID uuid.UUID, params PaymentParams) (*PaymentResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("submit_payment", time.Since(start)) }()

	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.Step != enums.StepPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session is not at the payment step")
	}
	if sel.Invoice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "confirm the order before paying")
	}

	method, err := s.resolveMethod(ctx, sel, params.MethodID)
	if err != nil {
		return nil, err
	}

	switch {
	case method.Kind.IsHosted():
		return s.openHostedSession(ctx, sessionID, sel, method, params.ReturnURL)
	case method.Kind == enums.PaymentMethodBankTransfer:
		updated, err := s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
			live.SetMethod(method.ID)
			return live.SetStep(enums.StepInvoiceConfirmation)
		})
		if err != nil {
			return nil, err
		}
		return &PaymentResult{Selection: updated}, nil
	default:
		return s.recordPayment(ctx, sessionID, sel, method, params)
	}
}

// ConfirmTransfer handles step 3: the member reports the transfer with its
// reference (amount defaults to the computed total) and the wizard advances
// to step 4.
func (s *Service) ConfirmTransfer(ctx context.Context, sessionID uuid.UUID, params PaymentParams) (*PaymentResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("confirm_transfer", time.Since(start)) }()

	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.Step != enums.StepInvoiceConfirmation {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session is not at the confirmation step")
	}

	methodID := params.MethodID
	if methodID == uuid.Nil && sel.MethodID != nil {
		methodID = *sel.MethodID
	}
	method, err := s.resolveMethod(ctx, sel, methodID)
	if err != nil {
		return nil, err
	}
	if !method.Kind.RequiresReference() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected method does not settle by transfer")
	}

	return s.recordPayment(ctx, sessionID, sel, method, params)
}

// Success is the read-only step 4 view: invoice and payments fetched fresh.
type Success struct {
	Selection *selection.Selection
	Invoice   *vitalfit.Invoice
	Summary   pricing.Summary
}

func (s *Service) Success(ctx context.Context, sessionID uuid.UUID, isMember bool) (*Success, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOperation("success", time.Since(start)) }()

	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.Invoice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session has no invoice")
	}

	invoice, err := s.billing.GetInvoiceByID(ctx, sel.Invoice.ID)
	if err != nil {
		return nil, err
	}

	sel, err = s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		return live.SetInvoice(invoice)
	})
	if err != nil {
		return nil, err
	}

	in, err := s.pricingInput(ctx, sel, isMember)
	if err != nil {
		return nil, err
	}

	return &Success{
		Selection: sel,
		Invoice:   invoice,
		Summary:   pricing.Compute(in),
	}, nil
}

func (s *Service) openHostedSession(ctx context.Context, sessionID uuid.UUID, sel *selection.Selection, method *vitalfit.PaymentMethod, returnURL string) (*PaymentResult, error) {
	session, err := s.billing.CreateCheckoutSession(ctx, vitalfit.CheckoutSessionParams{
		InvoiceID: sel.Invoice.ID,
		MethodID:  method.ID,
		ReturnURL: returnURL,
	})
	if err != nil {
		s.logger.Error(s.logger.WithSessionID(ctx, sessionID.String()), "hosted checkout session failed", err)
		return nil, err
	}

	redirect := session.RedirectURL
	updated, err := s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		live.SetMethod(method.ID)
		live.RedirectURL = &redirect
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncHostedRedirect()
	return &PaymentResult{Selection: updated, RedirectURL: &redirect}, nil
}

func (s *Service) recordPayment(ctx context.Context, sessionID uuid.UUID, sel *selection.Selection, method *vitalfit.PaymentMethod, params PaymentParams) (*PaymentResult, error) {
	if method.Kind.RequiresReference() && params.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	amount, err := s.resolveAmount(ctx, sel, params)
	if err != nil {
		return nil, err
	}

	invoice, err := s.billing.AddPayment(ctx, sel.Invoice.ID, vitalfit.PaymentParams{
		MethodID:   method.ID,
		AmountUSD:  amount,
		Reference:  params.Reference,
		ReceiptURL: params.ReceiptURL,
	})
	if err != nil {
		s.logger.Error(s.logger.WithSessionID(ctx, sessionID.String()), "payment submission failed", err)
		return nil, err
	}

	updated, err := s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		live.SetMethod(method.ID)
		if err := live.SetInvoice(invoice); err != nil {
			return err
		}
		return live.SetStep(enums.StepSuccess)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentRecorded(string(method.Kind))
	return &PaymentResult{
		Selection:  updated,
		AmountPaid: &amount,
		ReceiptURL: params.ReceiptURL,
	}, nil
}

// resolveAmount defaults the paid amount to the computed base total.
func (s *Service) resolveAmount(ctx context.Context, sel *selection.Selection, params PaymentParams) (decimal.Decimal, error) {
	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
		}
		return *params.Amount, nil
	}

	in, err := s.pricingInput(ctx, sel, params.IsMember)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.Compute(in).BaseTotal, nil
}

func (s *Service) resolveMethod(ctx context.Context, sel *selection.Selection, methodID uuid.UUID) (*vitalfit.PaymentMethod, error) {
	if methodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if sel.BranchID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "selection has no branch")
	}

	methods, err := s.catalog.PaymentMethods(ctx, *sel.BranchID)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == methodID {
			return &methods[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method not offered by the branch")
}

// pricingInput gathers the fresh catalog slices the aggregator prefers.
// Catalog load failures (other than the tax rate) fall back to snapshot
// prices instead of blocking totals.
func (s *Service) pricingInput(ctx context.Context, sel *selection.Selection, isMember bool) (pricing.Input, error) {
	in := pricing.Input{Selection: sel, IsMember: isMember}

	if memberships, err := s.catalog.Memberships(ctx, s.locale, sel.Currency); err == nil {
		in.Memberships = memberships
	}
	if packages, err := s.catalog.Packages(ctx, sel.Currency); err == nil {
		in.Packages = packages
	}
	if sel.BranchID != nil {
		if services, err := s.catalog.LoadedServices(ctx, *sel.BranchID, sel.Currency); err == nil {
			in.Services = services
		}
		rate, err := s.catalog.TaxRate(ctx, *sel.BranchID)
		if err != nil {
			return in, err
		}
		in.TaxRate = rate.Rate
	}
	return in, nil
}
