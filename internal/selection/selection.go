package selection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

// SelectedItem is the snapshot a selection keeps for a chosen catalog item.
// Prices are captured at selection time; the aggregator prefers a fresh
// catalog entry matched by id and only falls back to this snapshot.
type SelectedItem struct {
	ID             uuid.UUID
	Name           string
	PriceUSD       decimal.Decimal
	MemberPriceUSD *decimal.Decimal
	RefPrices      []vitalfit.RefPrice
}

// Selection is the server-side checkout session state. One mutation per
// action; mutations run serialized under the store's per-session lock.
type Selection struct {
	SessionID    uuid.UUID
	MemberID     uuid.UUID
	Step         enums.CheckoutStep
	MembershipID *uuid.UUID
	Membership   *SelectedItem
	BranchID     *uuid.UUID
	Packages     []SelectedItem
	Services     []SelectedItem
	Currency     enums.Currency
	MethodID     *uuid.UUID
	Invoice      *vitalfit.Invoice
	RedirectURL  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func newSelection(memberID uuid.UUID, now time.Time) *Selection {
	return &Selection{
		SessionID: uuid.New(),
		MemberID:  memberID,
		Step:      enums.StepSelectPlan,
		Currency:  enums.CurrencyUSD,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStep moves the wizard to an explicit step.
func (s *Selection) SetStep(step enums.CheckoutStep) error {
	if !step.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout step")
	}
	s.Step = step
	return nil
}

// Next advances the wizard one step, clamped at the terminal step. It
// performs no validation; gating lives in the checkout service.
func (s *Selection) Next() {
	s.Step = s.Step.Next()
}

// SetMembership selects a membership plan. Selecting the current plan again
// deselects it.
func (s *Selection) SetMembership(item *SelectedItem) {
	if item == nil || (s.MembershipID != nil && *s.MembershipID == item.ID) {
		s.MembershipID = nil
		s.Membership = nil
		return
	}
	id := item.ID
	snapshot := *item
	s.MembershipID = &id
	s.Membership = &snapshot
}

// SetBranch picks the gym location the checkout belongs to. Services and
// the payment method are branch-scoped, so they reset when the branch
// changes.
func (s *Selection) SetBranch(branchID uuid.UUID) {
	if s.BranchID != nil && *s.BranchID == branchID {
		return
	}
	s.Services = nil
	s.MethodID = nil
	if branchID == uuid.Nil {
		s.BranchID = nil
		return
	}
	id := branchID
	s.BranchID = &id
}

// TogglePackage adds the package when absent and removes it when present.
// Order of first selection is preserved.
func (s *Selection) TogglePackage(item SelectedItem) {
	s.Packages = toggle(s.Packages, item)
}

// ToggleService adds the service when absent and removes it when present.
func (s *Selection) ToggleService(item SelectedItem) {
	s.Services = toggle(s.Services, item)
}

// RemoveService drops a service from the selection if present and reports
// whether anything was removed.
func (s *Selection) RemoveService(serviceID uuid.UUID) bool {
	for i, existing := range s.Services {
		if existing.ID == serviceID {
			s.Services = append(s.Services[:i], s.Services[i+1:]...)
			return true
		}
	}
	return false
}

// SetCurrency switches the display currency. Cached snapshot prices become
// stale for the new denomination; the aggregator resolves display amounts
// from fresh catalog data by id.
func (s *Selection) SetCurrency(currency enums.Currency) error {
	if !currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}
	s.Currency = currency
	return nil
}

// SetMethod picks the branch payment method used at the payment step.
func (s *Selection) SetMethod(methodID uuid.UUID) {
	if methodID == uuid.Nil {
		s.MethodID = nil
		return
	}
	id := methodID
	s.MethodID = &id
}

// SetInvoice attaches the created invoice. An invoice is immutable once set:
// re-attaching a different invoice is a state conflict, while re-attaching
// the same invoice (refreshed, with appended payments) is allowed.
func (s *Selection) SetInvoice(invoice *vitalfit.Invoice) error {
	if invoice == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice is required")
	}
	if s.Invoice != nil && s.Invoice.ID != invoice.ID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "selection already has an invoice")
	}
	s.Invoice = invoice
	return nil
}

// HasInvoice reports whether an invoice was already created for this session.
func (s *Selection) HasInvoice() bool {
	return s.Invoice != nil
}

// CanProcess reports whether the selection is complete enough to open an
// invoice: a branch plus at least one purchasable item.
func (s *Selection) CanProcess() bool {
	if s.BranchID == nil {
		return false
	}
	return s.MembershipID != nil || len(s.Packages) > 0 || len(s.Services) > 0
}

// PackageIDs returns the selected package ids in selection order.
func (s *Selection) PackageIDs() []uuid.UUID {
	return itemIDs(s.Packages)
}

// ServiceIDs returns the selected service ids in selection order.
func (s *Selection) ServiceIDs() []uuid.UUID {
	return itemIDs(s.Services)
}

func toggle(items []SelectedItem, item SelectedItem) []SelectedItem {
	for i, existing := range items {
		if existing.ID == item.ID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return append(items, item)
}

func itemIDs(items []SelectedItem) []uuid.UUID {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
