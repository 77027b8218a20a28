package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

// ensureEditable rejects selection edits once the order is confirmed: the
// invoice created at confirmation is immutable, so the selection it was
// priced from must stop moving with it.
func ensureEditable(sel *selection.Selection) error {
	if sel.Step != enums.StepSelectPlan {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "selection is locked after order confirmation")
	}
	return nil
}

// StartSession opens a wizard session for the member, optionally seeded with
// a membership picked on the landing page.
func (s *Service) StartSession(ctx context.Context, memberID uuid.UUID, membershipID *uuid.UUID, currency enums.Currency) (*selection.Selection, error) {
	var seed *selection.SelectedItem
	if membershipID != nil {
		item, err := s.membershipItem(ctx, *membershipID, currency)
		if err != nil {
			return nil, err
		}
		seed = item
	}
	return s.store.Create(ctx, memberID, seed)
}

// SetMembership snapshots the chosen plan onto the selection. Picking the
// current plan again clears it.
func (s *Service) SetMembership(ctx context.Context, sessionID, membershipID uuid.UUID) (*selection.Selection, error) {
	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	item, err := s.membershipItem(ctx, membershipID, sel.Currency)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := ensureEditable(live); err != nil {
			return err
		}
		live.SetMembership(item)
		return nil
	})
}

// SetBranch pins the branch the member will train at. Branch-scoped picks
// (services, payment method) reset when it changes.
func (s *Service) SetBranch(ctx context.Context, sessionID, branchID uuid.UUID) (*selection.Selection, error) {
	if branchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch id is required")
	}
	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := ensureEditable(live); err != nil {
			return err
		}
		live.SetBranch(branchID)
		return nil
	})
}

// TogglePackage adds the session pack to the selection, or removes it when
// already picked.
func (s *Service) TogglePackage(ctx context.Context, sessionID, packageID uuid.UUID) (*selection.Selection, error) {
	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	packages, err := s.catalog.Packages(ctx, sel.Currency)
	if err != nil {
		return nil, err
	}
	var item *selection.SelectedItem
	for i := range packages {
		if packages[i].ID == packageID {
			item = packageItem(&packages[i])
			break
		}
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
	}
	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := ensureEditable(live); err != nil {
			return err
		}
		live.TogglePackage(*item)
		return nil
	})
}

// ToggleService adds a branch service to the selection, or removes it when
// already picked. The session must have a branch.
func (s *Service) ToggleService(ctx context.Context, sessionID, serviceID uuid.UUID) (*selection.Selection, error) {
	sel, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.BranchID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a branch before adding services")
	}
	services, err := s.catalog.LoadedServices(ctx, *sel.BranchID, sel.Currency)
	if err != nil {
		return nil, err
	}
	var item *selection.SelectedItem
	for i := range services {
		if services[i].ID == serviceID {
			item = serviceItem(&services[i])
			break
		}
	}
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found at this branch")
	}
	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := ensureEditable(live); err != nil {
			return err
		}
		live.ToggleService(*item)
		return nil
	})
}

// SetCurrency switches the display currency for the session.
func (s *Service) SetCurrency(ctx context.Context, sessionID uuid.UUID, currency enums.Currency) (*selection.Selection, error) {
	return s.store.Update(ctx, sessionID, func(live *selection.Selection) error {
		if err := ensureEditable(live); err != nil {
			return err
		}
		return live.SetCurrency(currency)
	})
}

// Selection returns the current wizard state without recomputing totals.
func (s *Service) Selection(ctx context.Context, sessionID uuid.UUID) (*selection.Selection, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) membershipItem(ctx context.Context, membershipID uuid.UUID, currency enums.Currency) (*selection.SelectedItem, error) {
	memberships, err := s.catalog.Memberships(ctx, s.locale, currency)
	if err != nil {
		return nil, err
	}
	for i := range memberships {
		if memberships[i].ID == membershipID {
			return membershipItemOf(&memberships[i]), nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
}

func membershipItemOf(m *vitalfit.Membership) *selection.SelectedItem {
	return &selection.SelectedItem{
		ID:        m.ID,
		Name:      m.Name,
		PriceUSD:  m.PriceUSD,
		RefPrices: append([]vitalfit.RefPrice(nil), m.RefPrices...),
	}
}

func packageItem(p *vitalfit.Package) *selection.SelectedItem {
	return &selection.SelectedItem{
		ID:        p.ID,
		Name:      p.Name,
		PriceUSD:  p.PriceUSD,
		RefPrices: append([]vitalfit.RefPrice(nil), p.RefPrices...),
	}
}

func serviceItem(svc *vitalfit.Service) *selection.SelectedItem {
	item := &selection.SelectedItem{
		ID:        svc.ID,
		Name:      svc.Name,
		PriceUSD:  svc.PriceUSD,
		RefPrices: append([]vitalfit.RefPrice(nil), svc.RefPrices...),
	}
	if svc.MemberPriceUSD != nil {
		price := *svc.MemberPriceUSD
		item.MemberPriceUSD = &price
	}
	return item
}
