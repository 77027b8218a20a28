package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

// Input bundles everything Compute needs. Catalog slices carry the freshest
// loaded data; snapshot prices inside the selection are only a fallback.
type Input struct {
	Selection   *selection.Selection
	Memberships []vitalfit.Membership
	Packages    []vitalfit.Package
	Services    []vitalfit.Service
	TaxRate     decimal.Decimal
	IsMember    bool
}

// Summary is the computed checkout total. Base amounts are USD; display
// amounts are in the selection's currency.
type Summary struct {
	SubtotalBase    decimal.Decimal
	TaxAmountBase   decimal.Decimal
	BaseTotal       decimal.Decimal
	DisplaySubtotal decimal.Decimal
	DisplayTotal    decimal.Decimal
	DisplaySymbol   string
	TaxPercentage   decimal.Decimal

	// PrunedServiceIDs lists member-free services the caller should drop
	// from the selection and surface as a notice.
	PrunedServiceIDs []uuid.UUID
}

// priced is the common shape of anything with a base price and ref prices.
type priced struct {
	base decimal.Decimal
	refs []vitalfit.RefPrice
}

// Compute aggregates the selection into a price summary. It is a pure
// function: pruning is reported, never applied.
func Compute(in Input) Summary {
	sel := in.Selection
	currency := enums.CurrencyUSD
	if sel != nil && sel.Currency.IsValid() {
		currency = sel.Currency
	}

	summary := Summary{
		SubtotalBase:    decimal.Zero,
		DisplaySubtotal: decimal.Zero,
		DisplaySymbol:   currency.Symbol(),
		TaxPercentage:   in.TaxRate.Mul(decimal.NewFromInt(100)),
	}
	if sel == nil {
		summary.TaxAmountBase = decimal.Zero
		summary.BaseTotal = decimal.Zero
		summary.DisplayTotal = decimal.Zero
		return summary
	}

	if sel.Membership != nil {
		entry := resolveMembership(sel.Membership, in.Memberships)
		summary.add(entry, currency)
	}

	for i := range sel.Packages {
		entry := resolvePackage(&sel.Packages[i], in.Packages)
		summary.add(entry, currency)
	}

	for i := range sel.Services {
		item := &sel.Services[i]
		fresh := findService(item.ID, in.Services)

		if in.IsMember && memberPriceIsZero(item, fresh) {
			summary.PrunedServiceIDs = append(summary.PrunedServiceIDs, item.ID)
			continue
		}

		entry := resolveService(item, fresh, in.IsMember)
		summary.add(entry, currency)
	}

	summary.TaxAmountBase = summary.SubtotalBase.Mul(in.TaxRate)
	summary.BaseTotal = summary.SubtotalBase.Add(summary.TaxAmountBase)

	if currency.IsBase() {
		summary.DisplaySubtotal = summary.SubtotalBase
		summary.DisplayTotal = summary.BaseTotal
	} else {
		one := decimal.NewFromInt(1)
		summary.DisplayTotal = summary.DisplaySubtotal.Mul(one.Add(in.TaxRate))
	}

	return summary
}

func (s *Summary) add(entry priced, currency enums.Currency) {
	s.SubtotalBase = s.SubtotalBase.Add(entry.base)
	if !currency.IsBase() {
		s.DisplaySubtotal = s.DisplaySubtotal.Add(displayAmount(entry, currency))
	}
}

// displayAmount picks the ref price for the currency, falling back to the
// base USD amount when the catalog publishes no conversion.
func displayAmount(entry priced, currency enums.Currency) decimal.Decimal {
	for _, ref := range entry.refs {
		if ref.Currency == currency {
			return ref.Amount
		}
	}
	return entry.base
}

// resolveMembership prefers the fresh catalog plan matched by id over the
// snapshot captured at selection time.
func resolveMembership(item *selection.SelectedItem, fresh []vitalfit.Membership) priced {
	for i := range fresh {
		if fresh[i].ID == item.ID {
			return priced{base: fresh[i].PriceUSD, refs: fresh[i].RefPrices}
		}
	}
	return priced{base: item.PriceUSD, refs: item.RefPrices}
}

func resolvePackage(item *selection.SelectedItem, fresh []vitalfit.Package) priced {
	for i := range fresh {
		if fresh[i].ID == item.ID {
			return priced{base: fresh[i].PriceUSD, refs: fresh[i].RefPrices}
		}
	}
	return priced{base: item.PriceUSD, refs: item.RefPrices}
}

func resolveService(item *selection.SelectedItem, fresh *vitalfit.Service, isMember bool) priced {
	if fresh != nil {
		base := fresh.PriceUSD
		if isMember && fresh.MemberPriceUSD != nil {
			base = *fresh.MemberPriceUSD
		}
		return priced{base: base, refs: fresh.RefPrices}
	}
	base := item.PriceUSD
	if isMember && item.MemberPriceUSD != nil {
		base = *item.MemberPriceUSD
	}
	return priced{base: base, refs: item.RefPrices}
}

func findService(id uuid.UUID, fresh []vitalfit.Service) *vitalfit.Service {
	for i := range fresh {
		if fresh[i].ID == id {
			return &fresh[i]
		}
	}
	return nil
}

func memberPriceIsZero(item *selection.SelectedItem, fresh *vitalfit.Service) bool {
	if fresh != nil {
		return fresh.MemberPriceUSD != nil && fresh.MemberPriceUSD.IsZero()
	}
	return item.MemberPriceUSD != nil && item.MemberPriceUSD.IsZero()
}
