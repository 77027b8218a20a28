package wishlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

// repository is the persistence surface the service depends on.
type repository interface {
	AddItem(ctx context.Context, item models.WishlistItem) error
	RemoveItem(ctx context.Context, memberID, serviceID uuid.UUID) error
	ListItems(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (PageDTO, error)
	ListItemIDs(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (IDsDTO, error)
}

// serviceResolver verifies the service exists and provides the price
// snapshot stored with the wishlist row.
type serviceResolver interface {
	GetServiceByID(ctx context.Context, serviceID uuid.UUID, currency enums.Currency) (*vitalfit.Service, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     repository
	Resolver serviceResolver
}

// Service exposes business rules for a member's saved services.
type Service interface {
	GetWishlist(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (PageDTO, error)
	GetWishlistIDs(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (IDsDTO, error)
	AddItem(ctx context.Context, memberID, serviceID uuid.UUID, currency enums.Currency) error
	RemoveItem(ctx context.Context, memberID, serviceID uuid.UUID) error
}

type service struct {
	repo     repository
	resolver serviceResolver
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist service resolver is required")
	}
	return &service{repo: params.Repo, resolver: params.Resolver}, nil
}

// GetWishlist returns the cursor-paginated wishlist for the member.
func (s *service) GetWishlist(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if memberID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	return s.repo.ListItems(ctx, memberID, cursor, limit)
}

// GetWishlistIDs returns only the saved service ids.
func (s *service) GetWishlistIDs(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (IDsDTO, error) {
	if memberID == uuid.Nil {
		return IDsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	return s.repo.ListItemIDs(ctx, memberID, cursor, limit)
}

// AddItem verifies the service exists upstream and stores it with a price
// snapshot for the requested currency.
func (s *service) AddItem(ctx context.Context, memberID, serviceID uuid.UUID, currency enums.Currency) error {
	if memberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if serviceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}

	svc, err := s.resolver.GetServiceByID(ctx, serviceID, currency)
	if err != nil {
		return err
	}

	refPrice := svc.PriceUSD
	refCurrency := enums.CurrencyUSD
	for _, ref := range svc.RefPrices {
		if ref.Currency == currency {
			refPrice = ref.Amount
			refCurrency = ref.Currency
			break
		}
	}

	return s.repo.AddItem(ctx, models.WishlistItem{
		MemberID:      memberID,
		ServiceID:     svc.ID,
		BranchID:      svc.BranchID,
		Name:          svc.Name,
		PriceUSD:      svc.PriceUSD,
		RefPrice:      refPrice,
		RefCurrency:   refCurrency,
		FeaturedImage: svc.FeaturedImage,
	})
}

// RemoveItem drops the saved service regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, memberID, serviceID uuid.UUID) error {
	if memberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	return s.repo.RemoveItem(ctx, memberID, serviceID)
}
