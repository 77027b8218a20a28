package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

type stubRepo struct {
	added   []models.WishlistItem
	removed [][2]uuid.UUID
	page    PageDTO
}

func (r *stubRepo) AddItem(_ context.Context, item models.WishlistItem) error {
	r.added = append(r.added, item)
	return nil
}

func (r *stubRepo) RemoveItem(_ context.Context, memberID, serviceID uuid.UUID) error {
	r.removed = append(r.removed, [2]uuid.UUID{memberID, serviceID})
	return nil
}

func (r *stubRepo) ListItems(_ context.Context, _ uuid.UUID, _ string, _ int) (PageDTO, error) {
	return r.page, nil
}

func (r *stubRepo) ListItemIDs(_ context.Context, _ uuid.UUID, _ string, _ int) (IDsDTO, error) {
	return IDsDTO{}, nil
}

type stubResolver struct {
	service *vitalfit.Service
	err     error
}

func (r *stubResolver) GetServiceByID(_ context.Context, _ uuid.UUID, _ enums.Currency) (*vitalfit.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.service, nil
}

func TestAddItemSnapshotsRefPrice(t *testing.T) {
	svcID := uuid.New()
	branchID := uuid.New()
	resolver := &stubResolver{service: &vitalfit.Service{
		ID:       svcID,
		BranchID: branchID,
		Name:     "Spinning",
		PriceUSD: decimal.NewFromInt(10),
		RefPrices: []vitalfit.RefPrice{
			{Currency: enums.CurrencyVES, Amount: decimal.NewFromInt(400)},
		},
	}}
	repo := &stubRepo{}
	service, err := NewService(ServiceParams{Repo: repo, Resolver: resolver})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memberID := uuid.New()
	if err := service.AddItem(context.Background(), memberID, svcID, enums.CurrencyVES); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.added) != 1 {
		t.Fatalf("expected one row added, got %d", len(repo.added))
	}
	row := repo.added[0]
	if row.MemberID != memberID || row.ServiceID != svcID || row.BranchID != branchID {
		t.Fatalf("unexpected row identity: %+v", row)
	}
	if !row.RefPrice.Equal(decimal.NewFromInt(400)) || row.RefCurrency != enums.CurrencyVES {
		t.Fatalf("unexpected ref snapshot: %s %s", row.RefPrice, row.RefCurrency)
	}
}

func TestAddItemFallsBackToUSDSnapshot(t *testing.T) {
	resolver := &stubResolver{service: &vitalfit.Service{
		ID:       uuid.New(),
		PriceUSD: decimal.NewFromInt(10),
	}}
	repo := &stubRepo{}
	service, _ := NewService(ServiceParams{Repo: repo, Resolver: resolver})

	if err := service.AddItem(context.Background(), uuid.New(), resolver.service.ID, enums.CurrencyVES); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := repo.added[0]
	if !row.RefPrice.Equal(decimal.NewFromInt(10)) || row.RefCurrency != enums.CurrencyUSD {
		t.Fatalf("expected USD fallback snapshot, got %s %s", row.RefPrice, row.RefCurrency)
	}
}

func TestAddItemSurfacesUnknownService(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "service not found")}
	repo := &stubRepo{}
	service, _ := NewService(ServiceParams{Repo: repo, Resolver: resolver})

	err := service.AddItem(context.Background(), uuid.New(), uuid.New(), enums.CurrencyUSD)
	if err == nil {
		t.Fatal("expected unknown service to fail")
	}
	if len(repo.added) != 0 {
		t.Fatal("nothing must be stored for an unknown service")
	}
}

func TestRemoveItemRequiresMember(t *testing.T) {
	repo := &stubRepo{}
	service, _ := NewService(ServiceParams{Repo: repo, Resolver: &stubResolver{}})

	if err := service.RemoveItem(context.Background(), uuid.Nil, uuid.New()); err == nil {
		t.Fatal("expected missing member id to fail")
	}
	if err := service.RemoveItem(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.removed) != 1 {
		t.Fatalf("expected one removal, got %d", len(repo.removed))
	}
}
