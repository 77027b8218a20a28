package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

type stubCoreAPI struct {
	membershipCalls int
	packageCalls    int
	serviceCalls    int
	byIDCalls       int

	memberships    []vitalfit.Membership
	membershipsErr error
	packages       []vitalfit.Package
	servicePages   map[int]*vitalfit.ServicePage
	servicesErr    error
	serviceByID    map[uuid.UUID]*vitalfit.Service
}

func (s *stubCoreAPI) GetMemberships(_ context.Context, _ string, _ enums.Currency) ([]vitalfit.Membership, error) {
	s.membershipCalls++
	if s.membershipsErr != nil {
		return nil, s.membershipsErr
	}
	return s.memberships, nil
}

func (s *stubCoreAPI) GetPackages(_ context.Context, _ enums.Currency) ([]vitalfit.Package, error) {
	s.packageCalls++
	return s.packages, nil
}

func (s *stubCoreAPI) GetServices(_ context.Context, _ uuid.UUID, _ enums.Currency, page, _ int) (*vitalfit.ServicePage, error) {
	s.serviceCalls++
	if s.servicesErr != nil {
		return nil, s.servicesErr
	}
	if result, ok := s.servicePages[page]; ok {
		return result, nil
	}
	return &vitalfit.ServicePage{Page: page, TotalPages: page}, nil
}

func (s *stubCoreAPI) GetServiceByID(_ context.Context, serviceID uuid.UUID, _ enums.Currency) (*vitalfit.Service, error) {
	s.byIDCalls++
	if svc, ok := s.serviceByID[serviceID]; ok {
		return svc, nil
	}
	return nil, errors.New("service not found")
}

func (s *stubCoreAPI) GetBranches(_ context.Context) ([]vitalfit.Branch, error) {
	return nil, nil
}

func (s *stubCoreAPI) GetBranchPaymentMethods(_ context.Context, _ uuid.UUID) ([]vitalfit.PaymentMethod, error) {
	return nil, nil
}

func (s *stubCoreAPI) GetTaxRate(_ context.Context, _ uuid.UUID) (*vitalfit.TaxRate, error) {
	return &vitalfit.TaxRate{Rate: decimal.NewFromFloat(0.16)}, nil
}

func newTestService(t *testing.T, stub *stubCoreAPI) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Client: stub,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func membership(name string) vitalfit.Membership {
	return vitalfit.Membership{ID: uuid.New(), Name: name, PriceUSD: decimal.NewFromInt(45)}
}

func service(name string) vitalfit.Service {
	return vitalfit.Service{ID: uuid.New(), Name: name, PriceUSD: decimal.NewFromInt(10)}
}

func TestMembershipsFetchOncePerKey(t *testing.T) {
	stub := &stubCoreAPI{memberships: []vitalfit.Membership{membership("basic")}}
	svc := newTestService(t, stub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Memberships(ctx, "es", enums.CurrencyUSD); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if stub.membershipCalls != 1 {
		t.Fatalf("expected 1 fetch for a stable key, got %d", stub.membershipCalls)
	}

	// Currency change is a key change: exactly one refetch.
	if _, err := svc.Memberships(ctx, "es", enums.CurrencyVES); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.membershipCalls != 2 {
		t.Fatalf("expected refetch on currency change, got %d calls", stub.membershipCalls)
	}
}

func TestMembershipsKeepStaleDataOnFailure(t *testing.T) {
	stub := &stubCoreAPI{memberships: []vitalfit.Membership{membership("basic")}}
	svc := newTestService(t, stub)
	ctx := context.Background()

	loaded, err := svc.Memberships(ctx, "es", enums.CurrencyUSD)
	if err != nil || len(loaded) != 1 {
		t.Fatalf("seed load failed: %v", err)
	}

	stub.membershipsErr = errors.New("upstream down")
	stale, err := svc.Memberships(ctx, "es", enums.CurrencyVES)
	if err == nil {
		t.Fatal("expected load error to surface")
	}
	if len(stale) != 1 || stale[0].Name != "basic" {
		t.Fatalf("expected previously loaded data kept, got %+v", stale)
	}
}

func TestServicesAppendPagesAndResetOnBranchChange(t *testing.T) {
	firstPage := []vitalfit.Service{service("spinning"), service("sauna")}
	secondPage := []vitalfit.Service{service("massage")}
	stub := &stubCoreAPI{servicePages: map[int]*vitalfit.ServicePage{
		1: {Items: firstPage, Page: 1, TotalPages: 2},
		2: {Items: secondPage, Page: 2, TotalPages: 2},
	}}
	svc := newTestService(t, stub)
	ctx := context.Background()
	branch := uuid.New()

	result, err := svc.Services(ctx, branch, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 || !result.HasMore() {
		t.Fatalf("unexpected first page: %+v", result)
	}

	result, err = svc.MoreServices(ctx, branch, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 3 || result.HasMore() {
		t.Fatalf("expected appended pages, got %+v", result)
	}

	// Exhausted pagination: no further fetches.
	calls := stub.serviceCalls
	if _, err := svc.MoreServices(ctx, branch, enums.CurrencyUSD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.serviceCalls != calls {
		t.Fatal("expected no fetch past the last page")
	}

	// Branch change resets the accumulation to the new first page.
	result, err = svc.Services(ctx, uuid.New(), enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 || result.Page != 1 {
		t.Fatalf("expected reset on branch change, got %+v", result)
	}
}

func TestServicesKeepAccumulationOnFailure(t *testing.T) {
	stub := &stubCoreAPI{servicePages: map[int]*vitalfit.ServicePage{
		1: {Items: []vitalfit.Service{service("spinning")}, Page: 1, TotalPages: 2},
	}}
	svc := newTestService(t, stub)
	ctx := context.Background()
	branch := uuid.New()

	if _, err := svc.Services(ctx, branch, enums.CurrencyUSD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stub.servicesErr = errors.New("upstream down")
	result, err := svc.MoreServices(ctx, branch, enums.CurrencyUSD)
	if err == nil {
		t.Fatal("expected load error to surface")
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected accumulated services kept, got %+v", result)
	}
}

func TestGetServiceByIDPrefersLoadedPages(t *testing.T) {
	target := service("spinning")
	stub := &stubCoreAPI{servicePages: map[int]*vitalfit.ServicePage{
		1: {Items: []vitalfit.Service{target}, Page: 1, TotalPages: 1},
	}}
	svc := newTestService(t, stub)
	ctx := context.Background()

	if _, err := svc.Services(ctx, uuid.New(), enums.CurrencyUSD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.GetServiceByID(ctx, target.ID, enums.CurrencyUSD)
	if err != nil || found.Name != "spinning" {
		t.Fatalf("expected cached service, got %+v err=%v", found, err)
	}
	if stub.byIDCalls != 0 {
		t.Fatalf("expected cache hit without upstream call, got %d", stub.byIDCalls)
	}

	// An id outside the accumulated pages falls back to the core API.
	if _, err := svc.GetServiceByID(ctx, uuid.New(), enums.CurrencyUSD); err == nil {
		t.Fatal("expected unknown id to surface the upstream error")
	}
	if stub.byIDCalls != 1 {
		t.Fatalf("expected upstream call on cache miss, got %d", stub.byIDCalls)
	}
}

func TestGetServiceByIDIgnoresCacheFromOtherCurrency(t *testing.T) {
	cached := service("spinning")
	fresh := cached
	fresh.RefPrices = []vitalfit.RefPrice{{Currency: enums.CurrencyVES, Amount: decimal.NewFromInt(400)}}
	stub := &stubCoreAPI{
		servicePages: map[int]*vitalfit.ServicePage{
			1: {Items: []vitalfit.Service{cached}, Page: 1, TotalPages: 1},
		},
		serviceByID: map[uuid.UUID]*vitalfit.Service{cached.ID: &fresh},
	}
	svc := newTestService(t, stub)
	ctx := context.Background()

	// Pages were accumulated under USD; a VES lookup must not serve them.
	if _, err := svc.Services(ctx, uuid.New(), enums.CurrencyUSD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.GetServiceByID(ctx, cached.ID, enums.CurrencyVES)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.byIDCalls != 1 {
		t.Fatalf("expected upstream fetch for the other currency, got %d calls", stub.byIDCalls)
	}
	if len(found.RefPrices) != 1 || found.RefPrices[0].Currency != enums.CurrencyVES {
		t.Fatalf("expected fresh VES pricing, got %+v", found.RefPrices)
	}
}
