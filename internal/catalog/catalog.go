package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

const defaultServicePageLen = 12

var (
	errClientRequired = errors.New("catalog core api client is required")
	errLoggerRequired = errors.New("catalog logger is required")
)

// coreAPI is the slice of the core API client the loaders depend on.
type coreAPI interface {
	GetMemberships(ctx context.Context, locale string, currency enums.Currency) ([]vitalfit.Membership, error)
	GetPackages(ctx context.Context, currency enums.Currency) ([]vitalfit.Package, error)
	GetServices(ctx context.Context, branchID uuid.UUID, currency enums.Currency, page, pageLen int) (*vitalfit.ServicePage, error)
	GetServiceByID(ctx context.Context, serviceID uuid.UUID, currency enums.Currency) (*vitalfit.Service, error)
	GetBranches(ctx context.Context) ([]vitalfit.Branch, error)
	GetBranchPaymentMethods(ctx context.Context, branchID uuid.UUID) ([]vitalfit.PaymentMethod, error)
	GetTaxRate(ctx context.Context, branchID uuid.UUID) (*vitalfit.TaxRate, error)
}

// loaderState tracks one loader's cache plus the last-requested-key guard.
// The generation counter bumps on every new request; a response whose
// generation is no longer current is discarded instead of cancelled.
type loaderState[T any] struct {
	key        string
	generation uint64
	data       T
	loaded     bool
}

// ServicesResult is the appended view of a branch's service pages.
type ServicesResult struct {
	Items      []vitalfit.Service
	Page       int
	TotalPages int
}

// HasMore reports whether another page can be appended.
func (r ServicesResult) HasMore() bool {
	return r.Page < r.TotalPages
}

type servicesState struct {
	key        string
	generation uint64
	items      []vitalfit.Service
	page       int
	totalPages int
	loaded     bool
}

// Service caches catalog data fetched from the core API. Each loader is
// keyed by the selection subset it depends on; a key change triggers exactly
// one refetch, and a failed refetch keeps the previously loaded data.
type Service struct {
	client         coreAPI
	logger         *logger.Logger
	servicePageLen int

	mu          sync.Mutex
	memberships loaderState[[]vitalfit.Membership]
	packages    loaderState[[]vitalfit.Package]
	branches    loaderState[[]vitalfit.Branch]
	methods     loaderState[[]vitalfit.PaymentMethod]
	taxRate     loaderState[*vitalfit.TaxRate]
	services    servicesState
}

type ServiceParams struct {
	Client         coreAPI
	Logger         *logger.Logger
	ServicePageLen int
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, errClientRequired
	}
	if params.Logger == nil {
		return nil, errLoggerRequired
	}
	pageLen := params.ServicePageLen
	if pageLen <= 0 {
		pageLen = defaultServicePageLen
	}
	return &Service{
		client:         params.Client,
		logger:         params.Logger,
		servicePageLen: pageLen,
	}, nil
}

// Memberships returns the plans for the locale/currency pair, fetching only
// when the pair changed since the last successful load.
func (s *Service) Memberships(ctx context.Context, locale string, currency enums.Currency) ([]vitalfit.Membership, error) {
	key := locale + "|" + string(currency)
	return loadKeyed(ctx, s, &s.memberships, key, "memberships", func(ctx context.Context) ([]vitalfit.Membership, error) {
		return s.client.GetMemberships(ctx, locale, currency)
	})
}

// Packages returns the session packages for the currency.
func (s *Service) Packages(ctx context.Context, currency enums.Currency) ([]vitalfit.Package, error) {
	return loadKeyed(ctx, s, &s.packages, string(currency), "packages", func(ctx context.Context) ([]vitalfit.Package, error) {
		return s.client.GetPackages(ctx, currency)
	})
}

// Branches returns the gym locations. The list is unkeyed; it loads once
// and refreshes only through Invalidate.
func (s *Service) Branches(ctx context.Context) ([]vitalfit.Branch, error) {
	return loadKeyed(ctx, s, &s.branches, "all", "branches", func(ctx context.Context) ([]vitalfit.Branch, error) {
		return s.client.GetBranches(ctx)
	})
}

// PaymentMethods returns the methods accepted by the branch.
func (s *Service) PaymentMethods(ctx context.Context, branchID uuid.UUID) ([]vitalfit.PaymentMethod, error) {
	return loadKeyed(ctx, s, &s.methods, branchID.String(), "payment_methods", func(ctx context.Context) ([]vitalfit.PaymentMethod, error) {
		return s.client.GetBranchPaymentMethods(ctx, branchID)
	})
}

// TaxRate returns the branch's tax rate.
func (s *Service) TaxRate(ctx context.Context, branchID uuid.UUID) (*vitalfit.TaxRate, error) {
	return loadKeyed(ctx, s, &s.taxRate, branchID.String(), "tax_rate", func(ctx context.Context) (*vitalfit.TaxRate, error) {
		return s.client.GetTaxRate(ctx, branchID)
	})
}

// Services returns the accumulated service pages for the branch/currency
// pair. A key change resets the accumulation and loads the first page.
func (s *Service) Services(ctx context.Context, branchID uuid.UUID, currency enums.Currency) (ServicesResult, error) {
	key := branchID.String() + "|" + string(currency)

	s.mu.Lock()
	if s.services.loaded && s.services.key == key {
		result := s.servicesResultLocked()
		s.mu.Unlock()
		return result, nil
	}
	s.services.generation++
	gen := s.services.generation
	s.services.key = key
	s.mu.Unlock()

	return s.fetchServicesPage(ctx, branchID, currency, key, gen, 1, true)
}

// MoreServices appends the next page for the branch/currency pair. Calling
// it with a key that differs from the accumulated one behaves like Services.
func (s *Service) MoreServices(ctx context.Context, branchID uuid.UUID, currency enums.Currency) (ServicesResult, error) {
	key := branchID.String() + "|" + string(currency)

	s.mu.Lock()
	if !s.services.loaded || s.services.key != key {
		s.mu.Unlock()
		return s.Services(ctx, branchID, currency)
	}
	if s.services.page >= s.services.totalPages {
		result := s.servicesResultLocked()
		s.mu.Unlock()
		return result, nil
	}
	s.services.generation++
	gen := s.services.generation
	nextPage := s.services.page + 1
	s.mu.Unlock()

	return s.fetchServicesPage(ctx, branchID, currency, key, gen, nextPage, false)
}

// LoadedServices returns the accumulated services for the branch/currency
// pair as a flat slice, loading the first page when nothing is cached.
func (s *Service) LoadedServices(ctx context.Context, branchID uuid.UUID, currency enums.Currency) ([]vitalfit.Service, error) {
	result, err := s.Services(ctx, branchID, currency)
	return result.Items, err
}

// GetServiceByID resolves a single service, preferring the accumulated page
// cache before asking the core API. The cache only answers when it was
// accumulated for the requested currency; prices under another currency key
// are never served. Satisfies the wishlist's resolver.
func (s *Service) GetServiceByID(ctx context.Context, serviceID uuid.UUID, currency enums.Currency) (*vitalfit.Service, error) {
	s.mu.Lock()
	if s.services.loaded && strings.HasSuffix(s.services.key, "|"+string(currency)) {
		for i := range s.services.items {
			if s.services.items[i].ID == serviceID {
				svc := s.services.items[i]
				s.mu.Unlock()
				return &svc, nil
			}
		}
	}
	s.mu.Unlock()
	return s.client.GetServiceByID(ctx, serviceID, currency)
}

// Invalidate clears every cache so the next access refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = loaderState[[]vitalfit.Membership]{generation: s.memberships.generation}
	s.packages = loaderState[[]vitalfit.Package]{generation: s.packages.generation}
	s.branches = loaderState[[]vitalfit.Branch]{generation: s.branches.generation}
	s.methods = loaderState[[]vitalfit.PaymentMethod]{generation: s.methods.generation}
	s.taxRate = loaderState[*vitalfit.TaxRate]{generation: s.taxRate.generation}
	s.services = servicesState{generation: s.services.generation}
}

func (s *Service) fetchServicesPage(ctx context.Context, branchID uuid.UUID, currency enums.Currency, key string, gen uint64, page int, reset bool) (ServicesResult, error) {
	fetched, err := s.client.GetServices(ctx, branchID, currency, page, s.servicePageLen)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.services.generation != gen {
		// A newer request superseded this one; keep whatever it produced.
		return s.servicesResultLocked(), nil
	}
	if err != nil {
		s.logger.Error(s.logger.WithField(ctx, "loader", "services"), "catalog load failed", err)
		return s.servicesResultLocked(), err
	}

	if reset {
		s.services.items = nil
	}
	s.services.items = append(s.services.items, fetched.Items...)
	s.services.key = key
	s.services.page = fetched.Page
	s.services.totalPages = fetched.TotalPages
	s.services.loaded = true
	return s.servicesResultLocked(), nil
}

func (s *Service) servicesResultLocked() ServicesResult {
	return ServicesResult{
		Items:      append([]vitalfit.Service(nil), s.services.items...),
		Page:       s.services.page,
		TotalPages: s.services.totalPages,
	}
}

// loadKeyed implements the shared cache/guard flow: return the cache when
// the key is unchanged, otherwise fetch once, discard superseded responses,
// and keep stale data on failure.
func loadKeyed[T any](ctx context.Context, s *Service, state *loaderState[T], key, name string, fetch func(context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	if state.loaded && state.key == key {
		data := state.data
		s.mu.Unlock()
		return data, nil
	}
	state.generation++
	gen := state.generation
	s.mu.Unlock()

	data, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if state.generation != gen {
		return state.data, nil
	}
	if err != nil {
		s.logger.Error(s.logger.WithField(ctx, "loader", name), "catalog load failed", err)
		return state.data, fmt.Errorf("loading %s: %w", name, err)
	}

	state.data = data
	state.key = key
	state.loaded = true
	return data, nil
}
