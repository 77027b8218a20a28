package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

const (
	snapshotMaxAgeDays = 7
	snapshotBatchSize  = 50
)

// snapshotRepo is the wishlist persistence slice the job needs.
type snapshotRepo interface {
	ListSnapshotsBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.WishlistItem, error)
	UpdateSnapshot(ctx context.Context, id uuid.UUID, priceUSD, refPrice decimal.Decimal) error
}

type snapshotResolver interface {
	GetServiceByID(ctx context.Context, serviceID uuid.UUID, currency enums.Currency) (*vitalfit.Service, error)
}

type WishlistSnapshotJobParams struct {
	Logger    *logger.Logger
	Repo      snapshotRepo
	Resolver  snapshotResolver
	MaxAge    time.Duration
	BatchSize int
}

// NewWishlistSnapshotJob refreshes the display prices stored with wishlist
// rows so saved services do not drift too far from the live catalog.
func NewWishlistSnapshotJob(params WishlistSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist repo required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("service resolver required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = snapshotMaxAgeDays * 24 * time.Hour
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = snapshotBatchSize
	}
	return &wishlistSnapshotJob{
		logg:      params.Logger,
		repo:      params.Repo,
		resolver:  params.Resolver,
		maxAge:    maxAge,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

type wishlistSnapshotJob struct {
	logg      *logger.Logger
	repo      snapshotRepo
	resolver  snapshotResolver
	maxAge    time.Duration
	batchSize int
	now       func() time.Time
}

func (j *wishlistSnapshotJob) Name() string { return "wishlist-snapshot-refresh" }

func (j *wishlistSnapshotJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	items, err := j.repo.ListSnapshotsBefore(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("list stale snapshots: %w", err)
	}

	var errs error
	refreshed := 0
	for _, item := range items {
		if err := j.refresh(ctx, item); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("service %s: %w", item.ServiceID, err))
			continue
		}
		refreshed++
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"stale":     len(items),
		"refreshed": refreshed,
	})
	j.logg.Info(ctx, "wishlist snapshots refreshed")
	return errs
}

func (j *wishlistSnapshotJob) refresh(ctx context.Context, item models.WishlistItem) error {
	svc, err := j.resolver.GetServiceByID(ctx, item.ServiceID, item.RefCurrency)
	if err != nil {
		return err
	}

	refPrice := svc.PriceUSD
	for _, ref := range svc.RefPrices {
		if ref.Currency == item.RefCurrency {
			refPrice = ref.Amount
			break
		}
	}
	return j.repo.UpdateSnapshot(ctx, item.ID, svc.PriceUSD, refPrice)
}
