package cron

import (
	"context"
	"fmt"

	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

type catalogInvalidator interface {
	Invalidate()
}

type CatalogRefreshJobParams struct {
	Logger  *logger.Logger
	Catalog catalogInvalidator
}

// NewCatalogRefreshJob drops the catalog caches so the next request pulls
// fresh prices from the core API.
func NewCatalogRefreshJob(params CatalogRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &catalogRefreshJob{
		logg:    params.Logger,
		catalog: params.Catalog,
	}, nil
}

type catalogRefreshJob struct {
	logg    *logger.Logger
	catalog catalogInvalidator
}

func (j *catalogRefreshJob) Name() string { return "catalog-refresh" }

func (j *catalogRefreshJob) Run(ctx context.Context) error {
	j.catalog.Invalidate()
	j.logg.Info(ctx, "catalog caches invalidated")
	return nil
}
