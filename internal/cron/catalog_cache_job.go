package cron

import (
	"context"
	"fmt"

	"github.com/MOR6969/vape-bill/pkg/logger"
)

type catalogCacheWriter interface {
	PersistCache(ctx context.Context) error
}

// CatalogCacheJobParams configure the catalog cache refresh.
type CatalogCacheJobParams struct {
	Logger  *logger.Logger
	Catalog catalogCacheWriter
}

// NewCatalogCacheJob rewrites the cached catalog snapshot so its TTL never lapses
// while an instance is serving edits.
func NewCatalogCacheJob(params CatalogCacheJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	return &catalogCacheJob{logg: params.Logger, catalog: params.Catalog}, nil
}

type catalogCacheJob struct {
	logg    *logger.Logger
	catalog catalogCacheWriter
}

func (j *catalogCacheJob) Name() string { return "catalog-cache-refresh" }

func (j *catalogCacheJob) Run(ctx context.Context) error {
	if err := j.catalog.PersistCache(ctx); err != nil {
		return fmt.Errorf("catalog cache refresh: %w", err)
	}
	j.logg.Info(ctx, "catalog cache refreshed")
	return nil
}
