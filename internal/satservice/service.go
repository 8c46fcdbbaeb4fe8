// Package satservice is the query and import facade shared by the HTTP API,
// the MCP server and the CLI.
package satservice

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/ingest"
	"github.com/starford/satcat/internal/metrics"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/orbit"
	"github.com/starford/satcat/internal/store"
)

// Origin reported for payloads posted to the service.
const OriginUpload = "upload"

// PositionDetail is a position report together with the catalog entry it
// belongs to.
type PositionDetail struct {
	models.PositionReport
	Object models.CatalogRecord
}

// Service coordinates the store, the resolver, the propagator and ingestion.
type Service struct {
	db         store.Store
	resolver   *orbit.Resolver
	propagator orbit.Propagator
	ingester   *ingest.Ingester
}

// NewService creates a new service.
func NewService(db store.Store, propagator orbit.Propagator, in *ingest.Ingester) *Service {
	return &Service{
		db:         db,
		resolver:   orbit.NewResolver(db),
		propagator: propagator,
		ingester:   in,
	}
}

// GetCatalogEntry returns one catalog entry.
func (s *Service) GetCatalogEntry(ctx context.Context, norad string) (*models.CatalogRecord, error) {
	return s.db.FindCatalogEntry(ctx, norad)
}

// ListCatalog returns a page of catalog entries and the total match count.
func (s *Service) ListCatalog(ctx context.Context, f models.CatalogFilter) ([]models.CatalogRecord, int, error) {
	items, total, err := s.db.ListCatalog(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.CatalogRecord{}
	}
	return items, total, nil
}

// ListReferenceCodes returns the codes of a reference table.
func (s *Service) ListReferenceCodes(ctx context.Context, table string) ([]models.ReferenceCode, error) {
	if !slices.Contains(models.ReferenceTables, table) {
		return nil, fmt.Errorf("%w: reference table %q", apperr.ErrNotFound, table)
	}
	return s.db.ListReferenceCodes(ctx, table)
}

// GetTle returns one stored element set.
func (s *Service) GetTle(ctx context.Context, id int64) (*models.TleRecord, error) {
	return s.db.GetTle(ctx, id)
}

// TleAt returns the element set that was current for norad at time at.
func (s *Service) TleAt(ctx context.Context, norad string, at time.Time) (*models.TleRecord, error) {
	if _, err := s.db.FindCatalogEntry(ctx, norad); err != nil {
		return nil, err
	}
	tle, err := s.resolver.Resolve(ctx, norad, at)
	if err != nil {
		return nil, err
	}
	return &tle, nil
}

// GetPositionAt resolves the element set valid at time at and propagates it.
func (s *Service) GetPositionAt(ctx context.Context, norad string, at time.Time) (*PositionDetail, error) {
	entry, err := s.db.FindCatalogEntry(ctx, norad)
	if err != nil {
		return nil, err
	}
	tle, err := s.resolver.Resolve(ctx, norad, at)
	if err != nil {
		return nil, err
	}
	pos, err := orbit.ComputePosition(s.propagator, tle, at)
	metrics.ObservePosition(err)
	if err != nil {
		return nil, err
	}
	return &PositionDetail{
		PositionReport: models.PositionReport{Position: pos, At: at.UTC(), TleUsed: tle},
		Object:         *entry,
	}, nil
}

// Import ingests a posted feed payload.
func (s *Service) Import(ctx context.Context, kind string, data []byte) (models.IngestReport, error) {
	return s.ingester.IngestFeed(ctx, kind, OriginUpload, data)
}
