package orbit

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
)

// Select returns the record with the greatest Added that is not after asOf.
// Epoch fields are ignored: they are self-reported by the feed, ingestion
// time is not. Ties on Added go to the later element of history.
func Select(history []models.TleRecord, asOf time.Time) (models.TleRecord, bool) {
	var best models.TleRecord
	found := false
	for _, t := range history {
		if t.Added.After(asOf) {
			continue
		}
		if !found || !t.Added.Before(best.Added) {
			best, found = t, true
		}
	}
	return best, found
}

// HistoryLister is the storage read needed by Resolver.
type HistoryLister interface {
	ListTleHistory(ctx context.Context, norad string) ([]models.TleRecord, error)
}

// Resolver finds the TLE that was current for an object at a given time.
type Resolver struct {
	store HistoryLister
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store HistoryLister) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the most recently ingested TLE for norad that was known
// as of asOf. It fails with apperr.ErrNotFound when there is none.
func (r *Resolver) Resolve(ctx context.Context, norad string, asOf time.Time) (models.TleRecord, error) {
	history, err := r.store.ListTleHistory(ctx, norad)
	if err != nil {
		return models.TleRecord{}, err
	}
	tle, ok := Select(history, asOf)
	if !ok {
		return models.TleRecord{}, fmt.Errorf("%w: no tle for %s as of %s",
			apperr.ErrNotFound, norad, asOf.UTC().Format(time.RFC3339))
	}
	return tle, nil
}
