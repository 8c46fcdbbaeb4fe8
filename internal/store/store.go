package store

import (
	"context"
	"database/sql"

	"github.com/starford/satcat/internal/models"
)

// Catalog defines the catalog and TLE history operations. Consumers should
// depend on this interface rather than the concrete *DB type.
type Catalog interface {
	FindCatalogEntry(ctx context.Context, norad string) (*models.CatalogRecord, error)
	UpsertCatalogEntry(ctx context.Context, rec *models.CatalogRecord) error
	ListCatalog(ctx context.Context, f models.CatalogFilter) ([]models.CatalogRecord, int, error)

	FindReferenceCode(ctx context.Context, table, code string) (*models.ReferenceCode, error)
	UpsertReferenceCode(ctx context.Context, rc models.ReferenceCode) error
	ListReferenceCodes(ctx context.Context, table string) ([]models.ReferenceCode, error)

	InsertTleIfAbsent(ctx context.Context, tle *models.TleRecord) (bool, error)
	ListTleHistory(ctx context.Context, norad string) ([]models.TleRecord, error)
	GetTle(ctx context.Context, id int64) (*models.TleRecord, error)
}

// Store is a Catalog that can group writes into one transaction.
type Store interface {
	Catalog
	InTx(ctx context.Context, fn func(Catalog) error) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo implements Catalog on top of a connection or a transaction.
type Repo struct {
	q queryer
}
