package ingest

import (
	"context"
	"fmt"
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/store"
	"github.com/starford/satcat/pkg/config"
)

// ReferenceFile is the YAML layout of the reference-code file: table name
// to its codes.
//
//	launch_site:
//	  - code: AFETR
//	    description: Air Force Eastern Test Range
type ReferenceFile map[string][]ReferenceEntry

// ReferenceEntry is one code of a reference table.
type ReferenceEntry struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Validate checks table names and codes.
func (f ReferenceFile) Validate() error {
	for table, entries := range f {
		if !slices.Contains(models.ReferenceTables, table) {
			return fmt.Errorf("reference: unknown table %q", table)
		}
		for i := range entries {
			e := &entries[i]
			if err := validation.ValidateStruct(e,
				validation.Field(&e.Code, validation.Required, validation.Length(1, 8)),
			); err != nil {
				return fmt.Errorf("reference: %s[%d]: %w", table, i, err)
			}
		}
	}
	return nil
}

// LoadReferenceCodes reads a reference-code file. Tables come out in name
// order, codes in file order.
func LoadReferenceCodes(path string) ([]models.ReferenceCode, error) {
	var f ReferenceFile
	if err := config.Load(path, &f); err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(f))
	for t := range f {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var out []models.ReferenceCode
	for _, t := range tables {
		for _, e := range f[t] {
			out = append(out, models.ReferenceCode{Table: t, Code: e.Code, Description: e.Description})
		}
	}
	return out, nil
}

// SeedReferenceCodes upserts codes in one transaction.
func (in *Ingester) SeedReferenceCodes(ctx context.Context, codes []models.ReferenceCode) error {
	return in.store.InTx(ctx, func(c store.Catalog) error {
		for _, rc := range codes {
			if err := c.UpsertReferenceCode(ctx, rc); err != nil {
				return err
			}
		}
		return nil
	})
}
