package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "satcat-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func issEntry(added time.Time) *models.CatalogRecord {
	return &models.CatalogRecord{
		NoradCatalogNumber:      "25544",
		InternationalDesignator: "1998-067A",
		Names:                   strPtr("ISS (ZARYA)"),
		HasPayload:              true,
		OperationalStatus:       strPtr("+"),
		Added:                   added,
		Updated:                 added,
	}
}

func issTle(added time.Time, line0 string) *models.TleRecord {
	return &models.TleRecord{
		Line0:           line0,
		Line1:           "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927",
		Line2:           "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537",
		SatelliteNumber: "25544",
		EpochYear:       "08",
		EpochDay:        264.51782528,
		MeanMotion:      15.72125391,
		Added:           added,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"reference_codes", "catalog_entries", "tles"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestOperationalStatusSeeded(t *testing.T) {
	db := testDB(t)
	codes, err := db.ListReferenceCodes(context.Background(), models.TableOperationalStatus)
	if err != nil {
		t.Fatalf("ListReferenceCodes: %v", err)
	}
	if len(codes) != 8 {
		t.Fatalf("got %d operational status codes, want 8", len(codes))
	}
	rc, err := db.FindReferenceCode(context.Background(), models.TableOperationalStatus, "+")
	if err != nil {
		t.Fatalf("FindReferenceCode: %v", err)
	}
	if rc.Description != "Operational" {
		t.Errorf("description = %q", rc.Description)
	}
}

func TestReferenceCodeNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.FindReferenceCode(context.Background(), models.TableLaunchSite, "AFETR")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := db.UpsertReferenceCode(context.Background(), models.ReferenceCode{
		Table: models.TableLaunchSite, Code: "AFETR", Description: "Air Force Eastern Test Range",
	}); err != nil {
		t.Fatalf("UpsertReferenceCode: %v", err)
	}
	if _, err := db.FindReferenceCode(context.Background(), models.TableLaunchSite, "AFETR"); err != nil {
		t.Fatalf("FindReferenceCode after upsert: %v", err)
	}
}

func TestUpsertCatalogEntryKeepsAdded(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	first := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := db.UpsertCatalogEntry(ctx, issEntry(first)); err != nil {
		t.Fatalf("UpsertCatalogEntry: %v", err)
	}

	later := first.Add(48 * time.Hour)
	rec := issEntry(later)
	rec.Names = strPtr("ISS")
	apogee := int64(421)
	rec.Apogee = &apogee
	if err := db.UpsertCatalogEntry(ctx, rec); err != nil {
		t.Fatalf("UpsertCatalogEntry again: %v", err)
	}

	got, err := db.FindCatalogEntry(ctx, "25544")
	if err != nil {
		t.Fatalf("FindCatalogEntry: %v", err)
	}
	if *got.Names != "ISS" {
		t.Errorf("names = %q", *got.Names)
	}
	if got.Apogee == nil || *got.Apogee != 421 {
		t.Errorf("apogee = %v", got.Apogee)
	}
	if got.Perigee != nil {
		t.Errorf("perigee = %v, want nil", *got.Perigee)
	}
	if !got.Added.Equal(first) {
		t.Errorf("added = %v, want %v", got.Added, first)
	}
	if !got.Updated.Equal(later) {
		t.Errorf("updated = %v, want %v", got.Updated, later)
	}
}

func TestFindCatalogEntryNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.FindCatalogEntry(context.Background(), "99999")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListCatalogPrefix(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	_ = db.UpsertCatalogEntry(ctx, issEntry(now))
	_ = db.UpsertCatalogEntry(ctx, &models.CatalogRecord{
		NoradCatalogNumber: "00005", InternationalDesignator: "1958-002B",
		Names: strPtr("VANGUARD 1"), Added: now, Updated: now,
	})

	all, total, err := db.ListCatalog(ctx, models.CatalogFilter{})
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("total=%d len=%d, want 2", total, len(all))
	}
	if all[0].NoradCatalogNumber != "00005" {
		t.Errorf("first = %s, want 00005", all[0].NoradCatalogNumber)
	}

	hits, total, err := db.ListCatalog(ctx, models.CatalogFilter{Query: "VANG"})
	if err != nil {
		t.Fatalf("ListCatalog query: %v", err)
	}
	if total != 1 || hits[0].InternationalDesignator != "1958-002B" {
		t.Errorf("query hits = %+v", hits)
	}
}

func TestInsertTleIfAbsent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	_ = db.UpsertCatalogEntry(ctx, issEntry(now))

	tle := issTle(now, "ISS (ZARYA)")
	ok, err := db.InsertTleIfAbsent(ctx, tle)
	if err != nil || !ok {
		t.Fatalf("first insert: ok=%v err=%v", ok, err)
	}
	if tle.ID == 0 {
		t.Fatal("id not set")
	}

	dup := issTle(now.Add(time.Second), "ISS (ZARYA)")
	ok, err = db.InsertTleIfAbsent(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if ok {
		t.Fatal("duplicate triple stored twice")
	}

	// Same lines 1 and 2 under another name is a distinct record.
	renamed := issTle(now.Add(2*time.Second), "ISS")
	if ok, _ := db.InsertTleIfAbsent(ctx, renamed); !ok {
		t.Fatal("renamed triple not stored")
	}

	hist, err := db.ListTleHistory(ctx, "25544")
	if err != nil {
		t.Fatalf("ListTleHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history len = %d, want 2", len(hist))
	}
	if !hist[0].Added.Equal(now) {
		t.Errorf("added = %v, want %v", hist[0].Added, now)
	}
	if hist[1].Line0 != "ISS" {
		t.Errorf("history not ordered by added: %+v", hist)
	}

	got, err := db.GetTle(ctx, tle.ID)
	if err != nil {
		t.Fatalf("GetTle: %v", err)
	}
	if got.Line1 != tle.Line1 || got.MeanMotion != tle.MeanMotion {
		t.Errorf("GetTle = %+v", got)
	}
}

func TestGetTleNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetTle(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInTxRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := db.InTx(ctx, func(c Catalog) error {
		if err := c.UpsertCatalogEntry(ctx, issEntry(time.Now())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := db.FindCatalogEntry(ctx, "25544"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("entry survived rollback: %v", err)
	}
}

func TestUpsertCatalogEntryDesignatorConflict(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	_ = db.UpsertCatalogEntry(ctx, issEntry(now))

	clash := issEntry(now)
	clash.NoradCatalogNumber = "99999"
	if err := db.UpsertCatalogEntry(ctx, clash); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
