// Package testutil provides shared test helpers for setting up databases and
// feed inboxes.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/satcat/internal/storage"
	"github.com/starford/satcat/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "satcat-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInbox creates a temporary inbox directory with a storage.FS.
func TestInbox(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fs.Root(), fs
}

// Eventually polls fn every tick until it returns true or timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

// Clock is a manually advanced time source.
type Clock struct {
	T time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Feed fixtures shared by package tests.
const (
	SatcatISS  = "1998-067A    25544  *+ ISS (ZARYA)               ISS    1998-11-20  TYMSC                 92.7   51.6     421     408  399.0524  EA"
	SatcatGOES = "2006-018A    29155  *B GOES 13                   US     2006-05-24  AFETR               1436.1    0.0   35797   35776       N/A  GEO"

	TleISS = "ISS (ZARYA)\n" +
		"1 25544U 98067A   17236.53358279  .00001862  00000-0  35301-4 0  9994\n" +
		"2 25544  51.6396  57.6070 0005086 172.6034 285.4459 15.54193317 72385\n"
	TleGOES = "GOES 13\n" +
		"1 29155U 06018A   17236.28392374 -.00000277  00000-0  00000+0 0  9990\n" +
		"2 29155   0.0320 231.9245 0003315 245.6473 242.4487  1.00264274 41246\n"
	// TleUnknown references a satellite absent from the SATCAT fixtures.
	TleUnknown = "VANGUARD 1\n" +
		"1 00005U 58002B   17236.16573856 -.00000021  00000-0 -23849-4 0  9995\n" +
		"2 00005  34.2473 156.0938 1846849  74.4535 304.6051 10.84815223 57218\n"
)
