package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/satcat/internal/apperr"
	"github.com/starford/satcat/internal/ingest"
	"github.com/starford/satcat/internal/models"
	"github.com/starford/satcat/internal/storage"
	"github.com/starford/satcat/internal/testutil"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func TestFetcherSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(testutil.TleISS))
	}))
	defer server.Close()

	data, err := NewFetcher(0, testLogger).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != testutil.TleISS {
		t.Errorf("body mismatch: got %d bytes, want %d", len(data), len(testutil.TleISS))
	}
}

func TestFetcherBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("A", 4096)))
	}))
	defer server.Close()

	_, err := NewFetcher(1024, testLogger).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewFetcher(0, testLogger).Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}

func TestSelect(t *testing.T) {
	sources := []models.DataSource{
		{Name: "satcat", Type: models.FeedSatcat},
		{Name: "stations", Type: models.FeedTLE},
	}
	all, err := Select(sources, []string{"all"})
	if err != nil || len(all) != 2 {
		t.Fatalf("all: %v %v", all, err)
	}
	one, err := Select(sources, []string{"stations"})
	if err != nil || len(one) != 1 || one[0].Name != "stations" {
		t.Fatalf("stations: %v %v", one, err)
	}
	if _, err := Select(sources, []string{"missing"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestSyncAll_CatalogFirstAndArchived(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/satcat.txt", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, testutil.SatcatISS+"\n")
	})
	mux.HandleFunc("/stations.txt", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, testutil.TleISS)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	db := testutil.TestDB(t)
	_, inbox := testutil.TestInbox(t)
	in := ingest.New(db, ingest.WithLogger(testLogger))
	s := NewSyncer(NewFetcher(0, testLogger), inbox, in, testLogger)

	// TLE source listed first; the syncer still ingests the catalog first.
	reports, err := s.SyncAll(context.Background(), []models.DataSource{
		{Name: "stations", Type: models.FeedTLE, URL: server.URL + "/stations.txt"},
		{Name: "satcat", Type: models.FeedSatcat, URL: server.URL + "/satcat.txt"},
	})
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	if len(reports) != 2 || reports[0].Kind != models.FeedSatcat || reports[1].Inserted != 1 {
		t.Errorf("reports = %+v", reports)
	}

	archived, err := inbox.List(storage.DirArchive)
	if err != nil {
		t.Fatal(err)
	}
	if len(archived) != 2 {
		t.Errorf("archived payloads = %d, want 2", len(archived))
	}
}

func TestSync_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	db := testutil.TestDB(t)
	s := NewSyncer(NewFetcher(0, testLogger), nil, ingest.New(db, ingest.WithLogger(testLogger)), testLogger)
	if _, err := s.Sync(context.Background(), models.DataSource{Name: "x", Type: models.FeedTLE, URL: server.URL}); err == nil {
		t.Fatal("expected error")
	}
}
