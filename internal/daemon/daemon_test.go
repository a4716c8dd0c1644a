package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"tidyfin/internal/catalog"
	"tidyfin/internal/config"
	"tidyfin/internal/daemon"
	"tidyfin/internal/logging"
	"tidyfin/internal/pipeline"
	"tidyfin/internal/resolve"
	"tidyfin/internal/testsupport"
)

func startDaemon(t *testing.T) (*daemon.Daemon, *catalog.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := resolve.New(nil, store, logging.NewNop())
	p := pipeline.New(cfg, store, resolver, logging.NewNop())

	d, err := daemon.New(cfg, store, p, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)
	return d, store, cfg
}

func apiURL(d *daemon.Daemon, path string) string {
	return "http://" + d.APIAddress() + path
}

func TestDaemonSecondInstanceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	resolver := resolve.New(nil, store, logging.NewNop())
	p := pipeline.New(cfg, store, resolver, logging.NewNop())

	first, err := daemon.New(cfg, store, p, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := daemon.New(cfg, store, p, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}
}

func TestStatusEndpoint(t *testing.T) {
	d, store, _ := startDaemon(t)
	testsupport.NewItem(t, store, "a.mkv", "/src/a.mkv")

	resp, err := http.Get(apiURL(d, "/api/status"))
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}

	var payload struct {
		Running bool           `json:"running"`
		Items   map[string]int `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Running {
		t.Fatal("expected running daemon")
	}
	if payload.Items["pending"] != 1 {
		t.Fatalf("expected one pending item, got %+v", payload.Items)
	}
}

func TestScanEndpointRunsJob(t *testing.T) {
	d, store, cfg := startDaemon(t)
	testsupport.WriteFile(t, filepath.Join(testsupport.SourceDir(cfg), "Inception.2010.mkv"), 50)

	resp, err := http.Post(apiURL(d, "/api/scan"), "application/json", nil)
	if err != nil {
		t.Fatalf("POST scan: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}

	var started struct {
		JobID   int64 `json:"job_id"`
		Started bool  `json:"started"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !started.Started {
		t.Fatal("expected a new job")
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), started.JobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if job != nil && job.Status.Terminal() {
			if job.Status != catalog.JobCompleted || job.NewItems != 1 {
				t.Fatalf("unexpected job: %+v", job)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("scan job did not finish")
}

func TestJobEndpointNotFound(t *testing.T) {
	d, _, _ := startDaemon(t)

	resp, err := http.Get(apiURL(d, "/api/jobs/9999"))
	if err != nil {
		t.Fatalf("GET job: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOrganizeEndpointDryRun(t *testing.T) {
	d, store, cfg := startDaemon(t)
	source := filepath.Join(testsupport.SourceDir(cfg), "movie.mkv")
	testsupport.WriteFile(t, source, 50)
	item := testsupport.NewItem(t, store, "movie.mkv", source)
	item.DestinationPath = filepath.Join(cfg.MoviesRoot(), "Unsorted", "movie.mkv")
	if err := store.UpdateItem(context.Background(), item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	body, _ := json.Marshal(map[string]any{"ids": []int64{item.ID}, "dry_run": true})
	resp, err := http.Post(apiURL(d, "/api/organize"), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST organize: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}
}

func TestOrganizeEndpointEmptyBodyTargetsPending(t *testing.T) {
	d, store, cfg := startDaemon(t)
	source := filepath.Join(testsupport.SourceDir(cfg), "movie.mkv")
	testsupport.WriteFile(t, source, 50)
	item := testsupport.NewItem(t, store, "movie.mkv", source)
	item.DestinationPath = filepath.Join(cfg.MoviesRoot(), "Unsorted", "movie.mkv")
	if err := store.UpdateItem(context.Background(), item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	resp, err := http.Post(apiURL(d, "/api/organize"), "application/json", nil)
	if err != nil {
		t.Fatalf("POST organize: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected status code %d", resp.StatusCode)
	}

	var started struct {
		JobID int64 `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), started.JobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if job != nil && job.Status.Terminal() {
			if job.TotalFiles != 1 {
				t.Fatalf("expected the pending item targeted, got %+v", job)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("organize job did not finish")
}

func TestDuplicatesEndpointValidatesThreshold(t *testing.T) {
	d, _, _ := startDaemon(t)

	resp, err := http.Get(apiURL(d, "/api/duplicates?threshold=500"))
	if err != nil {
		t.Fatalf("GET duplicates: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestItemsEndpointFiltersByStatus(t *testing.T) {
	d, store, _ := startDaemon(t)
	testsupport.NewItem(t, store, "a.mkv", "/src/a.mkv")

	resp, err := http.Get(apiURL(d, "/api/items?status=organized"))
	if err != nil {
		t.Fatalf("GET items: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 0 {
		t.Fatalf("expected no organized items, got %d", len(payload.Items))
	}

	resp2, err := http.Get(apiURL(d, fmt.Sprintf("/api/items?status=%s", catalog.ItemPending)))
	if err != nil {
		t.Fatalf("GET items: %v", err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected one pending item, got %d", len(payload.Items))
	}
}
