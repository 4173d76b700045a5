package internal

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadArtifact(t *testing.T) {
	content := "date,cost\n2026-08-01,42.50\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dest := filepath.Join(dir, "report.csv")

	written, err := DownloadArtifact(srv.URL, dest)
	if err != nil {
		t.Fatalf("DownloadArtifact failed: %v", err)
	}
	if written != int64(len(content)) {
		t.Errorf("Expected %d bytes written, got %d", len(content), written)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != content {
		t.Errorf("Downloaded content mismatch.\nGot: %q\nWant: %q", data, content)
	}

	assertNoTempFiles(t, dir)
}

func TestDownloadArtifactExpiredURL(t *testing.T) {
	// S3 answers 403 once a pre-signed URL expires
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Request has expired", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dest := filepath.Join(dir, "report.csv")

	_, err := DownloadArtifact(srv.URL, dest)
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("Expected DownloadError, got %v", err)
	}

	// No partial file, no leftover temp file
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("Destination file should not exist after failed download")
	}
	assertNoTempFiles(t, dir)
}

func TestDownloadArtifactConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	dir := t.TempDir()
	_, err := DownloadArtifact(srv.URL, filepath.Join(dir, "report.csv"))
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("Expected DownloadError, got %v", err)
	}
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".flexctl-download-") {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
}
