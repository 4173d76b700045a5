package internal

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadArtifact fetches a pre-signed URL into dest and returns the number
// of bytes written. The body is written to a temp file in the destination
// directory and renamed into place, so dest is never left half-written when
// the transfer fails (expired URLs return 403 from S3).
func DownloadArtifact(url, dest string) (int64, error) {
	client := &http.Client{Timeout: 60 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return 0, &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &DownloadError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".flexctl-download-*")
	if err != nil {
		return 0, &DownloadError{URL: url, Err: err}
	}

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, &DownloadError{URL: url, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, &DownloadError{URL: url, Err: err}
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return 0, &DownloadError{URL: url, Err: err}
	}
	return written, nil
}
