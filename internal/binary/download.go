package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

// DefaultUserAgent is the User-Agent header sent with asset downloads.
const DefaultUserAgent = "lsprov/1.0"

// maxRedirects bounds the redirect chain of a release asset URL; GitHub
// redirects once to its object storage.
const maxRedirects = 10

// Downloader fetches release assets over HTTP. Each call makes exactly one
// attempt.
type Downloader struct {
	client    *http.Client
	userAgent string
	logger    logr.Logger
}

// NewDownloader creates a downloader. A nil client gets a default client that
// follows at most maxRedirects redirects.
func NewDownloader(client *http.Client, logger logr.Logger) *Downloader {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
		logger:    logger,
	}
}

// DownloadToFile streams url into destPath. The body is written to a
// temporary sibling first and renamed into place, so destPath either holds
// the complete body or does not exist.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/octet-stream")

	d.logger.V(1).Info("downloading", "url", url, "dest", destPath)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	// Write to temp file first, then rename
	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	cleanupNeeded = false

	d.logger.V(1).Info("download complete", "dest", destPath, "bytes", n)
	return nil
}
