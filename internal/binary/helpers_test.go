package binary

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/release"
)

// tarGzBytes builds a gzip tarball holding files (name -> content).
func tarGzBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range sortedKeys(files) {
		content := files[name]
		header := &tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := tarWriter.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// zipBytes builds a zip archive holding files (name -> content).
func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)
	for _, name := range sortedKeys(files) {
		w, err := zipWriter.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", name, err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// writeTestFile writes data to name inside a fresh temp directory.
func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fakeHost is a release.Host returning a canned release or error.
type fakeHost struct {
	mu      sync.Mutex
	release *release.Release
	err     error
	calls   int
	repos   []string
	opts    []release.Options
}

func (h *fakeHost) LatestRelease(ctx context.Context, repository string, opts release.Options) (*release.Release, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.repos = append(h.repos, repository)
	h.opts = append(h.opts, opts)
	if h.err != nil {
		return nil, h.err
	}
	return h.release, nil
}

// mapLocator is a Locator backed by a map.
type mapLocator map[string]string

func (l mapLocator) Which(name string) (string, bool) {
	path, ok := l[name]
	return path, ok
}

// statusRecorder collects reported statuses.
type statusRecorder struct {
	mu       sync.Mutex
	statuses []InstallationStatus
}

func (r *statusRecorder) Report(status InstallationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *statusRecorder) got() []InstallationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]InstallationStatus(nil), r.statuses...)
}
