package binary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// InstallRecordFile is the name of the metadata file written into a version
// directory after a successful install.
const InstallRecordFile = ".lsprov-install.json"

// installRecordVersion is the schema version of InstallRecord.
const installRecordVersion = 1

// InstallRecord describes how a version directory was populated. It is
// informational only: the cache check never reads it.
type InstallRecord struct {
	Version     int       `json:"version"`
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	Release     string    `json:"release"`
	Asset       string    `json:"asset"`
	URL         string    `json:"url"`
	SHA256      string    `json:"sha256,omitempty"`
	Verified    bool      `json:"verified"`
	InstalledAt time.Time `json:"installed_at"`
}

func newInstallRecord(tool, version, asset, url string, now time.Time) *InstallRecord {
	return &InstallRecord{
		Version:     installRecordVersion,
		ID:          uuid.New().String(),
		Tool:        tool,
		Release:     version,
		Asset:       asset,
		URL:         url,
		InstalledAt: now.UTC(),
	}
}

// Save writes the record into versionDir using write-then-rename.
func (r *InstallRecord) Save(versionDir string) error {
	finalPath := filepath.Join(versionDir, InstallRecordFile)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal install record: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temporary install record: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename install record: %w", err)
	}

	return nil
}

// ReadInstallRecord loads the install record of a version directory.
// Installations made without a record (or by older releases) return an
// error satisfying errors.Is(err, fs.ErrNotExist).
func ReadInstallRecord(versionDir string) (*InstallRecord, error) {
	data, err := os.ReadFile(filepath.Join(versionDir, InstallRecordFile))
	if err != nil {
		return nil, fmt.Errorf("read install record: %w", err)
	}

	var rec InstallRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal install record: %w", err)
	}

	return &rec, nil
}
