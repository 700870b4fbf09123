package binary

import "fmt"

// ReleaseResolutionError is returned when the release host is unreachable or
// has no qualifying release.
type ReleaseResolutionError struct {
	Repository string
	Err        error
}

func (e *ReleaseResolutionError) Error() string {
	return fmt.Sprintf("resolve latest release of %s: %v", e.Repository, e.Err)
}

func (e *ReleaseResolutionError) Unwrap() error {
	return e.Err
}

// AssetNotFoundError is returned when a release has no asset with the name
// computed for the requested platform.
type AssetNotFoundError struct {
	Asset   string
	Version string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no asset found matching %q in release %s", e.Asset, e.Version)
}

// DownloadError is returned when an asset cannot be downloaded.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download file %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ExtractionError is returned when a downloaded archive cannot be unpacked.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when a signature check of an archive fails.
type VerificationError struct {
	Asset string
	Err   error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("failed to verify %s: %v", e.Asset, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// DirectoryListError reports that a working directory could not be listed
// during cleanup. It is a warning, not a resolution failure.
type DirectoryListError struct {
	Dir string
	Err error
}

func (e *DirectoryListError) Error() string {
	return fmt.Sprintf("failed to list working directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryListError) Unwrap() error {
	return e.Err
}

// DirectoryEntryError reports that a stale entry could not be removed during
// cleanup. It is a warning, not a resolution failure.
type DirectoryEntryError struct {
	Path string
	Err  error
}

func (e *DirectoryEntryError) Error() string {
	return fmt.Sprintf("failed to remove directory entry %s: %v", e.Path, e.Err)
}

func (e *DirectoryEntryError) Unwrap() error {
	return e.Err
}
