package binary

import (
	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
)

// DefaultTool is the language server this module was built around.
const DefaultTool = "sqruff"

// DefaultRepository is the upstream project publishing DefaultTool releases.
const DefaultRepository = "quarylabs/sqruff"

// ToolRequest names the executable to resolve and the platform it must run on.
type ToolRequest struct {
	Name       string
	Repository string // "owner/repo" on the release host; DefaultRepository if empty
	OS         platform.OS
	Arch       platform.Arch
}

// InstallationStatus is an advisory progress signal for UI feedback.
type InstallationStatus int

const (
	// StatusIdle means no provisioning is in progress.
	StatusIdle InstallationStatus = iota
	// StatusCheckingForUpdate means the release host is being queried.
	StatusCheckingForUpdate
	// StatusDownloading means a release asset is being downloaded.
	StatusDownloading
)

// String returns the string representation of the status.
func (s InstallationStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCheckingForUpdate:
		return "checking-for-update"
	case StatusDownloading:
		return "downloading"
	default:
		return "unknown"
	}
}

// StatusReporter receives installation status changes.
type StatusReporter interface {
	Report(status InstallationStatus)
}

// StatusFunc adapts a function to StatusReporter.
type StatusFunc func(status InstallationStatus)

// Report calls f(status).
func (f StatusFunc) Report(status InstallationStatus) {
	f(status)
}

// Locator finds executables that are already installed.
type Locator interface {
	// Which returns the path of the executable called name, if any.
	Which(name string) (string, bool)
}

// Environment carries the per-call collaborators of Resolve. Both fields are
// optional.
type Environment struct {
	Locator Locator
	Status  StatusReporter
}

// Source tells where a resolved executable came from.
type Source string

const (
	// SourceLocal is an executable found on the search path.
	SourceLocal Source = "local"
	// SourceCache is a previously downloaded executable.
	SourceCache Source = "cache"
	// SourceDownload is an executable installed by this call.
	SourceDownload Source = "download"
)

// CachedInstallation is an on-disk version directory and the executable in it.
type CachedInstallation struct {
	Version    string
	VersionDir string
	BinaryPath string
}

// Result is the outcome of a successful Resolve.
type Result struct {
	Path    string
	Version string // empty for SourceLocal
	Asset   string // empty for SourceLocal
	Source  Source
	// Warnings holds non-fatal cleanup errors (*DirectoryListError,
	// *DirectoryEntryError).
	Warnings []error
}
