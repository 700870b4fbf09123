// Package release resolves the latest release of an upstream project from a
// release host.
package release

import (
	"context"
	"errors"
)

// ErrNoRelease is returned when the host has no release matching the options.
var ErrNoRelease = errors.New("no matching release")

// Options filters the releases considered by LatestRelease.
type Options struct {
	// RequireAssets skips releases without any attached assets.
	RequireAssets bool
	// PreRelease selects pre-releases instead of stable releases.
	PreRelease bool
}

// Asset is a downloadable artifact attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
}

// Release is a tagged publication of an upstream project.
type Release struct {
	Version string
	Assets  []Asset
}

// FindAsset returns the asset whose name equals name exactly.
func (r *Release) FindAsset(name string) (Asset, bool) {
	for _, asset := range r.Assets {
		if asset.Name == name {
			return asset, true
		}
	}
	return Asset{}, false
}

// Host defines the interface for release hosts.
type Host interface {
	// LatestRelease returns the newest release of repository ("owner/repo")
	// matching opts.
	LatestRelease(ctx context.Context, repository string, opts Options) (*Release, error)
}
