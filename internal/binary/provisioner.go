package binary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/release"
)

// Provisioner resolves tool executables, downloading them into a per-tool
// working directory under its root when needed.
type Provisioner struct {
	rootDir    string
	releases   release.Host
	downloader *Downloader
	extractor  *Extractor
	verifier   *Verifier
	clock      Clock
	logger     logr.Logger
}

// Config holds configuration for the provisioner
type Config struct {
	// RootDir holds one working directory per tool.
	RootDir string
	// Releases looks up the latest release of a repository.
	Releases release.Host
	// HTTPClient is used for asset downloads; nil means a default client.
	HTTPClient *http.Client
	// KeyringPath enables detached-signature verification of archives
	// against the OpenPGP keys in this file. Empty disables verification.
	KeyringPath string
	// Clock stamps install records; nil means RealClock.
	Clock Clock
	Logger logr.Logger
}

// NewProvisioner creates a provisioner
func NewProvisioner(config Config) (*Provisioner, error) {
	if config.RootDir == "" {
		return nil, fmt.Errorf("RootDir is required")
	}
	if config.Releases == nil {
		return nil, fmt.Errorf("Releases is required")
	}

	logger := config.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	clock := config.Clock
	if clock == nil {
		clock = RealClock{}
	}

	p := &Provisioner{
		rootDir:    config.RootDir,
		releases:   config.Releases,
		downloader: NewDownloader(config.HTTPClient, logger),
		extractor:  NewExtractor(),
		clock:      clock,
		logger:     logger,
	}
	if config.KeyringPath != "" {
		p.verifier = NewVerifier(config.KeyringPath)
	}

	return p, nil
}

// WorkDir returns the working directory of a tool.
func (p *Provisioner) WorkDir(tool string) string {
	return filepath.Join(p.rootDir, tool)
}

// Resolve returns the path of an executable for req.
//
// A tool found by env.Locator is returned without contacting the release
// host. Otherwise the latest stable release is resolved and its asset for
// req's platform is installed unless {tool}-{version}/{tool} already exists
// ({tool}.exe on Windows).
// After a fresh install every other entry of the tool's working directory is
// removed; failures there are reported in Result.Warnings.
func (p *Provisioner) Resolve(ctx context.Context, req ToolRequest, env Environment) (*Result, error) {
	if err := ValidateToolName(req.Name); err != nil {
		return nil, fmt.Errorf("invalid tool: %w", err)
	}
	repository := req.Repository
	if repository == "" {
		repository = DefaultRepository
	}
	log := p.logger.WithValues("tool", req.Name)

	if env.Locator != nil {
		if path, ok := env.Locator.Which(req.Name); ok {
			log.V(1).Info("using executable from search path", "path", path)
			return &Result{Path: path, Source: SourceLocal}, nil
		}
	}

	report(env.Status, StatusCheckingForUpdate)

	rel, err := p.releases.LatestRelease(ctx, repository, release.Options{
		RequireAssets: true,
		PreRelease:    false,
	})
	if err != nil {
		return nil, &ReleaseResolutionError{Repository: repository, Err: err}
	}
	if err := validateVersion(rel.Version); err != nil {
		return nil, &ReleaseResolutionError{Repository: repository, Err: err}
	}

	assetName, err := AssetName(req.Name, req.OS, req.Arch)
	if err != nil {
		return nil, fmt.Errorf("compute asset name: %w", err)
	}

	asset, ok := rel.FindAsset(assetName)
	if !ok {
		return nil, &AssetNotFoundError{Asset: assetName, Version: rel.Version}
	}

	workDir := p.WorkDir(req.Name)
	versionName := VersionDirName(req.Name, rel.Version)
	versionDir := filepath.Join(workDir, versionName)
	binaryPath := filepath.Join(versionDir, ExecutableName(req.Name, req.OS))

	result := &Result{
		Path:    binaryPath,
		Version: rel.Version,
		Asset:   asset.Name,
	}

	if isRegularFile(binaryPath) {
		log.V(1).Info("using cached installation", "version", rel.Version, "path", binaryPath)
		result.Source = SourceCache
		return result, nil
	}

	report(env.Status, StatusDownloading)

	if err := p.install(ctx, req, rel, asset, versionDir, binaryPath); err != nil {
		return nil, err
	}
	log.Info("installed", "version", rel.Version, "asset", asset.Name, "path", binaryPath)

	result.Source = SourceDownload
	result.Warnings = removeStale(workDir, versionName)
	for _, w := range result.Warnings {
		log.V(1).Info("cleanup incomplete", "warning", w.Error())
	}

	return result, nil
}

// install downloads asset into versionDir and unpacks it there.
func (p *Provisioner) install(ctx context.Context, req ToolRequest, rel *release.Release, asset release.Asset, versionDir, binaryPath string) error {
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return &DownloadError{URL: asset.DownloadURL, Err: fmt.Errorf("create version dir: %w", err)}
	}

	archivePath := filepath.Join(versionDir, asset.Name)
	if err := p.downloader.DownloadToFile(ctx, asset.DownloadURL, archivePath); err != nil {
		return &DownloadError{URL: asset.DownloadURL, Err: err}
	}
	defer os.Remove(archivePath)

	verified := false
	if p.verifier != nil {
		if err := p.verify(ctx, rel, asset, archivePath); err != nil {
			return err
		}
		verified = true
	}

	checksum, err := calculateSHA256(archivePath)
	if err != nil {
		p.logger.V(1).Info("could not hash archive", "archive", archivePath, "error", err.Error())
	}

	if err := p.extractor.Extract(ArchiveFormatFor(req.OS), archivePath, versionDir); err != nil {
		return &ExtractionError{Archive: asset.Name, Err: err}
	}

	if !isRegularFile(binaryPath) {
		return &ExtractionError{
			Archive: asset.Name,
			Err:     fmt.Errorf("archive does not contain %s", filepath.Base(binaryPath)),
		}
	}

	if err := SetExecutable(binaryPath); err != nil {
		return &ExtractionError{Archive: asset.Name, Err: err}
	}

	rec := newInstallRecord(req.Name, rel.Version, asset.Name, asset.DownloadURL, p.clock.Now())
	rec.SHA256 = checksum
	rec.Verified = verified
	if err := rec.Save(versionDir); err != nil {
		p.logger.V(1).Info("could not write install record", "dir", versionDir, "error", err.Error())
	}

	return nil
}

// verify downloads the detached signature published next to asset and checks
// the archive against it.
func (p *Provisioner) verify(ctx context.Context, rel *release.Release, asset release.Asset, archivePath string) error {
	var sig release.Asset
	found := false
	for _, suffix := range SignatureSuffixes {
		if sig, found = rel.FindAsset(asset.Name + suffix); found {
			break
		}
	}
	if !found {
		return &VerificationError{Asset: asset.Name, Err: errors.New("release publishes no detached signature")}
	}

	sigPath := filepath.Join(filepath.Dir(archivePath), sig.Name)
	if err := p.downloader.DownloadToFile(ctx, sig.DownloadURL, sigPath); err != nil {
		return &DownloadError{URL: sig.DownloadURL, Err: err}
	}
	defer os.Remove(sigPath)

	if err := p.verifier.VerifyFile(archivePath, sigPath); err != nil {
		return &VerificationError{Asset: asset.Name, Err: err}
	}
	return nil
}

// Installations lists the version directories of tool that hold an
// executable, sorted by name. A tool that was never installed has none.
func (p *Provisioner) Installations(tool string) ([]CachedInstallation, error) {
	if err := ValidateToolName(tool); err != nil {
		return nil, fmt.Errorf("invalid tool: %w", err)
	}
	workDir := p.WorkDir(tool)
	entries, err := os.ReadDir(workDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &DirectoryListError{Dir: workDir, Err: err}
	}

	prefix := tool + "-"
	var installs []CachedInstallation
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		versionDir := filepath.Join(workDir, entry.Name())
		binaryPath, ok := findExecutable(versionDir, tool)
		if !ok {
			continue
		}
		installs = append(installs, CachedInstallation{
			Version:    strings.TrimPrefix(entry.Name(), prefix),
			VersionDir: versionDir,
			BinaryPath: binaryPath,
		})
	}

	sort.Slice(installs, func(i, j int) bool {
		return installs[i].VersionDir < installs[j].VersionDir
	})
	return installs, nil
}

// Prune removes every entry of tool's working directory except the
// directory of keepVersion, which must hold an executable.
func (p *Provisioner) Prune(tool, keepVersion string) []error {
	if err := ValidateToolName(tool); err != nil {
		return []error{fmt.Errorf("invalid tool: %w", err)}
	}
	if err := validateVersion(keepVersion); err != nil {
		return []error{err}
	}
	versionName := VersionDirName(tool, keepVersion)
	if _, ok := findExecutable(filepath.Join(p.WorkDir(tool), versionName), tool); !ok {
		return []error{fmt.Errorf("%s %s is not installed", tool, keepVersion)}
	}
	return removeStale(p.WorkDir(tool), versionName)
}

// findExecutable returns the executable of tool inside versionDir.
func findExecutable(versionDir, tool string) (string, bool) {
	for _, name := range executableNames(tool) {
		path := filepath.Join(versionDir, name)
		if isRegularFile(path) {
			return path, true
		}
	}
	return "", false
}

func report(status StatusReporter, s InstallationStatus) {
	if status != nil {
		status.Report(s)
	}
}

// isRegularFile reports whether path exists and is a regular file.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
