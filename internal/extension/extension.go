// Package extension exposes the editor-host contract of a language server
// extension: the host constructs the extension once and asks it for the
// command that starts a language server in a given worktree.
package extension

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/config"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
)

// Command is what the host executes to start a language server.
type Command struct {
	Command string      `json:"command"`
	Args    []string    `json:"args"`
	Env     [][2]string `json:"env"`
}

// Worktree is the host's view of a project. It finds executables the user
// already has installed.
type Worktree interface {
	Which(name string) (string, bool)
}

// StatusSink receives installation progress for a language server.
type StatusSink interface {
	SetInstallationStatus(serverID string, status binary.InstallationStatus)
}

// StatusSinkFunc adapts a function to StatusSink.
type StatusSinkFunc func(serverID string, status binary.InstallationStatus)

// SetInstallationStatus calls f(serverID, status).
func (f StatusSinkFunc) SetInstallationStatus(serverID string, status binary.InstallationStatus) {
	f(serverID, status)
}

// Resolver provisions executables; *binary.Provisioner implements it.
type Resolver interface {
	Resolve(ctx context.Context, req binary.ToolRequest, env binary.Environment) (*binary.Result, error)
}

// Config holds the collaborators of an Extension.
type Config struct {
	// Manifest describes the language server; nil means config.DefaultManifest.
	Manifest *config.Manifest
	// Resolver is required.
	Resolver Resolver
	// Platform is the host platform assets are selected for; required.
	Platform *platform.Info
	// Cache records resolved paths per server id; nil means a new MemoryCache.
	Cache ResultCache
	// Status receives installation progress; nil discards it.
	Status StatusSink
	Logger logr.Logger
}

// Extension implements the host contract for one language server.
type Extension struct {
	manifest *config.Manifest
	resolver Resolver
	platform *platform.Info
	cache    ResultCache
	status   StatusSink
	logger   logr.Logger
}

// New creates an extension. It performs no I/O.
func New(cfg Config) (*Extension, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if cfg.Platform == nil {
		return nil, fmt.Errorf("platform is required")
	}

	manifest := cfg.Manifest
	if manifest == nil {
		manifest = config.DefaultManifest()
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	status := cfg.Status
	if status == nil {
		status = StatusSinkFunc(func(string, binary.InstallationStatus) {})
	}

	logger := cfg.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Extension{
		manifest: manifest,
		resolver: cfg.Resolver,
		platform: cfg.Platform,
		cache:    cache,
		status:   status,
		logger:   logger,
	}, nil
}

// Manifest returns the manifest the extension launches.
func (e *Extension) Manifest() *config.Manifest {
	return e.manifest
}

// LanguageServerCommand resolves the executable for serverID, looking in
// worktree first, and returns the command that starts it. The resolved path
// is recorded in the result cache under serverID.
func (e *Extension) LanguageServerCommand(ctx context.Context, serverID string, worktree Worktree) (*Command, error) {
	req := binary.ToolRequest{
		Name:       e.manifest.Tool,
		Repository: e.manifest.Repository,
		OS:         e.platform.OS,
		Arch:       e.platform.Arch,
	}

	env := binary.Environment{
		Status: binary.StatusFunc(func(s binary.InstallationStatus) {
			e.status.SetInstallationStatus(serverID, s)
		}),
	}
	if worktree != nil {
		env.Locator = worktree
	}

	res, err := e.resolver.Resolve(ctx, req, env)
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		e.logger.Info("could not clean up old installations", "server", serverID, "warning", w.Error())
	}

	e.cache.Store(serverID, res.Path)

	return &Command{
		Command: res.Path,
		Args:    append([]string{}, e.manifest.Args...),
		Env:     e.manifest.EnvPairs(),
	}, nil
}
