package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/config"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/release"
)

// app carries the global flags and the collaborators built from them.
type app struct {
	configFile string
	cacheDir   string
	verbose    bool

	detector platform.Detector
}

func newApp() *app {
	return &app{detector: platform.NewDetector()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lsprov",
		Short: "Provision language server executables",
		Long: titleStyle.Render("lsprov") + subtitleStyle.Render(" - language server provisioning") + `

lsprov finds a language server on your PATH or downloads the latest
release asset for your platform into a per-tool cache, removing older
versions after a successful install.

` + subtitleStyle.Render("Examples:") + `
  lsprov resolve                 Resolve the default language server
  lsprov command                 Print the command an editor would run
  lsprov status                  List cached installations
  lsprov asset --os mac          Print the asset name for a platform`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "settings file (default is $XDG_CONFIG_HOME/lsprov/config.toml)")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "override the cache directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newResolveCmd(a))
	root.AddCommand(newCommandCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newPruneCmd(a))
	root.AddCommand(newAssetCmd(a))

	return root
}

// logger adapts a charm logger on stderr to logr.
func (a *app) logger() logr.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: config.AppName})
	if a.verbose {
		l.SetLevel(log.DebugLevel)
	}
	return logr.FromSlogHandler(l)
}

func (a *app) settings(ctx context.Context) (*config.Settings, error) {
	s, err := config.LoadSettings(ctx, config.LoadOptions{ConfigFile: a.configFile})
	if err != nil {
		return nil, err
	}
	if a.cacheDir != "" {
		s.CacheDir = a.cacheDir
	}
	return s, nil
}

// manifest reads the Lua extension manifest named in settings, or returns
// the default one.
func (a *app) manifest(ctx context.Context, s *config.Settings, logger logr.Logger) (*config.Manifest, error) {
	if s.ExtensionPath == "" {
		return config.DefaultManifest(), nil
	}
	m, err := config.NewParser(a.detector, logger).ParseFile(ctx, s.ExtensionPath)
	if err != nil {
		return nil, errors.New(config.FormatError(err, a.verbose))
	}
	return m, nil
}

func (a *app) provisioner(s *config.Settings, logger logr.Logger) (*binary.Provisioner, error) {
	client := &http.Client{Timeout: s.HTTPTimeout}

	host := release.NewGitHub(client,
		release.WithBaseURL(s.GitHubAPI),
		release.WithToken(s.GitHubToken),
		release.WithLogger(logger.WithName("release")),
	)

	return binary.NewProvisioner(binary.Config{
		RootDir:     s.CacheDir,
		Releases:    host,
		HTTPClient:  client,
		KeyringPath: s.KeyringPath,
		Logger:      logger.WithName("binary"),
	})
}

// platformFor detects the host platform and applies --os/--arch overrides.
func (a *app) platformFor(ctx context.Context, osFlag, archFlag string) (*platform.Info, error) {
	detected, err := a.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	info := *detected
	if osFlag != "" {
		if info.OS, err = platform.ParseOS(osFlag); err != nil {
			return nil, err
		}
	}
	if archFlag != "" {
		if info.Arch, err = platform.ParseArch(archFlag); err != nil {
			return nil, err
		}
	}
	return &info, nil
}

// statusPrinter writes installation progress to stderr.
func statusPrinter(cmd *cobra.Command, tool string) binary.StatusFunc {
	return func(s binary.InstallationStatus) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", subtitleStyle.Render(tool+":"), s)
	}
}

func printWarnings(cmd *cobra.Command, warnings []error) {
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("warning: ")+w.Error())
	}
}
