package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/extension"
)

type resolveOptions struct {
	os      string
	arch    string
	repo    string
	jsonOut bool
}

// resolveOutput is the --json form of a resolution.
type resolveOutput struct {
	Path     string   `json:"path"`
	Version  string   `json:"version,omitempty"`
	Asset    string   `json:"asset,omitempty"`
	Source   string   `json:"source"`
	Warnings []string `json:"warnings,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [tool]",
		Short: "Find or install a language server and print its path",
		Long: `Resolve returns the executable on PATH if there is one. Otherwise it
installs the latest release asset into the cache, unless that version is
already cached, and removes every other cached version of the tool.

The PATH lookup is skipped when --os or --arch selects another platform.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.os, "os", "", "target operating system (mac, linux, windows)")
	cmd.Flags().StringVar(&opts.arch, "arch", "", "target architecture (aarch64, x86, x86_64)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "GitHub repository (owner/repo) publishing the tool")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func runResolve(cmd *cobra.Command, a *app, opts *resolveOptions, args []string) error {
	ctx := cmd.Context()
	logger := a.logger()

	settings, err := a.settings(ctx)
	if err != nil {
		return err
	}
	manifest, err := a.manifest(ctx, settings, logger)
	if err != nil {
		return err
	}

	req := binary.ToolRequest{Name: manifest.Tool, Repository: manifest.Repository}
	if len(args) == 1 && args[0] != manifest.Tool {
		if opts.repo == "" {
			return fmt.Errorf("--repo is required to resolve %s", args[0])
		}
		req.Name = args[0]
	}
	if opts.repo != "" {
		req.Repository = opts.repo
	}

	info, err := a.platformFor(ctx, opts.os, opts.arch)
	if err != nil {
		return err
	}
	req.OS, req.Arch = info.OS, info.Arch

	prov, err := a.provisioner(settings, logger)
	if err != nil {
		return err
	}

	env := binary.Environment{Status: statusPrinter(cmd, req.Name)}
	if opts.os == "" && opts.arch == "" {
		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		env.Locator = extension.PathWorktree{Root: root}
	}

	res, err := prov.Resolve(ctx, req, env)
	if err != nil {
		return err
	}
	printWarnings(cmd, res.Warnings)

	if opts.jsonOut {
		out := resolveOutput{
			Path:    res.Path,
			Version: res.Version,
			Asset:   res.Asset,
			Source:  string(res.Source),
		}
		for _, w := range res.Warnings {
			out.Warnings = append(out.Warnings, w.Error())
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}
