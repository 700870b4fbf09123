package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
	"github.com/ZebulonRouseFrantzich/lsprov/internal/extension"
)

func newCommandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "command [server-id]",
		Short: "Print the command that starts the language server",
		Long: `Command plays the editor host: it asks the extension for the language
server command of the current directory and prints it as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, a, args)
		},
	}
}

func runCommand(cmd *cobra.Command, a *app, args []string) error {
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
	info, err := a.platformFor(ctx, "", "")
	if err != nil {
		return err
	}
	prov, err := a.provisioner(settings, logger)
	if err != nil {
		return err
	}

	ext, err := extension.New(extension.Config{
		Manifest: manifest,
		Resolver: prov,
		Platform: info,
		Status: extension.StatusSinkFunc(func(serverID string, s binary.InstallationStatus) {
			statusPrinter(cmd, serverID).Report(s)
		}),
		Logger: logger.WithName("extension"),
	})
	if err != nil {
		return err
	}

	serverID := manifest.ID
	if len(args) == 1 {
		serverID = args[0]
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	command, err := ext.LanguageServerCommand(ctx, serverID, extension.PathWorktree{Root: cwd})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(command)
}
