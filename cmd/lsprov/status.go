package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [tool]",
		Short: "List cached installations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, a, args)
		},
	}
}

func runStatus(cmd *cobra.Command, a *app, args []string) error {
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
	tool := manifest.Tool
	if len(args) == 1 {
		tool = args[0]
	}

	prov, err := a.provisioner(settings, logger)
	if err != nil {
		return err
	}
	installs, err := prov.Installations(tool)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(installs) == 0 {
		fmt.Fprintf(out, "No cached installations of %s in %s\n", tool, prov.WorkDir(tool))
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render(tool)+subtitleStyle.Render(" "+prov.WorkDir(tool)))
	for _, inst := range installs {
		fmt.Fprintf(out, "  %s %s\n", successStyle.Render(inst.Version), inst.BinaryPath)

		record, err := binary.ReadInstallRecord(inst.VersionDir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Error(err, "unreadable install record", "dir", inst.VersionDir)
			}
			continue
		}
		details := fmt.Sprintf("    %s installed %s", record.Asset, record.InstalledAt.Local().Format("2006-01-02 15:04"))
		if record.Verified {
			details += ", signature verified"
		}
		fmt.Fprintln(out, subtitleStyle.Render(details))
	}
	return nil
}
