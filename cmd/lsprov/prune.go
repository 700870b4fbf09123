package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newPruneCmd(a *app) *cobra.Command {
	var keep string

	cmd := &cobra.Command{
		Use:   "prune [tool]",
		Short: "Remove every cached version of a tool except one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, a, keep, args)
		},
	}
	cmd.Flags().StringVar(&keep, "keep", "", "version to keep (required)")
	_ = cmd.MarkFlagRequired("keep")

	return cmd
}

func runPrune(cmd *cobra.Command, a *app, keep string, args []string) error {
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

	if errs := prov.Prune(tool, keep); len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓")+fmt.Sprintf(" kept %s %s", tool, keep))
	return nil
}
