package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
)

func newAssetCmd(a *app) *cobra.Command {
	var osFlag, archFlag string

	cmd := &cobra.Command{
		Use:   "asset [tool]",
		Short: "Print the release asset name for a platform",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := binary.DefaultTool
			if len(args) == 1 {
				tool = args[0]
			}
			info, err := a.platformFor(cmd.Context(), osFlag, archFlag)
			if err != nil {
				return err
			}
			name, err := binary.AssetName(tool, info.OS, info.Arch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&osFlag, "os", "", "target operating system (default: this host)")
	cmd.Flags().StringVar(&archFlag, "arch", "", "target architecture (default: this host)")

	return cmd
}
