package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		topologyID string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Load topology files and write one of them to <id>.json",
		Long: `Load topology files and write one of them to <id>.json.

The file is written to --out, or storage.output_dir from the config, or the
current directory.

Examples:
  topology export top1.json --id top1 --out ./saved`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("out") {
				a.cfg.Storage.OutputDir = outDir
			}

			registry := a.newRegistry()
			if err := loadPaths(cmd.Context(), registry, args); err != nil {
				return err
			}

			path, err := registry.Save(cmd.Context(), topologyID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVar(&topologyID, "id", "", "id of the topology to write")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write to (overrides config)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
