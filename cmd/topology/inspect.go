package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		topologyID string
		node       string
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Load topology files and print their ids or devices as JSON",
		Long: `Load topology files and print their ids or devices as JSON.

Examples:
  # List the ids of the loaded topologies
  topology inspect top1.json top2.json

  # List the devices of one topology
  topology inspect top1.json --devices top1

  # List the devices connected to a netlist node
  topology inspect top1.json --devices top1 --node n1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := a.newRegistry()
			if err := loadPaths(cmd.Context(), registry, args); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if topologyID == "" {
				return writeJSON(out, registry.IDs())
			}

			if cmd.Flags().Changed("node") {
				devices, err := registry.DevicesOnNetlistNode(topologyID, node)
				if err != nil {
					return err
				}
				return writeJSON(out, devices)
			}

			devices, err := registry.Devices(topologyID)
			if err != nil {
				return err
			}
			return writeJSON(out, devices)
		},
	}

	cmd.Flags().StringVarP(&topologyID, "devices", "d", "", "list the devices of the topology with this id")
	cmd.Flags().StringVarP(&node, "node", "n", "", "only list devices connected to this netlist node (requires --devices)")
	cmd.MarkFlagsRequiredTogether("node", "devices")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
