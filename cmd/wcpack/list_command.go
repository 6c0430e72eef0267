package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wcpack/internal/manifest"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list [component] [version]",
		Aliases: []string{"ls"},
		Short:   "Show registered components",
		Long: "Show the components registered in package.json. When a component is\n" +
			"given the command echoes it with its version instead of reading the manifest.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			component, version := componentArgs(args)
			reg, err := ctx.registry(cmd)
			if err != nil {
				return err
			}
			if component != "" {
				echoed, err := reg.Lookup(cmd.Context(), component, version)
				if err != nil {
					return err
				}
				return printEntries(cmd, ctx, manifest.SortedEntries(echoed))
			}
			entries, err := reg.Entries(cmd.Context())
			if err != nil {
				return err
			}
			return printEntries(cmd, ctx, entries)
		},
	}
}

func newEchoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "echo <component> [version]",
		Short: "Print the entry a registration would record, without touching the manifest",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			component, version := componentArgs(args)
			reg, err := ctx.registry(cmd)
			if err != nil {
				return err
			}
			return printEntries(cmd, ctx, manifest.SortedEntries(reg.EchoVersion(component, version)))
		},
	}
}

func printEntries(cmd *cobra.Command, ctx *commandContext, entries []manifest.Entry) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, manifest.OrderedEntries(entries))
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No components registered")
		return nil
	}
	fmt.Fprintln(out, renderComponentTable(entries))
	return nil
}
