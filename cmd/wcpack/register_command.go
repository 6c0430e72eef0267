package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wcpack/internal/manifest"
	"wcpack/internal/registry"
)

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "register [component] [version]",
		Aliases: []string{"add"},
		Short:   "Record a component version in the manifest",
		Long: "Record a component version under the webcomponents key of package.json.\n" +
			"The version defaults to \"latest\". Without a component nothing is written.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			component, version := componentArgs(args)
			reg, err := ctx.registry(cmd)
			if err != nil {
				return err
			}
			outcome, err := reg.Register(cmd.Context(), component, version)
			if err != nil {
				return err
			}
			entry := manifest.NewEntry(component, version)
			if ctx.JSONMode() {
				payload := map[string]string{"outcome": outcome.String()}
				if outcome == registry.OutcomeApplied {
					payload["component"] = entry.Name
					payload["version"] = entry.Version
				}
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			if outcome == registry.OutcomeSkipped {
				fmt.Fprintln(out, "No component given; manifest unchanged")
				return nil
			}
			path, _ := reg.ManifestPath()
			fmt.Fprintf(out, "Registered %s@%s in %s\n", entry.Name, entry.Version, path)
			return nil
		},
	}
}

func componentArgs(args []string) (string, string) {
	var component, version string
	if len(args) > 0 {
		component = args[0]
	}
	if len(args) > 1 {
		version = args[1]
	}
	return component, version
}
