package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the component compiler in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.compiler(cmd)
			if err != nil {
				return err
			}
			result := client.Build(cmd.Context()).Wait()
			if ctx.JSONMode() {
				if err := writeJSON(cmd, buildSummary(result)); err != nil {
					return err
				}
			} else if result.Success() {
				fmt.Fprintf(cmd.OutOrStdout(), "Build finished in %s (run %s)\n", result.Duration.Round(time.Millisecond), result.RunID)
			}
			return result.AsError()
		},
	}
}
