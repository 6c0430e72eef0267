package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wcpack/internal/config"
	"wcpack/internal/deps"
	"wcpack/internal/registry"
)

type doctorCheck struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Available bool   `json:"available"`
	Optional  bool   `json:"optional,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the compiler toolchain and the project manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := ctx.registry(cmd)
			if err != nil {
				return err
			}
			checks, err := runDoctorChecks(cmd, cfg, reg)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				if err := writeJSON(cmd, checks); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, check := range checks {
					fmt.Fprintln(out, renderDoctorCheck(check, colorize))
				}
			}

			problems := 0
			for _, check := range checks {
				if !check.Available && !check.Optional {
					problems++
				}
			}
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			return nil
		},
	}
}

func runDoctorChecks(cmd *cobra.Command, cfg *config.Config, reg *registry.Registry) ([]doctorCheck, error) {
	script, err := cfg.CompilerScriptPath()
	if err != nil {
		return nil, err
	}
	manifestPath, err := reg.ManifestPath()
	if err != nil {
		return nil, err
	}

	var requirements []deps.Requirement
	if cfg.Compiler.Runtime != "" {
		requirements = append(requirements, deps.Requirement{
			Name:        "Runtime",
			Command:     cfg.Compiler.Runtime,
			Description: "Executes the component compiler",
		})
	}
	requirements = append(requirements,
		deps.Requirement{Name: "Compiler", Path: script, Description: "Component compiler entry point"},
		deps.Requirement{Name: "Manifest", Path: manifestPath, Description: "Project package.json"},
	)

	statuses := deps.Check(requirements)
	checks := make([]doctorCheck, 0, len(statuses))
	for _, status := range statuses {
		check := doctorCheck{
			Name:      status.Name,
			Target:    status.Command,
			Available: status.Available,
			Optional:  status.Optional,
			Detail:    status.Detail,
		}
		if check.Name == "Manifest" && check.Available {
			entries, err := reg.Entries(cmd.Context())
			if err != nil {
				check.Available = false
				check.Detail = err.Error()
			} else {
				check.Detail = fmt.Sprintf("%d component(s) registered", len(entries))
			}
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func renderDoctorCheck(check doctorCheck, colorize bool) string {
	kind := statusOK
	message := check.Target
	if check.Detail != "" {
		message += " (" + check.Detail + ")"
	}
	if !check.Available {
		kind = statusError
		if check.Optional {
			kind = statusWarn
		}
		message = check.Detail
	}
	return renderStatusLine(check.Name, kind, message, colorize)
}
