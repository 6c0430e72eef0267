package main

import "wcpack/internal/compiler"

type buildJSON struct {
	RunID      string   `json:"run_id"`
	Command    []string `json:"command"`
	Dir        string   `json:"dir"`
	ExitCode   int      `json:"exit_code"`
	Signal     string   `json:"signal,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	StderrTail []string `json:"stderr_tail,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func buildSummary(result compiler.Result) buildJSON {
	summary := buildJSON{
		RunID:      result.RunID,
		Command:    result.Command,
		Dir:        result.Dir,
		ExitCode:   result.ExitCode,
		Signal:     result.Signal,
		DurationMS: result.Duration.Milliseconds(),
		StderrTail: result.StderrTail,
	}
	if result.Err != nil {
		summary.Error = result.Err.Error()
	}
	return summary
}
