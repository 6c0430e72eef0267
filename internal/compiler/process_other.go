//go:build !unix

package compiler

import "os/exec"

func killProcessGroup(*exec.Cmd) {}

func signalName(*exec.ExitError) string { return "" }
