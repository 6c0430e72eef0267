package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// Requirement is something wcpack needs on the host. When Path is set the
// requirement is a file that must exist; otherwise Command is resolved on PATH.
type Requirement struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
}

// Status is the outcome of checking one Requirement. Command holds the
// resolved binary or the checked file path.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Check evaluates requirements in order.
func Check(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if path := strings.TrimSpace(req.Path); path != "" {
		status.Command = path
		status.Available, status.Detail = fileExists(path)
		return status
	}

	status.Command = strings.TrimSpace(req.Command)
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

func fileExists(path string) (bool, string) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, path + " not found"
	case err != nil:
		return false, err.Error()
	case info.IsDir():
		return false, path + " is a directory"
	}
	return true, ""
}
