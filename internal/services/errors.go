package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures for errors.Is checks and CLI exit codes.
var (
	ErrManifestAccess    = errors.New("manifest access error")
	ErrMalformedManifest = errors.New("malformed manifest")
	ErrExternalTool      = errors.New("external tool error")
	ErrConfiguration     = errors.New("configuration error")
	ErrLockTimeout       = errors.New("lock timeout")
)

// Wrap tags err with marker and prefixes it with "component: operation:
// message", skipping blank parts. A nil marker means ErrExternalTool. err may
// be nil, in which case only the marker and detail are reported.
func Wrap(marker error, component, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	var parts []string
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// ExitStatus maps an error to the process exit code, using sysexits values
// for configuration (78) and data (65) failures.
func ExitStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 78
	case errors.Is(err, ErrMalformedManifest):
		return 65
	}
	return 1
}
