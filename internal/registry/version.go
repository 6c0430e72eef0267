package registry

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// VersionKind describes how a version specifier will be interpreted.
type VersionKind string

const (
	KindExact    VersionKind = "exact"
	KindRange    VersionKind = "range"
	KindTag      VersionKind = "tag"
	KindUnparsed VersionKind = "unparsed"
)

var distTagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)

// ClassifyVersion labels a version specifier. Classification is informational;
// registration never rejects a specifier.
func ClassifyVersion(version string) VersionKind {
	if _, err := semver.StrictNewVersion(version); err == nil {
		return KindExact
	}
	if _, err := semver.NewConstraint(version); err == nil {
		return KindRange
	}
	if distTagPattern.MatchString(version) {
		return KindTag
	}
	return KindUnparsed
}
