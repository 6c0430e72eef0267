package manifest

import (
	"bytes"
	"sort"
)

// DefaultVersion is recorded when a component is registered without a version.
const DefaultVersion = "latest"

// Entry is a registered component and its version specifier.
type Entry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewEntry builds an Entry, defaulting an empty version to DefaultVersion.
func NewEntry(name, version string) Entry {
	if version == "" {
		version = DefaultVersion
	}
	return Entry{Name: name, Version: version}
}

// EntriesToMap converts entries to a name to version mapping.
func EntriesToMap(entries []Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Version
	}
	return out
}

// SortedEntries converts a mapping back into entries ordered by name.
func SortedEntries(m map[string]string) []Entry {
	entries := make([]Entry, 0, len(m))
	for name, version := range m {
		entries = append(entries, Entry{Name: name, Version: version})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// OrderedEntries marshals as a JSON object whose keys follow slice order,
// unlike a map which encoding/json sorts.
type OrderedEntries []Entry

func (es OrderedEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range es {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, e.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, e.Version); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
