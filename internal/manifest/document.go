package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ComponentsKey is the reserved top-level key holding the component registry.
const ComponentsKey = "webcomponents"

// ErrNotObject reports JSON that is valid but not an object where one is required.
var ErrNotObject = errors.New("expected a JSON object")

// Document is a parsed manifest. Top-level keys keep their original order and
// values are carried as raw JSON so untouched fields round-trip unchanged.
type Document struct {
	fields []field
}

type field struct {
	key   string
	value json.RawMessage
}

// Parse decodes a manifest from its JSON text.
func Parse(data []byte) (*Document, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return &Document{fields: fields}, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		keys = append(keys, f.key)
	}
	return keys
}

// Raw returns the raw JSON value stored under key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	if idx := d.index(key); idx >= 0 {
		return d.fields[idx].value, true
	}
	return nil, false
}

// Components returns the registered component entries in document order. A
// missing or null webcomponents value yields an empty slice.
func (d *Document) Components() ([]Entry, error) {
	raw, ok := d.Raw(ComponentsKey)
	if !ok || isNull(raw) {
		return nil, nil
	}
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ComponentsKey, err)
	}
	entries := make([]Entry, 0, len(fields))
	for _, f := range fields {
		var version string
		if err := json.Unmarshal(f.value, &version); err != nil {
			return nil, fmt.Errorf("%s.%s: version must be a string", ComponentsKey, f.key)
		}
		entries = append(entries, Entry{Name: f.key, Version: version})
	}
	return entries, nil
}

// SetComponent records version for name, creating the webcomponents object
// when absent. Existing names are updated in place; new names are appended.
func (d *Document) SetComponent(name, version string) error {
	entries, err := d.Components()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Version = version
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, Entry{Name: name, Version: version})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, entry.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, entry.Version); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	d.set(ComponentsKey, buf.Bytes())
	return nil
}

// Marshal renders the document with two-space indentation and no trailing
// newline, whatever the source ended with.
func (d *Document) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := writeString(&compact, f.key); err != nil {
			return nil, err
		}
		compact.WriteByte(':')
		compact.Write(f.value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent manifest: %w", err)
	}
	return out.Bytes(), nil
}

func (d *Document) index(key string) int {
	for i, f := range d.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}

func (d *Document) set(key string, value []byte) {
	raw := append(json.RawMessage(nil), value...)
	if idx := d.index(key); idx >= 0 {
		d.fields[idx].value = raw
		return
	}
	d.fields = append(d.fields, field{key: key, value: raw})
}

// decodeObject reads a single JSON object, keeping key order. Duplicate keys
// keep their first position and take the last value.
func decodeObject(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	var fields []field
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if idx, dup := seen[key]; dup {
			fields[idx].value = value
			continue
		}
		seen[key] = len(fields)
		fields = append(fields, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level object")
		}
		return nil, err
	}
	return fields, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
