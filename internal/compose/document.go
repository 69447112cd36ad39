package compose

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/conn-castle/expofast/internal/messages"
)

// Document is an in-memory JSON document edited by path.
// Paths use gjson syntax ("expo.web.bundler"); edits keep existing key order.
type Document struct {
	raw []byte
}

// Get returns the value at path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Has reports whether path exists.
func (d *Document) Has(path string) bool {
	return d.Get(path).Exists()
}

// Set stores value at path, creating intermediate objects.
func (d *Document) Set(path string, value any) error {
	updated, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return fmt.Errorf(messages.ComposeSetFailedFmt, path, err)
	}
	d.raw = updated
	return nil
}

// SetIfAbsent stores value at path only when nothing is there yet.
func (d *Document) SetIfAbsent(path string, value any) error {
	if d.Has(path) {
		return nil
	}
	return d.Set(path, value)
}

// AppendUnique appends value to the string array at path unless it is already present.
// A missing path is created as a one-element array.
func (d *Document) AppendUnique(path string, value string) error {
	current := d.Get(path)
	if !current.Exists() {
		return d.Set(path, []string{value})
	}
	if !current.IsArray() {
		return fmt.Errorf(messages.ComposeNotArrayFmt, path)
	}
	for _, item := range current.Array() {
		if item.Type == gjson.String && item.Str == value {
			return nil
		}
	}
	return d.Set(path+".-1", value)
}

// Bytes returns the current document content.
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out
}
