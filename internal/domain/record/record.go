package record

import (
	"fmt"
	"regexp"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"search": true, "records": true}
)

// Record is a stored record aggregate (immutable value object).
// Data holds the JSON-shaped field values: string, float64, bool,
// []any, or nil.
type Record struct {
	id       string
	data     map[string]any
	revision int
}

// New validates and creates a Record.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars, not reserved.
func New(id string, data map[string]any) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record ID is required")
	}
	if len(id) > 256 {
		return Record{}, fmt.Errorf("record ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Record{}, fmt.Errorf("record ID must be alphanumeric with underscores and hyphens")
	}
	if reservedIDs[id] {
		return Record{}, fmt.Errorf("record ID %q is reserved", id)
	}

	return Record{id: id, data: cloneData(data), revision: 1}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, data map[string]any, revision int) Record {
	return Record{id: id, data: data, revision: revision}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Data returns the record field values.
func (r *Record) Data() map[string]any { return r.data }

// Field returns a single field value and whether it is present.
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.data[name]
	return v, ok
}

// Revision returns the record revision number.
func (r *Record) Revision() int { return r.revision }

func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
