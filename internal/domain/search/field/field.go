package field

import (
	"sort"

	"github.com/kshdotdev/sift/internal/domain/collection/schema"
)

// Kind is how a searchable field's value is matched.
type Kind string

// Field kind constants.
const (
	// Text fields use case-insensitive substring matching.
	Text Kind = "text"
	// Keyword fields require the entire value to equal a token.
	Keyword Kind = "keyword"
	// Array fields are matched element-wise.
	Array Kind = "array"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Text || k == Keyword || k == Array
}

// DefaultWeight is the weight assigned when none is configured.
const DefaultWeight = 1.0

// Field is an immutable value object describing one searchable field.
type Field struct {
	name   string
	weight float64
	kind   Kind
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, weight float64, kind Kind) Field {
	return Field{name: name, weight: weight, kind: kind}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Weight returns the field's relative importance multiplier.
func (f Field) Weight() float64 { return f.weight }

// MatchKind returns how the field's values are matched.
func (f Field) MatchKind() Kind { return f.kind }

// Config is the canonical searchable field configuration.
// Iteration order is fixed at resolution time and deterministic.
type Config struct {
	fields []Field
}

// ReconstructConfig creates a Config without resolution (storage hydration).
func ReconstructConfig(fields []Field) Config {
	return Config{fields: fields}
}

// Fields returns the configured fields in iteration order.
func (c Config) Fields() []Field { return c.fields }

// Len returns the number of configured fields.
func (c Config) Len() int { return len(c.fields) }

// IsEmpty reports whether no field is searchable.
func (c Config) IsEmpty() bool { return len(c.fields) == 0 }

// ByName looks up a field by name.
func (c Config) ByName(name string) (Field, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the configured field names in iteration order.
func (c Config) Names() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.name
	}
	return names
}

// Restrict returns the subset of the configuration named in requested,
// keeping configuration order. Unknown names are silently dropped; an
// empty request keeps the full configuration.
func (c Config) Restrict(requested []string) Config {
	if len(requested) == 0 {
		return c
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}
	sub := make([]Field, 0, len(requested))
	for _, f := range c.fields {
		if want[f.name] {
			sub = append(sub, f)
		}
	}
	return Config{fields: sub}
}

// Definition is one entry of an explicit field configuration map.
type Definition struct {
	Weight float64
	Kind   Kind
}

// Spec is the search configuration as supplied at collection creation:
// an explicit per-field map, a flat field list with optional weight
// overrides, or nothing (schema-derived default).
type Spec struct {
	Explicit map[string]Definition
	Fields   []string
	Weights  map[string]float64
}

// IsEmpty reports whether the spec carries no configuration at all.
func (s Spec) IsEmpty() bool {
	return len(s.Explicit) == 0 && len(s.Fields) == 0
}

// Resolve normalizes a Spec into the canonical Config. The explicit map
// wins outright; else the flat list with weight overrides; else every
// string-typed schema field with the default weight. Resolve never fails:
// an empty result simply yields zero matches for every search.
//
// Explicit map keys are sorted for a deterministic iteration order; list
// and schema inputs keep their declared order.
func Resolve(spec Spec, schemaFields []schema.Field) Config {
	switch {
	case len(spec.Explicit) > 0:
		names := make([]string, 0, len(spec.Explicit))
		for name := range spec.Explicit {
			names = append(names, name)
		}
		sort.Strings(names)

		fields := make([]Field, 0, len(names))
		for _, name := range names {
			def := spec.Explicit[name]
			weight := def.Weight
			if weight <= 0 {
				weight = DefaultWeight
			}
			kind := def.Kind
			if !kind.IsValid() {
				kind = Text
			}
			fields = append(fields, Field{name: name, weight: weight, kind: kind})
		}
		return Config{fields: fields}

	case len(spec.Fields) > 0:
		fields := make([]Field, 0, len(spec.Fields))
		seen := make(map[string]bool, len(spec.Fields))
		for _, name := range spec.Fields {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			weight := DefaultWeight
			if w, ok := spec.Weights[name]; ok && w > 0 {
				weight = w
			}
			fields = append(fields, Field{name: name, weight: weight, kind: Text})
		}
		return Config{fields: fields}

	default:
		var fields []Field
		for _, sf := range schemaFields {
			if sf.FieldType() != schema.String {
				continue
			}
			fields = append(fields, Field{name: sf.Name(), weight: DefaultWeight, kind: Text})
		}
		return Config{fields: fields}
	}
}
