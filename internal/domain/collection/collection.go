package collection

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	"github.com/kshdotdev/sift/internal/domain/search/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Collection is the record collection aggregate (immutable value object).
// The searchable field configuration is resolved once here, at
// construction time, never per request.
type Collection struct {
	name      string
	fields    []schema.Field
	search    field.Config
	createdAt int64
	revision  int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []schema.Field) error {
	if len(fields) > 64 {
		return fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates a Collection, resolving the search spec
// against the schema. Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Fields:
// unique names, max 64.
func New(name string, fields []schema.Field, spec field.Spec) (Collection, error) {
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if err := validateFields(fields); err != nil {
		return Collection{}, err
	}

	return Collection{
		name:      name,
		fields:    fields,
		search:    field.Resolve(spec, fields),
		createdAt: time.Now().UnixMilli(),
		revision:  1,
	}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(
	name string, fields []schema.Field, search field.Config,
	createdAt int64, revision int,
) Collection {
	return Collection{
		name:      name,
		fields:    fields,
		search:    search,
		createdAt: createdAt,
		revision:  revision,
	}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Fields returns the declared schema fields.
func (c Collection) Fields() []schema.Field { return c.fields }

// SearchConfig returns the resolved searchable field configuration.
func (c Collection) SearchConfig() field.Config { return c.search }

// CreatedAt returns the creation timestamp (unix millis).
func (c Collection) CreatedAt() int64 { return c.createdAt }

// Revision returns the optimistic concurrency version.
func (c Collection) Revision() int { return c.revision }

// FieldByName looks up a schema field by name.
func (c Collection) FieldByName(name string) (schema.Field, bool) {
	for _, f := range c.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return schema.Field{}, false
}
