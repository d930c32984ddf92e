package sift

// CollectionOption configures collection creation.
type CollectionOption interface {
	applyCollection(*collectionConfig)
}

// collectionOptionFunc adapts a function to the CollectionOption interface.
type collectionOptionFunc func(*collectionConfig)

func (f collectionOptionFunc) applyCollection(c *collectionConfig) { f(c) }

type collectionConfig struct {
	fields       []FieldInfo
	searchFields []string
	weights      map[string]float64
	explicit     map[string]SearchFieldInfo
}

// WithField declares a schema field.
func WithField(name string, ft FieldType) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.fields = append(c.fields, FieldInfo{Name: name, Type: ft})
	})
}

// WithSearchFields restricts searching to the named fields. Without it
// every string-typed schema field is searchable with weight 1.0.
func WithSearchFields(names ...string) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		c.searchFields = append(c.searchFields, names...)
	})
}

// WithWeight overrides the relevance weight of a searchable field.
func WithWeight(name string, weight float64) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		if c.weights == nil {
			c.weights = make(map[string]float64)
		}
		c.weights[name] = weight
	})
}

// WithExplicitField fully specifies one searchable field. When any
// explicit field is present the explicit map wins over WithSearchFields
// and WithWeight.
func WithExplicitField(name string, weight float64, kind SearchKind) CollectionOption {
	return collectionOptionFunc(func(c *collectionConfig) {
		if c.explicit == nil {
			c.explicit = make(map[string]SearchFieldInfo)
		}
		c.explicit[name] = SearchFieldInfo{Name: name, Weight: weight, Kind: kind}
	})
}
