package collection

import (
	"encoding/json"
	"fmt"

	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	"github.com/kshdotdev/sift/internal/domain/search/field"
)

// collectionDoc is the stored JSON shape of a collection.
type collectionDoc struct {
	Fields    []schemaFieldDoc `json:"fields,omitempty"`
	Search    []searchFieldDoc `json:"search,omitempty"`
	CreatedAt int64            `json:"created_at"`
	Revision  int              `json:"revision"`
}

type schemaFieldDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type searchFieldDoc struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Kind   string  `json:"kind"`
}

func collectionToJSON(col domcol.Collection) ([]byte, error) {
	doc := collectionDoc{
		CreatedAt: col.CreatedAt(),
		Revision:  col.Revision(),
	}
	for _, f := range col.Fields() {
		doc.Fields = append(doc.Fields, schemaFieldDoc{Name: f.Name(), Type: string(f.FieldType())})
	}
	for _, f := range col.SearchConfig().Fields() {
		doc.Search = append(doc.Search, searchFieldDoc{Name: f.Name(), Weight: f.Weight(), Kind: string(f.MatchKind())})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal collection %s: %w", col.Name(), err)
	}
	return data, nil
}

// collectionFromJSON decodes a JSON.GET "$" response, which wraps the
// document in a one-element array.
func collectionFromJSON(name string, raw []byte) (domcol.Collection, error) {
	var docs []collectionDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domcol.Collection{}, fmt.Errorf("unmarshal collection %s: %w", name, err)
	}
	if len(docs) == 0 {
		return domcol.Collection{}, fmt.Errorf("empty json.get result for collection %s", name)
	}
	doc := docs[0]

	fields := make([]schema.Field, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		fields = append(fields, schema.Reconstruct(f.Name, schema.Type(f.Type)))
	}

	searchFields := make([]field.Field, 0, len(doc.Search))
	for _, f := range doc.Search {
		searchFields = append(searchFields, field.Reconstruct(f.Name, f.Weight, field.Kind(f.Kind)))
	}

	return domcol.Reconstruct(name, fields, field.ReconstructConfig(searchFields), doc.CreatedAt, doc.Revision), nil
}
