package sift

import (
	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/result"
)

// FieldType is a schema field type.
type FieldType string

// Schema field types.
const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
)

// SearchKind is the matching behavior of a searchable field.
type SearchKind string

// Search field kinds.
const (
	KindText    SearchKind = "text"
	KindKeyword SearchKind = "keyword"
	KindArray   SearchKind = "array"
)

// SearchMode selects the token matching strategy.
type SearchMode string

// Search modes.
const (
	ModeAny    SearchMode = "any"
	ModeAll    SearchMode = "all"
	ModePhrase SearchMode = "phrase"
)

// FieldInfo describes a schema field.
type FieldInfo struct {
	Name string
	Type FieldType
}

// SearchFieldInfo describes a resolved searchable field.
type SearchFieldInfo struct {
	Name   string
	Weight float64
	Kind   SearchKind
}

// CollectionInfo is the public view of a collection.
type CollectionInfo struct {
	Name         string
	Fields       []FieldInfo
	SearchFields []SearchFieldInfo
	CreatedAt    int64
	Revision     int
}

// Record is the public view of a stored record.
type Record struct {
	ID       string
	Data     map[string]any
	Revision int
}

// RecordPage is one page of a record listing.
type RecordPage struct {
	Records    []Record
	TotalCount int
}

// SearchOptions configure a search query. Zero values mean: mode any,
// all configured fields, no highlighting, no score floor, first page
// with the default page size.
type SearchOptions struct {
	Mode      SearchMode
	Fields    []string
	Highlight bool
	MinScore  float64
	Page      int
	PerPage   int
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	Item          Record
	Score         float64
	MatchedFields []string
	Highlights    map[string][]string
}

// SearchPage is one page of ranked search hits.
type SearchPage struct {
	Results        []SearchResult
	TotalCount     int
	TotalPages     int
	Page           int
	PerPage        int
	Query          string
	SearchedFields []string
}

// HealthReport aggregates component health checks.
type HealthReport struct {
	Status string
	Checks map[string]string
}

func fromInternalCollection(col domcol.Collection) CollectionInfo {
	fields := make([]FieldInfo, len(col.Fields()))
	for i, f := range col.Fields() {
		fields[i] = FieldInfo{Name: f.Name(), Type: FieldType(f.FieldType())}
	}
	search := make([]SearchFieldInfo, 0, col.SearchConfig().Len())
	for _, f := range col.SearchConfig().Fields() {
		search = append(search, SearchFieldInfo{
			Name:   f.Name(),
			Weight: f.Weight(),
			Kind:   SearchKind(f.MatchKind()),
		})
	}
	return CollectionInfo{
		Name:         col.Name(),
		Fields:       fields,
		SearchFields: search,
		CreatedAt:    col.CreatedAt(),
		Revision:     col.Revision(),
	}
}

func fromInternalRecord(rec domrec.Record) Record {
	return Record{ID: rec.ID(), Data: rec.Data(), Revision: rec.Revision()}
}

func fromInternalMatch(m result.Match) SearchResult {
	return SearchResult{
		Item:          fromInternalRecord(m.Record()),
		Score:         m.Score(),
		MatchedFields: m.MatchedFields(),
		Highlights:    m.Highlights(),
	}
}
