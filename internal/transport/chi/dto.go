package chi

import (
	"fmt"
	"time"

	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/result"
	searchuc "github.com/kshdotdev/sift/internal/usecase/search"
)

// envelope is the uniform response wrapper.
type envelope struct {
	Result     any `json:"result"`
	ResultInfo any `json:"result_info,omitempty"`
}

// errorResponse is the uniform error shape.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeQueryTooShort    = "query_too_short"
	codeNotFound         = "collection_not_found"
	codeRecordNotFound   = "record_not_found"
	codeAlreadyExists    = "collection_already_exists"
	codeInternalError    = "internal_error"
)

// --- Requests ---

type createCollectionRequest struct {
	Name   string               `json:"name"`
	Fields []fieldDefinitionDTO `json:"fields,omitempty"`
	Search *searchSpecDTO       `json:"search,omitempty"`
}

type fieldDefinitionDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type searchSpecDTO struct {
	Fields   []string                  `json:"fields,omitempty"`
	Weights  map[string]float64        `json:"weights,omitempty"`
	Explicit map[string]searchFieldDTO `json:"explicit,omitempty"`
}

type searchFieldDTO struct {
	Weight float64 `json:"weight,omitempty"`
	Kind   string  `json:"kind,omitempty"`
}

type upsertRecordRequest struct {
	Data map[string]any `json:"data"`
}

func schemaFieldsFromDTO(ff []fieldDefinitionDTO) ([]schema.Field, error) {
	if len(ff) == 0 {
		return nil, nil
	}
	fields := make([]schema.Field, 0, len(ff))
	for _, f := range ff {
		ft := schema.Type(f.Type)
		if !ft.IsValid() {
			return nil, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
		sf, err := schema.New(f.Name, ft)
		if err != nil {
			return nil, err
		}
		fields = append(fields, sf)
	}
	return fields, nil
}

func searchSpecFromDTO(s *searchSpecDTO) field.Spec {
	if s == nil {
		return field.Spec{}
	}
	spec := field.Spec{
		Fields:  s.Fields,
		Weights: s.Weights,
	}
	if len(s.Explicit) > 0 {
		spec.Explicit = make(map[string]field.Definition, len(s.Explicit))
		for name, def := range s.Explicit {
			spec.Explicit[name] = field.Definition{
				Weight: def.Weight,
				Kind:   field.Kind(def.Kind),
			}
		}
	}
	return spec
}

// --- Responses ---

type collectionDTO struct {
	Name      string               `json:"name"`
	Fields    []fieldDefinitionDTO `json:"fields,omitempty"`
	Search    []searchConfigDTO    `json:"search"`
	CreatedAt time.Time            `json:"created_at"`
	Revision  int                  `json:"revision"`
}

type searchConfigDTO struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Kind   string  `json:"kind"`
}

func collectionToDTO(c domcol.Collection) collectionDTO {
	dto := collectionDTO{
		Name:      c.Name(),
		Search:    []searchConfigDTO{},
		CreatedAt: time.UnixMilli(c.CreatedAt()).UTC(),
		Revision:  c.Revision(),
	}
	for _, f := range c.Fields() {
		dto.Fields = append(dto.Fields, fieldDefinitionDTO{Name: f.Name(), Type: string(f.FieldType())})
	}
	for _, f := range c.SearchConfig().Fields() {
		dto.Search = append(dto.Search, searchConfigDTO{Name: f.Name(), Weight: f.Weight(), Kind: string(f.MatchKind())})
	}
	return dto
}

type recordDTO struct {
	ID       string         `json:"id"`
	Data     map[string]any `json:"data"`
	Revision int            `json:"revision"`
}

func recordToDTO(r domrec.Record) recordDTO {
	return recordDTO{ID: r.ID(), Data: r.Data(), Revision: r.Revision()}
}

type listInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type searchMatchDTO struct {
	Item          recordDTO           `json:"item"`
	Score         float64             `json:"score"`
	MatchedFields []string            `json:"matched_fields"`
	Highlights    map[string][]string `json:"highlights,omitempty"`
}

type searchInfo struct {
	Page           int      `json:"page"`
	PerPage        int      `json:"per_page"`
	TotalCount     int      `json:"total_count"`
	TotalPages     int      `json:"total_pages"`
	Query          string   `json:"query"`
	SearchedFields []string `json:"searched_fields"`
}

func searchMatchToDTO(m result.Match) searchMatchDTO {
	return searchMatchDTO{
		Item:          recordToDTO(m.Record()),
		Score:         m.Score(),
		MatchedFields: m.MatchedFields(),
		Highlights:    m.Highlights(),
	}
}

func searchResponseToDTO(resp *searchuc.Response) ([]searchMatchDTO, searchInfo) {
	items := make([]searchMatchDTO, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		items = append(items, searchMatchToDTO(m))
	}
	info := searchInfo{
		Page:           resp.Page,
		PerPage:        resp.PerPage,
		TotalCount:     resp.TotalCount,
		TotalPages:     resp.TotalPages,
		Query:          resp.Query,
		SearchedFields: resp.SearchedFields,
	}
	if info.SearchedFields == nil {
		info.SearchedFields = []string{}
	}
	return items, info
}
