// Package chi exposes the HTTP API: collection and record CRUD plus
// relevance search, mounted on a go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kshdotdev/sift/internal/domain"
	"github.com/kshdotdev/sift/internal/domain/search/mode"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	collectionuc "github.com/kshdotdev/sift/internal/usecase/collection"
	healthuc "github.com/kshdotdev/sift/internal/usecase/health"
	recorduc "github.com/kshdotdev/sift/internal/usecase/record"
	searchuc "github.com/kshdotdev/sift/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the API.
type Server struct {
	collections    *collectionuc.Service
	records        *recorduc.Service
	search         *searchuc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	minQueryLength int
	defaultPerPage int
	maxPerPage     int
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	records *recorduc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		collections:    collections,
		records:        records,
		search:         search,
		health:         health,
		logger:         logger,
		minQueryLength: request.DefaultMinQueryLength,
		defaultPerPage: request.DefaultPerPage,
		maxPerPage:     request.MaxPerPage,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeRecordNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrQueryTooShort, http.StatusBadRequest, codeQueryTooShort),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// WithMinQueryLength overrides the minimum search query length.
func (s *Server) WithMinQueryLength(n int) *Server {
	if n > 0 {
		s.minQueryLength = n
	}
	return s
}

// WithPagination mirrors the record service page size limits so that
// listing result_info reports the effective page size.
func (s *Server) WithPagination(defaultPerPage, maxPerPage int) *Server {
	if defaultPerPage > 0 {
		s.defaultPerPage = defaultPerPage
	}
	if maxPerPage > 0 {
		s.maxPerPage = maxPerPage
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1/collections", func(r chi.Router) {
		r.Post("/", s.CreateCollection)
		r.Get("/", s.ListCollections)

		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", s.GetCollection)
			r.Delete("/", s.DeleteCollection)

			r.Get("/search", s.SearchRecords)

			r.Route("/records", func(r chi.Router) {
				r.Post("/", s.CreateRecord)
				r.Get("/", s.ListRecords)
				r.Put("/{id}", s.UpsertRecord)
				r.Get("/{id}", s.GetRecord)
				r.Delete("/{id}", s.DeleteRecord)
			})
		})
	})
}

// CreateCollection handles POST /collections.
func (s *Server) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Collection name is required")
		return
	}

	fields, err := schemaFieldsFromDTO(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	col, err := s.collections.Create(r.Context(), req.Name, fields, searchSpecFromDTO(req.Search))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeResult(w, http.StatusCreated, collectionToDTO(col), nil)
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]collectionDTO, 0, len(cols))
	for _, c := range cols {
		items = append(items, collectionToDTO(c))
	}
	writeResult(w, http.StatusOK, items, nil)
}

// GetCollection handles GET /collections/{collection}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeResult(w, http.StatusOK, collectionToDTO(col), nil)
}

// DeleteCollection handles DELETE /collections/{collection}.
func (s *Server) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.collections.Delete(r.Context(), chi.URLParam(r, "collection")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertRecord handles PUT /collections/{collection}/records/{id}.
func (s *Server) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	var req upsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, created, err := s.records.Upsert(r.Context(), collection, id, req.Data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/collections/%s/records/%s", collection, id))
	}
	writeResult(w, status, recordToDTO(rec), nil)
}

// CreateRecord handles POST /collections/{collection}/records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req upsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := s.records.Create(r.Context(), collection, req.Data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/collections/%s/records/%s", collection, rec.ID()))
	writeResult(w, http.StatusCreated, recordToDTO(rec), nil)
}

// GetRecord handles GET /collections/{collection}/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeResult(w, http.StatusOK, recordToDTO(rec), nil)
}

// DeleteRecord handles DELETE /collections/{collection}/records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecords handles GET /collections/{collection}/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	perPage, err := queryInt(r, "per_page", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	recs, total, err := s.records.List(r.Context(), chi.URLParam(r, "collection"), page, perPage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}
	if page <= 0 {
		page = 1
	}

	items := make([]recordDTO, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordToDTO(rec))
	}
	writeResult(w, http.StatusOK, items, listInfo{
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// SearchRecords handles GET /collections/{collection}/search.
func (s *Server) SearchRecords(w http.ResponseWriter, r *http.Request) {
	req, err := s.searchRequestFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), chi.URLParam(r, "collection"), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items, info := searchResponseToDTO(resp)
	writeResult(w, http.StatusOK, items, info)
}

// searchRequestFromQuery parses and validates search query parameters.
func (s *Server) searchRequestFromQuery(r *http.Request) (*request.Request, error) {
	q := r.URL.Query()

	var fields []string
	if raw := q.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	minScore := 0.0
	if raw := q.Get("min_score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid min_score %q", domain.ErrInvalidSchema, raw)
		}
		minScore = parsed
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSchema, err)
	}
	perPage, err := queryInt(r, "per_page", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSchema, err)
	}
	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}

	req, err := request.New(
		q.Get("q"),
		fields,
		mode.Mode(q.Get("mode")),
		q.Get("highlight") == "true",
		minScore,
		page, perPage,
		s.minQueryLength,
	)
	if err != nil {
		if errors.Is(err, domain.ErrQueryTooShort) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSchema, err)
	}
	return &req, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, status int, result, info any) {
	writeJSON(w, status, envelope{Result: result, ResultInfo: info})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecordNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrQueryTooShort,
		domain.ErrInvalidSchema,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
