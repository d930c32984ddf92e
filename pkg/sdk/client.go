package sift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kshdotdev/sift/internal/db"
	dbRedis "github.com/kshdotdev/sift/internal/db/redis"
	domcol "github.com/kshdotdev/sift/internal/domain/collection"
	"github.com/kshdotdev/sift/internal/domain/collection/schema"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
	"github.com/kshdotdev/sift/internal/domain/search/field"
	"github.com/kshdotdev/sift/internal/domain/search/request"
	bleveEngine "github.com/kshdotdev/sift/internal/engine/bleve"
	"github.com/kshdotdev/sift/internal/engine/memory"
	collectionrepo "github.com/kshdotdev/sift/internal/repository/collection"
	recordrepo "github.com/kshdotdev/sift/internal/repository/record"
	collectionuc "github.com/kshdotdev/sift/internal/usecase/collection"
	healthuc "github.com/kshdotdev/sift/internal/usecase/health"
	recorduc "github.com/kshdotdev/sift/internal/usecase/record"
	searchuc "github.com/kshdotdev/sift/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the services.
type collectionUseCase interface {
	Create(ctx context.Context, name string, fields []schema.Field, spec field.Spec) (domcol.Collection, error)
	Get(ctx context.Context, name string) (domcol.Collection, error)
	List(ctx context.Context) ([]domcol.Collection, error)
	Delete(ctx context.Context, name string) error
}

type recordUseCase interface {
	Upsert(ctx context.Context, col, id string, data map[string]any) (domrec.Record, bool, error)
	Create(ctx context.Context, col string, data map[string]any) (domrec.Record, error)
	Get(ctx context.Context, col, id string) (domrec.Record, error)
	Delete(ctx context.Context, col, id string) error
	List(ctx context.Context, col string, page, perPage int) ([]domrec.Record, int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, col string, req *request.Request) (*searchuc.Response, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the sift SDK entry point.
type Client struct {
	store          db.Store
	collSvc        collectionUseCase
	recSvc         recordUseCase
	searchSvc      searchUseCase
	healthSvc      healthUseCase
	minQueryLength int
	obs            *observer
}

// New creates a sift Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{engine: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("sift: database address required (use WithRedis or WithAddrs)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("sift: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("sift: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	collRepo := collectionrepo.New(store)
	recRepo := recordrepo.New(store)

	var (
		engine  searchuc.Engine
		indexer recorduc.Indexer
	)
	if cfg.engine == "bleve" {
		be := bleveEngine.New(recRepo, bleveEngine.Options{MaxSnippetLen: cfg.maxSnippetLen})
		engine = be
		indexer = be
	} else {
		engine = memory.New(recRepo, memory.Options{MaxSnippetLen: cfg.maxSnippetLen})
	}

	collSvc := collectionuc.New(collRepo)
	recSvc := recorduc.New(recRepo, collSvc)
	if cfg.defaultPageSize > 0 || cfg.maxPageSize > 0 {
		recSvc = recSvc.WithPagination(cfg.defaultPageSize, cfg.maxPageSize)
	}
	if indexer != nil {
		recSvc = recSvc.WithIndexer(indexer)
	}
	searchSvc := searchuc.New(collSvc, engine)
	healthSvc := healthuc.New(store)

	return &Client{
		store:          store,
		collSvc:        collSvc,
		recSvc:         recSvc,
		searchSvc:      searchSvc,
		healthSvc:      healthSvc,
		minQueryLength: cfg.minQueryLength,
		obs:            obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Collections returns the collection management service.
func (c *Client) Collections() *CollectionService {
	return &CollectionService{svc: c.collSvc, obs: c.obs}
}

// Records returns the record service for a given collection.
func (c *Client) Records(collection string) *RecordService {
	return &RecordService{collection: collection, svc: c.recSvc, obs: c.obs}
}

// Search returns the search service for a given collection.
func (c *Client) Search(collection string) *SearchService {
	return &SearchService{
		collection:     collection,
		svc:            c.searchSvc,
		minQueryLength: c.minQueryLength,
		obs:            c.obs,
	}
}

// Health runs component health checks and returns a report.
func (c *Client) Health(ctx context.Context) HealthReport {
	rep := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(rep.Checks))
	for name, res := range rep.Checks {
		checks[name] = string(res)
	}
	return HealthReport{Status: string(rep.Status), Checks: checks}
}
