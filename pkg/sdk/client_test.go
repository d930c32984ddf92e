package sift

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	dbRedis "github.com/kshdotdev/sift/internal/db/redis"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestOptions(t *testing.T) {
	cfg := &clientConfig{engine: "memory"}
	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithAuth("admin", "secret"),
		WithDB(3),
		WithBleve(),
		WithMinQueryLength(3),
		WithPagination(25, 200),
		WithMaxSnippetLen(80),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("unexpected addrs: %v", cfg.addrs)
	}
	if cfg.username != "admin" || cfg.db != 3 {
		t.Errorf("unexpected auth/db: %s/%d", cfg.username, cfg.db)
	}
	if cfg.engine != "bleve" {
		t.Errorf("engine = %q, want bleve", cfg.engine)
	}
	if cfg.minQueryLength != 3 || cfg.defaultPageSize != 25 || cfg.maxPageSize != 200 {
		t.Errorf("unexpected limits: %+v", cfg)
	}
	if cfg.maxSnippetLen != 80 {
		t.Errorf("maxSnippetLen = %d, want 80", cfg.maxSnippetLen)
	}
}

func TestWireClient_DefaultsToMemoryEngine(t *testing.T) {
	cfg := &clientConfig{engine: "memory"}
	client := wireClient(&dbRedis.Store{}, cfg, nil)
	if client.collSvc == nil || client.recSvc == nil || client.searchSvc == nil {
		t.Fatal("services not wired")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("ping", time.Now(), nil)
	obs.observe("ping", time.Now(), errors.New("boom"))
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(slog.Default(), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obs.observe("record.upsert", time.Now(), nil)
	obs.observe("record.upsert", time.Now(), errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected registered metrics")
	}
}

func TestObserver_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second register should reuse collectors: %v", err)
	}
}
