package sift

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	engine          string // "memory" or "bleve"
	minQueryLength  int
	defaultPageSize int
	maxPageSize     int
	maxSnippetLen   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis-compatible instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithAddrs sets the database addresses directly (cluster or sentinel setups).
func WithAddrs(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
	})
}

// WithAuth sets database credentials.
func WithAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical database number.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithBleve switches the search engine to the bleve-backed full-text
// index. The default is the in-memory scorer.
func WithBleve() Option {
	return optionFunc(func(c *clientConfig) {
		c.engine = "bleve"
	})
}

// WithMinQueryLength overrides the minimum search query length.
// Default: 2.
func WithMinQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minQueryLength = n
	})
}

// WithPagination configures record listing page size limits.
// Defaults: 20 per page, 100 max.
func WithPagination(defaultPageSize, maxPageSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultPageSize
		c.maxPageSize = maxPageSize
	})
}

// WithMaxSnippetLen bounds highlight snippet length. Default: 160.
func WithMaxSnippetLen(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSnippetLen = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
