package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kshdotdev/sift/internal/db"
	"github.com/kshdotdev/sift/internal/domain"
	domcol "github.com/kshdotdev/sift/internal/domain/collection"
)

// store is the consumer interface for collections (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/collection.Repository. Each collection lives
// in one JSON document; a global set of names serves as the registry.
type Repo struct {
	store store
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a collection and registers its name. On registry
// failure, rolls back the JSON.SET via DEL.
func (r *Repo) Create(ctx context.Context, col domcol.Collection) error {
	name := col.Name()
	key := metaKey(name)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	data, err := collectionToJSON(col)
	if err != nil {
		return err
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set collection %s: %w", name, err)
	}

	if err := r.store.SAdd(ctx, registryKey(), name); err != nil {
		cleanupErr := r.store.Del(ctx, key)
		return errors.Join(fmt.Errorf("register collection %s: %w", name, err), cleanupErr)
	}

	return nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	raw, err := r.store.JSONGet(ctx, metaKey(name), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcol.Collection{}, domain.ErrNotFound
		}
		return domcol.Collection{}, fmt.Errorf("json.get collection %s: %w", name, err)
	}
	return collectionFromJSON(name, raw)
}

// List returns all collections sorted by creation time.
func (r *Repo) List(ctx context.Context) ([]domcol.Collection, error) {
	names, err := r.store.SMembers(ctx, registryKey())
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	if len(names) == 0 {
		return []domcol.Collection{}, nil
	}

	collections := make([]domcol.Collection, 0, len(names))
	for _, name := range names {
		col, err := r.Get(ctx, name)
		if err != nil {
			// The registry can race a delete; skip the gap.
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		collections = append(collections, col)
	}

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt() < collections[j].CreatedAt()
	})
	return collections, nil
}

// Delete removes a collection, its records, and its registry entry.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := metaKey(name)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	ids, err := r.store.SMembers(ctx, idsKey(name))
	if err != nil {
		return fmt.Errorf("list record ids %s: %w", name, err)
	}
	for _, id := range ids {
		if err := r.store.Del(ctx, recordKey(name, id)); err != nil {
			return fmt.Errorf("del record %s: %w", id, err)
		}
	}
	if err := r.store.Del(ctx, idsKey(name)); err != nil {
		return fmt.Errorf("del record index %s: %w", name, err)
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del collection %s: %w", name, err)
	}
	if err := r.store.SRem(ctx, registryKey(), name); err != nil {
		return fmt.Errorf("deregister collection %s: %w", name, err)
	}
	return nil
}

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

func registryKey() string {
	return domain.KeyPrefix + "collections"
}

func idsKey(name string) string {
	return fmt.Sprintf("%s%s:ids", domain.KeyPrefix, name)
}

func recordKey(collection, id string) string {
	return fmt.Sprintf("%s%s:record:%s", domain.KeyPrefix, collection, id)
}
