package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kshdotdev/sift/internal/db"
	"github.com/kshdotdev/sift/internal/domain"
	domrec "github.com/kshdotdev/sift/internal/domain/record"
)

// store is the consumer interface for records (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/record.Repository. Each record lives in one
// JSON document; a per-collection set of ids serves as the secondary
// index for listing.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a record. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, collectionName string, rec domrec.Record) (bool, error) {
	key := recordKey(collectionName, rec.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	data, err := json.Marshal(recordToDoc(rec))
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, idsKey(collectionName), rec.ID()); err != nil {
		return false, fmt.Errorf("index record id %s: %w", rec.ID(), err)
	}

	return !exists, nil
}

// Get returns a record by id.
func (r *Repo) Get(ctx context.Context, collectionName, id string) (domrec.Record, error) {
	raw, err := r.store.JSONGet(ctx, recordKey(collectionName, id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Record{}, domain.ErrRecordNotFound
		}
		return domrec.Record{}, fmt.Errorf("json.get record %s: %w", id, err)
	}
	return parseJSONGetResult(id, raw)
}

// Delete removes a record and its id index entry.
func (r *Repo) Delete(ctx context.Context, collectionName, id string) error {
	key := recordKey(collectionName, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrRecordNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.SRem(ctx, idsKey(collectionName), id); err != nil {
		return fmt.Errorf("deindex record id %s: %w", id, err)
	}
	return nil
}

// List returns one page of records in lexicographic id order plus the
// total record count.
func (r *Repo) List(ctx context.Context, collectionName string, page, perPage int) ([]domrec.Record, int, error) {
	total, err := r.store.SCard(ctx, idsKey(collectionName))
	if err != nil {
		return nil, 0, fmt.Errorf("count records %s: %w", collectionName, err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	ids, err := r.sortedIDs(ctx, collectionName)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if offset >= len(ids) {
		return nil, int(total), nil
	}
	end := offset + perPage
	if end > len(ids) {
		end = len(ids)
	}

	recs, err := r.fetch(ctx, collectionName, ids[offset:end])
	if err != nil {
		return nil, 0, err
	}
	return recs, int(total), nil
}

// ListAll returns every record of a collection in lexicographic id
// order. Search engines use it to enumerate candidates.
func (r *Repo) ListAll(ctx context.Context, collectionName string) ([]domrec.Record, error) {
	ids, err := r.sortedIDs(ctx, collectionName)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, collectionName, ids)
}

func (r *Repo) sortedIDs(ctx context.Context, collectionName string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, idsKey(collectionName))
	if err != nil {
		return nil, fmt.Errorf("list record ids %s: %w", collectionName, err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repo) fetch(ctx context.Context, collectionName string, ids []string) ([]domrec.Record, error) {
	recs := make([]domrec.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, collectionName, id)
		if err != nil {
			// A concurrent delete can race the id index; skip the gap.
			if errors.Is(err, domain.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func recordKey(collection, id string) string {
	return fmt.Sprintf("%s%s:record:%s", domain.KeyPrefix, collection, id)
}

func idsKey(collection string) string {
	return fmt.Sprintf("%s%s:ids", domain.KeyPrefix, collection)
}
