// Package store implements the local record store: each collection is one
// JSON array persisted as a single blob in the injected storage. Every
// mutation loads the full array, changes a copy, and writes the full array
// back. There is no cross-process locking; concurrent writers from separate
// processes are last-writer-wins.
package store

import (
	"context"
	"encoding/json"
	"time"

	xerrors "fittech-client/internal/pkg/errors"
	"fittech-client/internal/storage"

	"go.uber.org/zap"
)

// Page is the envelope returned by paginated listings.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

const defaultLimit = 10

// Collection provides CRUD over one entity type persisted under a single
// storage key. Ids come from the shared Generator so they stay unique across
// user partitions of the same entity type.
type Collection[T any, P record[T]] struct {
	st      storage.Storage
	ids     *Generator
	key     string
	counter string
	logger  *zap.Logger

	// BeforeAppend, when set, runs inside Create after the id and timestamps
	// are assigned and before the record joins the collection. Services use
	// it for per-collection defaults such as unique slugs.
	BeforeAppend func(existing []T, rec P)
}

func NewCollection[T any, P record[T]](st storage.Storage, ids *Generator, key, counter string, logger *zap.Logger) *Collection[T, P] {
	return &Collection[T, P]{st: st, ids: ids, key: key, counter: counter, logger: logger}
}

// Key returns the storage key this collection persists under.
func (c *Collection[T, P]) Key() string { return c.key }

// All returns every record matching the filter, in insertion order. A nil
// filter matches everything. Read failures degrade to an empty collection.
func (c *Collection[T, P]) All(ctx context.Context, match func(T) bool) []T {
	recs := c.load(ctx)
	if match == nil {
		return recs
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// List applies the filter then paginates. Pages are 1-indexed; page and
// limit fall back to 1 and the default page size when out of range.
// TotalPages is never below 1, even for an empty result.
func (c *Collection[T, P]) List(ctx context.Context, match func(T) bool, page, limit int) Page[T] {
	recs := c.All(ctx, match)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total := len(recs)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page[T]{
		Data:       recs[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Get returns the record with the given id.
func (c *Collection[T, P]) Get(ctx context.Context, id int64) (T, error) {
	recs := c.load(ctx)
	for i := range recs {
		if P(&recs[i]).meta().ID == id {
			return recs[i], nil
		}
	}
	var zero T
	return zero, xerrors.ErrNotFound
}

// Create assigns a fresh id and timestamps, appends the record, and
// persists the collection.
func (c *Collection[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	recs := c.load(ctx)

	id, err := c.ids.Next(ctx, c.counter)
	if err != nil {
		return zero, err
	}

	now := time.Now()
	m := P(&rec).meta()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	if c.BeforeAppend != nil {
		c.BeforeAppend(recs, &rec)
	}

	recs = append(recs, rec)
	if err := c.save(ctx, recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update shallow-merges the patch over the stored record. Only fields
// present in the patch's JSON encoding are overwritten; everything else
// survives. The id and creation timestamp cannot be patched.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, patch any) (T, error) {
	var zero T

	data, err := json.Marshal(patch)
	if err != nil {
		return zero, xerrors.Wrap(err, "failed to encode patch")
	}

	recs := c.load(ctx)
	for i := range recs {
		m := P(&recs[i]).meta()
		if m.ID != id {
			continue
		}
		created := m.CreatedAt
		if err := json.Unmarshal(data, &recs[i]); err != nil {
			return zero, xerrors.Wrap(err, "failed to apply patch")
		}
		m = P(&recs[i]).meta()
		m.ID = id
		m.CreatedAt = created
		m.UpdatedAt = time.Now()
		if err := c.save(ctx, recs); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, xerrors.ErrNotFound
}

// Put replaces the stored record with the same id wholesale, refreshing
// updated_at. Nested-array operations (variants, images) go through here
// after mutating the parent record in place.
func (c *Collection[T, P]) Put(ctx context.Context, rec T) (T, error) {
	var zero T
	id := P(&rec).meta().ID

	recs := c.load(ctx)
	for i := range recs {
		if P(&recs[i]).meta().ID != id {
			continue
		}
		P(&rec).meta().UpdatedAt = time.Now()
		recs[i] = rec
		if err := c.save(ctx, recs); err != nil {
			return zero, err
		}
		return rec, nil
	}
	return zero, xerrors.ErrNotFound
}

// Delete removes the record with the given id and persists the remainder.
func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	recs := c.load(ctx)
	for i := range recs {
		if P(&recs[i]).meta().ID != id {
			continue
		}
		recs = append(recs[:i], recs[i+1:]...)
		return c.save(ctx, recs)
	}
	return xerrors.ErrNotFound
}

func (c *Collection[T, P]) load(ctx context.Context) []T {
	data, err := c.st.Get(ctx, c.key)
	if err != nil {
		if err != storage.ErrNotFound {
			c.logger.Warn("collection read failed, degrading to empty",
				zap.String("key", c.key), zap.Error(err))
		}
		return nil
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		c.logger.Warn("collection blob corrupt, degrading to empty",
			zap.String("key", c.key), zap.Error(err))
		return nil
	}
	return recs
}

func (c *Collection[T, P]) save(ctx context.Context, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return xerrors.Wrap(err, "failed to encode collection")
	}
	if err := c.st.Set(ctx, c.key, data); err != nil {
		c.logger.Error("collection write failed",
			zap.String("key", c.key), zap.Error(err))
		return xerrors.Wrap(xerrors.ErrStorage, err.Error())
	}
	return nil
}
