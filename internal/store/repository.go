package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/punchamoorthee/ledgerview/internal/domain"
	"github.com/punchamoorthee/ledgerview/internal/query"
)

// Model is a record with an integer primary key.
type Model interface {
	query.Record
	PrimaryKey() int64
}

// Repository is an in-memory, identity-keyed store. Records live in an
// ordered arena; byPK maps each primary key to its arena position. Both are
// only ever changed together under mu.
type Repository[T Model] struct {
	mu     sync.RWMutex
	models []T
	byPK   map[int64]int
	log    *slog.Logger
}

// NewRepository seeds a repository. Later seed records replace earlier ones
// with the same key.
func NewRepository[T Model](log *slog.Logger, seed []T) *Repository[T] {
	r := &Repository[T]{
		models: make([]T, 0, len(seed)),
		byPK:   make(map[int64]int, len(seed)),
		log:    log,
	}
	for _, m := range seed {
		// Seeding cannot desync the index; an error here is a bug.
		if err := r.upsert(m); err != nil {
			panic(err)
		}
	}
	return r
}

// FindAllAndCount runs the query pipeline over the current records.
// Total is the number of records that passed the filters.
func (r *Repository[T]) FindAllAndCount(ctx context.Context, opts query.Options) (query.Rows[T], error) {
	if err := ctx.Err(); err != nil {
		return query.Rows[T]{}, err
	}
	if err := opts.Validate(); err != nil {
		return query.Rows[T]{}, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	return query.Run(r.snapshot(), opts, r.log), nil
}

// First returns the first record matching opts. ok is false when nothing
// matches; that is not an error.
func (r *Repository[T]) First(ctx context.Context, opts query.OneOptions) (T, bool, error) {
	var zero T
	res, err := r.FindAllAndCount(ctx, query.Options{
		Filters:  opts.Filters,
		Sorts:    opts.Sorts,
		SortMode: opts.SortMode,
		Limit:    query.IntPtr(1),
		Offset:   query.IntPtr(0),
	})
	if err != nil {
		return zero, false, err
	}
	if len(res.Rows) == 0 {
		return zero, false, nil
	}
	return res.Rows[0], true, nil
}

// FirstOrFail is First, failing with domain.ErrNotFound when nothing matches.
func (r *Repository[T]) FirstOrFail(ctx context.Context, opts query.OneOptions) (T, error) {
	m, ok, err := r.First(ctx, opts)
	if err != nil {
		return m, err
	}
	if !ok {
		return m, domain.ErrNotFound
	}
	return m, nil
}

// FindByPK looks a record up through the index.
func (r *Repository[T]) FindByPK(pk int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	pos, ok := r.byPK[pk]
	if !ok || pos >= len(r.models) {
		return zero, false
	}
	return r.models[pos], true
}

// Save replaces the record with the same primary key, or appends it.
func (r *Repository[T]) Save(ctx context.Context, m T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.upsert(m); err != nil {
		r.log.Error("repository index out of sync",
			slog.Int64("pk", m.PrimaryKey()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

func (r *Repository[T]) upsert(m T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pk := m.PrimaryKey()
	if pos, ok := r.byPK[pk]; ok {
		if pos >= len(r.models) || r.models[pos].PrimaryKey() != pk {
			return fmt.Errorf("%w: key %d indexed at %d but not stored there", domain.ErrInternal, pk, pos)
		}
		r.models[pos] = m
		return nil
	}
	r.models = append(r.models, m)
	r.byPK[pk] = len(r.models) - 1
	return nil
}

// Len is the number of stored records.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

func (r *Repository[T]) snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.models)
}
