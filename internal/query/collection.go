package query

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"
)

var unsupportedFilters = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_filter_unsupported_total",
	Help: "Filter keys skipped because their value shape is not supported",
}, []string{"field"})

// Record is anything the engine can read attributes from.
type Record interface {
	Attribute(field string) Value
}

// Metadata carries counts that survive every pipeline stage.
type Metadata struct {
	PrefilterCount  int
	PostfilterCount int
}

// Rows is a page of results plus the post-filter total.
type Rows[T any] struct {
	Rows  []T
	Total int
}

// Collection is an immutable, ordered view over records. Every stage
// returns a new Collection and leaves the receiver untouched.
type Collection[T Record] struct {
	items []T
	meta  Metadata
	log   *slog.Logger
}

// New builds a collection over a private copy of items.
func New[T Record](items []T, log *slog.Logger) *Collection[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Collection[T]{
		items: slices.Clone(items),
		meta:  Metadata{PrefilterCount: len(items), PostfilterCount: len(items)},
		log:   log,
	}
}

func derive[T Record](from *Collection[T], items []T, meta Metadata) *Collection[T] {
	return &Collection[T]{items: items, meta: meta, log: from.log}
}

// Filter keeps records matching every filter key.
func (c *Collection[T]) Filter(filters map[string]Value) *Collection[T] {
	if len(filters) == 0 {
		return c
	}
	next := slices.Clone(c.items)
	for _, field := range slices.Sorted(maps.Keys(filters)) {
		want := filters[field]
		switch want.Kind() {
		case KindAbsent:
			continue
		case KindText, KindNumber, KindNull:
			next = slices.DeleteFunc(next, func(r T) bool {
				return !matches(r.Attribute(field), want)
			})
		default:
			unsupportedFilters.WithLabelValues(field).Inc()
			c.log.Warn("unhandled filter value, skipping",
				slog.String("field", field),
				slog.Any("value", want.Raw()),
			)
		}
	}
	return derive(c, next, Metadata{
		PrefilterCount:  c.meta.PrefilterCount,
		PostfilterCount: len(next),
	})
}

func matches(attr, want Value) bool {
	switch want.Kind() {
	case KindText:
		if attr.IsNullish() {
			return false
		}
		needle, _ := want.AsText()
		return strings.Contains(fold(attr.String()), fold(needle))
	case KindNumber:
		if attr.IsNullish() {
			return false
		}
		n, ok := attr.Coerce()
		if !ok {
			return false
		}
		w, _ := want.Coerce()
		return n == w
	case KindNull:
		return attr.IsNullish()
	}
	return true
}

// Sort orders the collection by sorts according to mode. An empty mode
// means SortSequential.
func (c *Collection[T]) Sort(sorts []Sort, mode SortMode) *Collection[T] {
	if len(sorts) == 0 {
		return c
	}
	next := slices.Clone(c.items)
	if mode == SortCascade {
		slices.SortStableFunc(next, func(a, b T) int {
			for _, s := range sorts {
				if r := compareBy(a, b, s); r != 0 {
					return r
				}
			}
			return 0
		})
	} else {
		for _, s := range sorts {
			slices.SortStableFunc(next, func(a, b T) int {
				return compareBy(a, b, s)
			})
		}
	}
	return derive(c, next, c.meta)
}

func compareBy[T Record](a, b T, s Sort) int {
	r := Compare(a.Attribute(s.Field), b.Attribute(s.Field))
	if s.Dir == Desc {
		return -r
	}
	return r
}

// Compare orders two attribute values in ascending order:
// text against text compares case-insensitively; a number against a value
// that cannot be read as a number puts the number first; numbers compare
// numerically; otherwise null and absent values go last and anything else
// is equal.
func Compare(a, b Value) int {
	at, aText := a.AsText()
	bt, bText := b.AsText()
	switch {
	case aText && bText:
		return strings.Compare(fold(at), fold(bt))
	case a.Kind() == KindNumber:
		an, _ := a.Coerce()
		bn, ok := b.Coerce()
		if !ok {
			return -1
		}
		return cmp.Compare(an, bn)
	case b.Kind() == KindNumber:
		bn, _ := b.Coerce()
		an, ok := a.Coerce()
		if !ok {
			return 1
		}
		return cmp.Compare(an, bn)
	}
	switch aNull, bNull := a.IsNullish(), b.IsNullish(); {
	case aNull && !bNull:
		return 1
	case !aNull && bNull:
		return -1
	}
	return 0
}

// Limit keeps at most n leading records. A nil n is a no-op.
func (c *Collection[T]) Limit(n *int) *Collection[T] {
	if n == nil {
		return c
	}
	end := min(max(*n, 0), len(c.items))
	return derive(c, slices.Clone(c.items[:end]), c.meta)
}

// Offset drops the first n records. A nil n is a no-op.
func (c *Collection[T]) Offset(n *int) *Collection[T] {
	if n == nil {
		return c
	}
	start := min(max(*n, 0), len(c.items))
	return derive(c, slices.Clone(c.items[start:]), c.meta)
}

// FindAll returns a copy of the records in the view.
func (c *Collection[T]) FindAll() []T {
	return slices.Clone(c.items)
}

// FindAllAndCount returns the records with the post-filter total.
func (c *Collection[T]) FindAllAndCount() Rows[T] {
	return Rows[T]{Rows: c.FindAll(), Total: c.meta.PostfilterCount}
}

// Metadata returns the view's counts.
func (c *Collection[T]) Metadata() Metadata { return c.meta }

// Len is the number of records in the view.
func (c *Collection[T]) Len() int { return len(c.items) }

// Run filters and sorts items, then returns the window
// items[offset:offset+limit] with the post-filter total. The offset stage
// runs before the limit stage so the window starts at offset.
func Run[T Record](items []T, opts Options, log *slog.Logger) Rows[T] {
	return New(items, log).
		Filter(opts.Filters).
		Sort(opts.Sorts, opts.SortMode).
		Offset(opts.Offset).
		Limit(opts.Limit).
		FindAllAndCount()
}

// fold builds a fresh Caser per call; Casers carry state and must not be shared.
func fold(s string) string {
	return cases.Fold().String(s)
}
