package query

import (
	"fmt"
	"strings"
)

// Direction orders a sort key.
type Direction string

const (
	Asc  Direction = "Asc"
	Desc Direction = "Desc"
)

// SortMode selects how a list of sort keys is applied.
type SortMode string

const (
	// SortSequential re-sorts the working set once per key, in order, so the
	// last key decides the final order and earlier keys only break its ties.
	SortSequential SortMode = "sequential"
	// SortCascade sorts once, comparing keys in order until one differs.
	SortCascade SortMode = "cascade"
)

// Sort is a single (field, direction) key.
type Sort struct {
	Field string
	Dir   Direction
}

// Options describes a collection query. Nil Limit or Offset means unset.
type Options struct {
	Filters  map[string]Value
	Sorts    []Sort
	Limit    *int
	Offset   *int
	SortMode SortMode
}

// OneOptions is the subset of Options used by single-row lookups.
type OneOptions struct {
	Filters  map[string]Value
	Sorts    []Sort
	SortMode SortMode
}

// Where builds filter-only options for a single lookup.
func Where(field string, v Value) OneOptions {
	return OneOptions{Filters: map[string]Value{field: v}}
}

// Validate rejects negative paging, unknown directions and unknown sort modes.
func (o Options) Validate() error {
	if o.Limit != nil && *o.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", *o.Limit)
	}
	if o.Offset != nil && *o.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", *o.Offset)
	}
	for _, s := range o.Sorts {
		if strings.TrimSpace(s.Field) == "" {
			return fmt.Errorf("sort field must not be empty")
		}
		if s.Dir != Asc && s.Dir != Desc {
			return fmt.Errorf("sort direction for %q must be Asc or Desc, got %q", s.Field, s.Dir)
		}
	}
	switch o.SortMode {
	case "", SortSequential, SortCascade:
	default:
		return fmt.Errorf("unknown sort mode %q", o.SortMode)
	}
	return nil
}

// WithFilter returns a copy of o with field constrained to v.
// The receiver's filter map is not modified.
func (o Options) WithFilter(field string, v Value) Options {
	next := make(map[string]Value, len(o.Filters)+1)
	for k, fv := range o.Filters {
		next[k] = fv
	}
	next[field] = v
	o.Filters = next
	return o
}

// IntPtr is a convenience for building Options literals.
func IntPtr(n int) *int { return &n }
