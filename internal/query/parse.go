package query

import (
	"encoding/json"
)

// SortInput is the wire form of a sort key.
type SortInput struct {
	Field string    `json:"field"`
	Dir   Direction `json:"dir"`
}

// Input is the wire form of a collection query.
type Input struct {
	Filters  map[string]any `json:"filters,omitempty"`
	Sorts    []SortInput    `json:"sorts,omitempty"`
	Limit    *int           `json:"limit,omitempty"`
	Offset   *int           `json:"offset,omitempty"`
	SortMode SortMode       `json:"sort_mode,omitempty"`
}

// Parse converts wire input into validated Options. A nil input is an
// unconstrained query.
func Parse(in *Input) (Options, error) {
	if in == nil {
		return Options{}, nil
	}
	opts := Options{
		Limit:    in.Limit,
		Offset:   in.Offset,
		SortMode: in.SortMode,
	}
	if in.Filters != nil {
		opts.Filters = make(map[string]Value, len(in.Filters))
		for field, raw := range in.Filters {
			opts.Filters[field] = FilterValue(raw)
		}
	}
	for _, s := range in.Sorts {
		opts.Sorts = append(opts.Sorts, Sort{Field: s.Field, Dir: s.Dir})
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// FilterValue classifies a decoded JSON value.
func FilterValue(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case string:
		return Text(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Int(int64(v))
	case int64:
		return Int(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return Number(f)
		}
		return Unsupported(raw)
	default:
		return Unsupported(raw)
	}
}
