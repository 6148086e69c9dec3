// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// timestampInputs are the text forms Coerce accepts for timestamp columns,
// most specific first.
var timestampInputs = []string{TimestampLayout, time.RFC3339Nano, "2006-01-02"}

// Coerce converts v to the Go type that represents t in a Row: string,
// int64, or UTC time.Time. nil stays nil. Hosts use it to normalise values
// that crossed a text or YAML boundary.
func (t Type) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeInteger:
		return coerceInteger(v)
	case TypeTimestamp:
		return coerceTimestamp(v)
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case time.Time:
			return x.UTC().Format(TimestampLayout), nil
		case []byte:
			return string(x), nil
		default:
			return fmt.Sprint(x), nil
		}
	}
}

func coerceInteger(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", x)
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > math.MaxInt64 {
			return nil, fmt.Errorf("%v is not an integer", x)
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", x)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot use %T as integer", v)
	}
}

func coerceTimestamp(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case []byte:
		return coerceTimestamp(string(x))
	case string:
		for _, layout := range timestampInputs {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts.UTC(), nil
			}
		}
		return nil, fmt.Errorf("%q is not a timestamp", x)
	default:
		return nil, fmt.Errorf("cannot use %T as timestamp", v)
	}
}

// Compare orders two values already coerced to the same column type. It
// returns -1, 0, or +1. nil sorts before everything.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case int64:
		y, _ := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	default:
		xs, ys := fmt.Sprint(a), fmt.Sprint(b)
		switch {
		case xs < ys:
			return -1
		case xs > ys:
			return 1
		}
		return 0
	}
}

// Matches reports whether v satisfies r. v and the bounds must share a
// column type.
func (r Range) Matches(v any) bool {
	if v == nil {
		return false
	}
	if r.Start != nil {
		c := Compare(v, r.Start)
		if c < 0 || (c == 0 && !r.IncludeStart) {
			return false
		}
	}
	if r.End != nil {
		c := Compare(v, r.End)
		if c > 0 || (c == 0 && !r.IncludeEnd) {
			return false
		}
	}
	return true
}
