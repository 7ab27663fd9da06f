package schema

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Konsultn-Engineering/aql/types"
)

// Convert normalizes a value scanned from a driver to the Go type matching
// a column's root kind. Drivers disagree on representations (MySQL returns
// []byte for text, SQLite stores booleans as integers), so rows pass
// through here before they reach a Record. nil stays nil.
func Convert(kind types.Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case types.String, types.Text, types.UUID, types.JSON:
		switch x := v.(type) {
		case []byte:
			return string(x), nil
		case string:
			return x, nil
		}
		return fmt.Sprint(v), nil
	case types.Int:
		return toInt64(v)
	case types.Float:
		return toFloat64(v)
	case types.Bool:
		return toBool(v)
	case types.Bytes:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			return []byte(x), nil
		}
	case types.Date, types.Time, types.DateTime:
		return toTime(v)
	default:
		return v, nil
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, kind)
}

func toInt64(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return nil, fmt.Errorf("cannot convert %T to int", v)
}

func toFloat64(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	}
	return nil, fmt.Errorf("cannot convert %T to float", v)
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case []byte:
		return strconv.ParseBool(string(x))
	case string:
		return strconv.ParseBool(x)
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

func toTime(v any) (any, error) {
	var s string
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		return nil, fmt.Errorf("cannot convert %T to time", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}
