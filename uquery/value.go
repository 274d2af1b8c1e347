package uquery

import (
	"math"
	"reflect"
	"regexp"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
)

// normalizeValue 把调用方传入的值统一为 nil/bool/int64/float64/string/time.Time 或 []any
func normalizeValue(key string, op Op, value any) (any, error) {
	if op.IsArray() {
		arr, ok := normalizeArray(key, value)
		if !ok {
			return nil, ferr.ErrInvalidArgument(key, op.String()+" requires an array value")
		}
		return arr, nil
	}

	if re, ok := value.(*regexp.Regexp); ok {
		if op != OpLike || re == nil {
			return nil, ferr.ErrInvalidArgument(key, "regexp value only allowed for Like")
		}
		return re.String(), nil
	}

	v, err := normalizeScalar(key, value)
	if err != nil {
		return nil, err
	}
	if op == OpLike {
		if _, ok := v.(string); !ok {
			return nil, ferr.ErrInvalidArgument(key, "Like requires a string value")
		}
	}
	return v, nil
}

func normalizeArray(key string, value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if vals, ok := value.([]any); ok {
		res := make([]any, 0, len(vals))
		for _, v := range vals {
			s, err := normalizeScalar(key, v)
			if err != nil {
				return nil, false
			}
			res = append(res, s)
		}
		return res, true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		// []byte 当作字符串处理，不算数组
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}

	res := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		s, err := normalizeScalar(key, rv.Index(i).Interface())
		if err != nil {
			return nil, false
		}
		res = append(res, s)
	}
	return res, true
}

func normalizeScalar(key string, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintValue(key, uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintValue(key, v)
	case float32:
		return floatValue(key, float64(v))
	case float64:
		return floatValue(key, v)
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	}
	return nil, ferr.ErrInvalidArgument(key, "unsupported value type "+reflect.TypeOf(value).String())
}

func uintValue(key string, v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, ferr.ErrInvalidArgument(key, "integer overflows int64")
	}
	return int64(v), nil
}

func floatValue(key string, v float64) (any, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ferr.ErrInvalidArgument(key, "NaN and Inf cannot be encoded")
	}
	return v, nil
}

// IsTime 判断值是否为时间类型
func IsTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

// AllTime 判断数组非空且每个元素都是时间
func AllTime(vals []any) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if !IsTime(v) {
			return false
		}
	}
	return true
}
