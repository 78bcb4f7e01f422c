package value

import "time"

// Typed accessors. Each returns the underlying Go value and true when the
// Value is of the matching kind, and the zero value and false otherwise,
// including for Nil.

func AsString(v Value) (string, bool) {
	if s, ok := v.(String); ok {
		return string(s), true
	}
	return "", false
}

func AsDouble(v Value) (float64, bool) {
	if d, ok := v.(Double); ok {
		return float64(d), true
	}
	return 0, false
}

func AsBool(v Value) (bool, bool) {
	if b, ok := v.(Bool); ok {
		return bool(b), true
	}
	return false, false
}

func AsLong(v Value) (int64, bool) {
	if l, ok := v.(Long); ok {
		return int64(l), true
	}
	return 0, false
}

func AsUnsignedLong(v Value) (uint64, bool) {
	if u, ok := v.(UnsignedLong); ok {
		return uint64(u), true
	}
	return 0, false
}

func AsDuration(v Value) (time.Duration, bool) {
	if d, ok := v.(Duration); ok {
		return time.Duration(d), true
	}
	return 0, false
}

func AsBinary(v Value) ([]byte, bool) {
	if b, ok := v.(Binary); ok {
		return b, true
	}
	return nil, false
}

func AsTime(v Value) (time.Time, bool) {
	if t, ok := v.(Time); ok {
		return t.T, true
	}
	return time.Time{}, false
}

// IsNil reports whether v is the null value.
func IsNil(v Value) bool {
	_, ok := v.(nil_)
	return ok
}
