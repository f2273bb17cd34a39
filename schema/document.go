package schema

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Copy returns a deep copy of d. Nested documents and arrays are copied;
// scalar values are shared.
func Copy(d bson.D) bson.D {
	if d == nil {
		return nil
	}
	out := make(bson.D, len(d))
	for i, e := range d {
		out[i] = bson.E{Key: e.Key, Value: copyValue(e.Value)}
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case bson.D:
		return Copy(x)
	case bson.A:
		out := make(bson.A, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	case bson.M:
		out := make(bson.M, len(x))
		for k, item := range x {
			out[k] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}

// Lookup returns the value stored under key.
func Lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set stores value under key, replacing an existing entry in place or
// appending a new one.
func Set(d bson.D, key string, value any) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: value})
}

func prepend(d bson.D, key string, value any) bson.D {
	return append(bson.D{{Key: key, Value: value}}, d...)
}

func enumOf(values ...string) bson.D {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.D{{Key: "enum", Value: a}}
}
