// Package primitives is the table of schemas for Go builtin types, the
// containers built from them and well-known library types.
//
// Every function returns a fresh document that the caller may modify.
package primitives

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// Bool is the schema of bool.
func Bool() bson.D {
	return bson.D{{Key: "type", Value: "boolean"}}
}

// String is the schema of string.
func String() bson.D {
	return bson.D{{Key: "type", Value: "string"}}
}

// Float is the schema of float32 and float64.
func Float() bson.D {
	return bson.D{{Key: "type", Value: "number"}}
}

// Int is the schema of an integer of the given width. Ranges that do not fit
// in a BSON long are capped at math.MaxInt64.
func Int(bits int, signed bool) bson.D {
	var lo, hi int64
	switch {
	case signed:
		lo = -1 << (bits - 1)
		hi = 1<<(bits-1) - 1
	case bits >= 64:
		hi = math.MaxInt64
	default:
		hi = 1<<bits - 1
	}
	return bson.D{
		{Key: "bsonType", Value: bson.A{"int", "long"}},
		{Key: "minimum", Value: lo},
		{Key: "maximum", Value: hi},
	}
}

// Array is the schema of a slice.
func Array(items bson.D) bson.D {
	return bson.D{
		{Key: "type", Value: "array"},
		{Key: "items", Value: items},
	}
}

// FixedArray is the schema of an array type with exactly n elements.
func FixedArray(items bson.D, n int64) bson.D {
	return bson.D{
		{Key: "type", Value: "array"},
		{Key: "minItems", Value: n},
		{Key: "maxItems", Value: n},
		{Key: "items", Value: items},
	}
}

// Map is the schema of a map with string-like keys.
func Map(values bson.D) bson.D {
	return bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: values},
	}
}

// Binary is the schema of []byte and primitive.Binary.
func Binary() bson.D {
	return bson.D{{Key: "bsonType", Value: "binData"}}
}

// Date is the schema of time.Time and primitive.DateTime.
func Date() bson.D {
	return bson.D{{Key: "bsonType", Value: "date"}}
}

// ObjectID is the schema of primitive.ObjectID.
func ObjectID() bson.D {
	return bson.D{{Key: "bsonType", Value: "objectId"}}
}

// Decimal is the schema of primitive.Decimal128.
func Decimal() bson.D {
	return bson.D{{Key: "bsonType", Value: "decimal"}}
}

// Timestamp is the schema of primitive.Timestamp.
func Timestamp() bson.D {
	return bson.D{{Key: "bsonType", Value: "timestamp"}}
}

// Regex is the schema of primitive.Regex.
func Regex() bson.D {
	return bson.D{{Key: "bsonType", Value: "regex"}}
}

// Object is the schema of untyped documents such as bson.D and bson.M.
func Object() bson.D {
	return bson.D{{Key: "bsonType", Value: "object"}}
}

// Any is the unconstrained schema.
func Any() bson.D {
	return bson.D{}
}

// Nullable returns a copy of d that also accepts null. The null is added to
// the type or bsonType list at most once; schemas without either key are
// returned unchanged since they do not constrain the type.
func Nullable(d bson.D) bson.D {
	out := make(bson.D, len(d))
	copy(out, d)
	for i, e := range out {
		if e.Key != "type" && e.Key != "bsonType" {
			continue
		}
		switch v := e.Value.(type) {
		case string:
			if v != "null" {
				out[i].Value = bson.A{v, "null"}
			}
		case bson.A:
			types := append(bson.A(nil), v...)
			if !containsNull(types) {
				types = append(types, "null")
			}
			out[i].Value = types
		}
		return out
	}
	return out
}

func containsNull(a bson.A) bool {
	for _, v := range a {
		if s, ok := v.(string); ok && s == "null" {
			return true
		}
	}
	return false
}
