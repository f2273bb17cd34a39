package primitives

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// builtinTypes maps Go builtin type names to their schema.
var builtinTypes = map[string]func() bson.D{
	"bool":    Bool,
	"string":  String,
	"int":     func() bson.D { return Int(strconv.IntSize, true) },
	"int8":    func() bson.D { return Int(8, true) },
	"int16":   func() bson.D { return Int(16, true) },
	"int32":   func() bson.D { return Int(32, true) },
	"rune":    func() bson.D { return Int(32, true) },
	"int64":   func() bson.D { return Int(64, true) },
	"uint":    func() bson.D { return Int(strconv.IntSize, false) },
	"uint8":   func() bson.D { return Int(8, false) },
	"byte":    func() bson.D { return Int(8, false) },
	"uint16":  func() bson.D { return Int(16, false) },
	"uint32":  func() bson.D { return Int(32, false) },
	"uint64":  func() bson.D { return Int(64, false) },
	"uintptr": func() bson.D { return Int(strconv.IntSize, false) },
	"float32": Float,
	"float64": Float,
	"any":     Any,
}

// unsupportedBuiltins have no BSON encoding.
var unsupportedBuiltins = map[string]bool{
	"complex64":  true,
	"complex128": true,
	"error":      true,
}

// Builtin returns the schema of a Go builtin type.
func Builtin(name string) (bson.D, bool) {
	if fn, ok := builtinTypes[name]; ok {
		return fn(), true
	}
	return nil, false
}

// IsUnsupportedBuiltin reports builtin types that cannot be stored in BSON.
func IsUnsupportedBuiltin(name string) bool {
	return unsupportedBuiltins[name]
}

// Well-known types keyed by "<import path>.<name>".
var wellKnownTypes = map[string]func() bson.D{
	"time.Time":     Date,
	"time.Duration": func() bson.D { return Int(64, true) },
	"net/url.URL":   String,

	"go.mongodb.org/mongo-driver/bson/primitive.ObjectID":   ObjectID,
	"go.mongodb.org/mongo-driver/bson/primitive.DateTime":   Date,
	"go.mongodb.org/mongo-driver/bson/primitive.Decimal128": Decimal,
	"go.mongodb.org/mongo-driver/bson/primitive.Binary":     Binary,
	"go.mongodb.org/mongo-driver/bson/primitive.Timestamp":  Timestamp,
	"go.mongodb.org/mongo-driver/bson/primitive.Regex":      Regex,
	"go.mongodb.org/mongo-driver/bson/primitive.D":          Object,
	"go.mongodb.org/mongo-driver/bson/primitive.M":          Object,
	"go.mongodb.org/mongo-driver/bson/primitive.A":          func() bson.D { return Array(Any()) },
	"go.mongodb.org/mongo-driver/bson.D":                    Object,
	"go.mongodb.org/mongo-driver/bson.M":                    Object,
	"go.mongodb.org/mongo-driver/bson.A":                    func() bson.D { return Array(Any()) },
	"go.mongodb.org/mongo-driver/bson.Raw":                  Object,
	"go.mongodb.org/mongo-driver/bson.RawValue":             Any,

	"github.com/google/uuid.UUID": Binary, // [16]byte, stored as binData
}

// WellKnown returns the schema of a library type by its qualified name.
func WellKnown(qualified string) (bson.D, bool) {
	if fn, ok := wellKnownTypes[qualified]; ok {
		return fn(), true
	}
	return nil, false
}
