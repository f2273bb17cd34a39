// Package bsonschema is the runtime side of magnet: the BsonSchemer
// capability, the registry generated code fills for interface enums, and a
// reflection front end for types that have no generated code.
package bsonschema

import (
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet/schema"
)

// BsonSchemer is implemented by types with a generated BsonSchema method.
type BsonSchemer interface {
	BsonSchema() bson.D
}

var registry = struct {
	sync.RWMutex
	fns map[reflect.Type]func() bson.D
}{fns: map[reflect.Type]func() bson.D{}}

// Register binds fn as the schema of T. Generated code calls it from init for
// types that cannot carry methods, such as interface enums.
func Register[T any](fn func() bson.D) {
	registry.Lock()
	defer registry.Unlock()
	registry.fns[reflect.TypeFor[T]()] = fn
}

// Lookup returns a copy of the registered schema of t.
func Lookup(t reflect.Type) (bson.D, bool) {
	registry.RLock()
	fn, ok := registry.fns[t]
	registry.RUnlock()
	if !ok {
		return nil, false
	}
	return schema.Copy(fn()), true
}

// Validator wraps a schema into a collection validator document.
func Validator(d bson.D) bson.D {
	return bson.D{{Key: "$jsonSchema", Value: d}}
}
