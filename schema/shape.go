package schema

import "go.mongodb.org/mongo-driver/bson"

// ShapeKind distinguishes the three field layouts a struct or variant can have.
type ShapeKind int

const (
	ShapeUnit       ShapeKind = iota // no fields
	ShapeNamed                       // fields encoded as object properties
	ShapePositional                  // fields encoded as array items
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeNamed:
		return "named"
	case ShapePositional:
		return "positional"
	default:
		return "unit"
	}
}

// TypeRef identifies the type of a field. The Resolver decides what it means.
type TypeRef interface {
	String() string
}

// Field is one field of a shape. Name is empty for positional fields.
type Field struct {
	Name  string
	Type  TypeRef
	Attrs AttributeSet
}

// TypeShape is the ordered field list of a struct or variant.
type TypeShape struct {
	Kind   ShapeKind
	Fields []Field
}

// Unit returns the shape without fields.
func Unit() TypeShape {
	return TypeShape{Kind: ShapeUnit}
}

// Named returns a shape with named fields.
func Named(fields ...Field) TypeShape {
	return TypeShape{Kind: ShapeNamed, Fields: fields}
}

// Positional returns a shape with positional fields.
func Positional(fields ...Field) TypeShape {
	return TypeShape{Kind: ShapePositional, Fields: fields}
}

// Variant is one alternative of an enum.
type Variant struct {
	Name  string
	Shape TypeShape
	Attrs AttributeSet
}

// Resolver returns the schema of a nested type. Implementations decide whether
// it comes from a primitive table or from deriving the referenced declaration.
// The returned document must not be shared with other callers.
type Resolver interface {
	Resolve(ref TypeRef) (bson.D, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref TypeRef) (bson.D, error)

// Resolve calls f(ref).
func (f ResolverFunc) Resolve(ref TypeRef) (bson.D, error) {
	return f(ref)
}
