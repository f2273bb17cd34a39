package schema

import (
	"fmt"
	"go/ast"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet/annotations"
	"github.com/pablor21/magnet/primitives"
)

// ref is a type reference understood by testResolver.
type ref string

func (r ref) String() string { return string(r) }

// testResolver knows the handful of types the tests use.
var testResolver = ResolverFunc(func(r TypeRef) (bson.D, error) {
	switch r.String() {
	case "bool":
		return primitives.Bool(), nil
	case "string":
		return primitives.String(), nil
	case "float64":
		return primitives.Float(), nil
	case "int32":
		return primitives.Int(32, true), nil
	case "*int32":
		return primitives.Nullable(primitives.Int(32, true)), nil
	case "*Point":
		return primitives.Nullable(pointSchema()), nil
	case "Point":
		return pointSchema(), nil
	case "map[string]string":
		return primitives.Map(primitives.String()), nil
	case "Shape":
		return bson.D{{Key: "anyOf", Value: bson.A{enumOf("A"), enumOf("B")}}}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrUnsupportedShape, r)
	}
})

func pointSchema() bson.D {
	return bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: false},
		{Key: "required", Value: bson.A{"x", "y"}},
		{Key: "properties", Value: bson.D{
			{Key: "x", Value: primitives.Float()},
			{Key: "y", Value: primitives.Float()},
		}},
	}
}

// attrs parses annotation lines the way they appear in doc comments.
func attrs(lines ...string) AttributeSet {
	cg := &ast.CommentGroup{}
	for _, l := range lines {
		cg.List = append(cg.List, &ast.Comment{Text: "// " + l})
	}
	return FromAnnotations(annotations.ParseAnnotations([]*ast.CommentGroup{cg}), "test")
}

func field(name, typ string, lines ...string) Field {
	return Field{Name: name, Type: ref(typ), Attrs: attrs(lines...)}
}

func newBuilder(opts ...Option) *Builder {
	return NewBuilder(testResolver, opts...)
}

func object(required bson.A, props bson.D) bson.D {
	d := bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: false},
	}
	if required != nil {
		d = append(d, bson.E{Key: "required", Value: required})
	}
	return append(d, bson.E{Key: "properties", Value: props})
}
