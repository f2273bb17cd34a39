package types

import (
	"bytes"
	"testing"

	"github.com/pablor21/magnet/logger"
	"github.com/pablor21/magnet/primitives"
	"github.com/pablor21/magnet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const modelsSrc = `package models

import "time"

// Point is a location.
// @BsonSchema
type Point struct {
	X float64 ` + "`bson:\"x\"`" + `
	Y float64 ` + "`bson:\"y\"`" + `
}

// @BsonSchema
// @bson(rename_all="snake_case")
type Contact struct {
	FullName string
	// @magnet(min_incl=0, max_incl=150)
	Age      int32
	Location *Point ` + "`bson:\"loc,omitempty\"`" + `
	Tags     []string
	Created  time.Time
	secret   string
	Ignored  bool ` + "`bson:\"-\"`" + `
}

// @BsonSchema
// @magnet(min_incl=0, max_excl=360, doc="degrees")
type Angle float32

// @BsonSchema
// @magnet(tuple)
type LatLng struct {
	// @magnet(min_incl=-90, max_incl=90)
	Lat float64
	Lng float64
}

// @BsonSchema
type Marker struct{}

type Base struct {
	ID string ` + "`bson:\"_id\"`" + `
}

// @BsonSchema
type Doc struct {
	Base ` + "`bson:\",inline\"`" + `
	Name string
	Data []byte
	Hash [4]byte
	Meta map[string]int64
}

// @BsonSchema
type Box[T any] struct {
	V T
}
`

func TestDeriveStructs(t *testing.T) {
	pr := process(t, testContext(nil, nil), modelsSrc)
	require.NoError(t, pr.Err())

	point := object(bson.A{"x", "y"}, bson.D{
		{Key: "x", Value: primitives.Float()},
		{Key: "y", Value: primitives.Float()},
	})

	t.Run("tags rename fields", func(t *testing.T) {
		assert.Equal(t, point, schemaOf(t, pr, "Point").Schema)
	})

	t.Run("rename_all, bounds, optional and skipped fields", func(t *testing.T) {
		age := schema.ExtendWithBounds(primitives.Int(32, true), schema.Bounds{
			Lower: schema.Bound{Kind: schema.Inclusive, Value: 0},
			Upper: schema.Bound{Kind: schema.Inclusive, Value: 150},
		})
		want := object(bson.A{"full_name", "age", "tags", "created"}, bson.D{
			{Key: "full_name", Value: primitives.String()},
			{Key: "age", Value: age},
			{Key: "loc", Value: primitives.Nullable(point)},
			{Key: "tags", Value: primitives.Nullable(primitives.Array(primitives.String()))},
			{Key: "created", Value: primitives.Date()},
		})
		assert.Equal(t, want, schemaOf(t, pr, "Contact").Schema)
	})

	t.Run("defined type is a newtype", func(t *testing.T) {
		res := schemaOf(t, pr, "Angle")
		assert.Equal(t, schema.ShapePositional, res.Declaration.Shape.Kind)
		assert.Equal(t, bson.D{
			{Key: "type", Value: "number"},
			{Key: "minimum", Value: 0.0},
			{Key: "exclusiveMinimum", Value: false},
			{Key: "maximum", Value: 360.0},
			{Key: "exclusiveMaximum", Value: true},
			{Key: "description", Value: "degrees"},
		}, res.Schema)
	})

	t.Run("tuple", func(t *testing.T) {
		got := schemaOf(t, pr, "LatLng").Schema
		items, ok := schema.Lookup(got, "items")
		require.True(t, ok)
		assert.Len(t, items, 2)
		v, _ := schema.Lookup(got, "additionalItems")
		assert.Equal(t, false, v)
	})

	t.Run("empty struct is a unit", func(t *testing.T) {
		assert.Equal(t, schema.UnitSchema(), schemaOf(t, pr, "Marker").Schema)
	})

	t.Run("inline embedding and binary data", func(t *testing.T) {
		want := object(bson.A{"_id", "name", "data", "hash", "meta"}, bson.D{
			{Key: "_id", Value: primitives.String()},
			{Key: "name", Value: primitives.String()},
			{Key: "data", Value: primitives.Nullable(primitives.Binary())},
			{Key: "hash", Value: primitives.Binary()},
			{Key: "meta", Value: primitives.Nullable(primitives.Map(primitives.Int(64, true)))},
		})
		assert.Equal(t, want, schemaOf(t, pr, "Doc").Schema)
	})

	t.Run("generic types are skipped", func(t *testing.T) {
		for _, s := range pr.Schemas {
			assert.NotEqual(t, "Box", s.Type.Name)
		}
	})
}

const enumSrc = `package models

// Shape is a drawable figure.
// @BsonSchema
// @bson(tag="kind", rename_all="lowercase")
type Shape interface{ isShape() }

type Circle struct {
	Radius float64 ` + "`bson:\"r\"`" + `
}

// @magnet(rename="sq")
type Square struct {
	Side float64
}

type Empty struct{}

type unrelated struct{}

func (Circle) isShape()  {}
func (*Square) isShape() {}
func (Empty) isShape()   {}

// @BsonSchema
type Canvas struct {
	Items []Shape
	Any   interface{ Area() float64 }
}
`

func TestDeriveEnum(t *testing.T) {
	pr := process(t, testContext(nil, nil), enumSrc)
	require.NoError(t, pr.Err())

	res := schemaOf(t, pr, "Shape")
	assert.Equal(t, schema.KindEnum, res.Declaration.Kind)
	require.Len(t, res.Declaration.Variants, 3)

	shape := bson.D{{Key: "anyOf", Value: bson.A{
		object(bson.A{"kind", "r"}, bson.D{
			{Key: "kind", Value: enumOf("circle")},
			{Key: "r", Value: primitives.Float()},
		}),
		object(bson.A{"kind", "side"}, bson.D{
			{Key: "kind", Value: enumOf("sq")},
			{Key: "side", Value: primitives.Float()},
		}),
		object(bson.A{"kind"}, bson.D{{Key: "kind", Value: enumOf("empty")}}),
	}}}
	assert.Equal(t, shape, res.Schema)

	t.Run("enum used as a field", func(t *testing.T) {
		want := object(bson.A{"items", "any"}, bson.D{
			{Key: "items", Value: primitives.Nullable(primitives.Array(shape))},
			{Key: "any", Value: primitives.Any()},
		})
		assert.Equal(t, want, schemaOf(t, pr, "Canvas").Schema)
	})
}

func TestDeriveInternallyTaggedMap(t *testing.T) {
	src := `package models

// @BsonSchema
// @bson(tag="variant")
type Payload interface{ isPayload() }

type Labels map[string]bool

type Note struct {
	Text string ` + "`bson:\"text\"`" + `
}

func (Labels) isPayload() {}
func (Note) isPayload()   {}
`
	pr := process(t, testContext(nil, nil), src)
	require.NoError(t, pr.Err())

	assert.Equal(t, bson.D{{Key: "anyOf", Value: bson.A{
		bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: primitives.Bool()},
			{Key: "properties", Value: bson.D{{Key: "variant", Value: enumOf("Labels")}}},
			{Key: "required", Value: bson.A{"variant"}},
		},
		object(bson.A{"variant", "text"}, bson.D{
			{Key: "variant", Value: enumOf("Note")},
			{Key: "text", Value: primitives.String()},
		}),
	}}}, schemaOf(t, pr, "Payload").Schema)
}

func TestDeriveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		typ  string
	}{
		{"union", "package models\n// @BsonSchema\ntype Number interface{ ~int | ~float64 }\n", "Number"},
		{"recursive", "package models\n// @BsonSchema\ntype Node struct{ Next *Node }\n", "Node"},
		{"channel", "package models\n// @BsonSchema\ntype Pipe struct{ C chan int }\n", "Pipe"},
		{"complex", "package models\n// @BsonSchema\ntype Z complex128\n", "Z"},
		{"map key", "package models\n// @BsonSchema\ntype M map[[2]int]string\n", "M"},
		{"methodless enum", "package models\n// @BsonSchema\ntype E interface{}\n", "E"},
		{"bad bound", "package models\n// @BsonSchema\ntype S struct{\n// @magnet(min_incl=\"low\")\nA int\n}\n", "S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := process(t, testContext(nil, nil), tt.src)
			res := schemaOf(t, pr, tt.typ)
			require.Error(t, res.Err)
			assert.Error(t, pr.Err())
			assert.Empty(t, pr.ByPackage())

			var derr *schema.DerivationError
			assert.ErrorAs(t, res.Err, &derr)
		})
	}
}

func TestDescriptionsFromComments(t *testing.T) {
	ctx := testContext(nil, nil)
	ctx.Config.Schema.DescriptionsFromComments = true
	pr := process(t, ctx, modelsSrc)
	require.NoError(t, pr.Err())

	v, ok := schema.Lookup(schemaOf(t, pr, "Point").Schema, "description")
	require.True(t, ok)
	assert.Equal(t, "Point is a location.", v)

	// explicit docs win over comments
	v, _ = schema.Lookup(schemaOf(t, pr, "Angle").Schema, "description")
	assert.Equal(t, "degrees", v)
}

func TestFieldNamingConfig(t *testing.T) {
	ctx := testContext(nil, nil)
	ctx.Config.Schema.FieldNaming = "camelCase"
	pr := process(t, ctx, "package models\n// @BsonSchema\ntype S struct{ FirstName string }\n")
	require.NoError(t, pr.Err())
	required, _ := schema.Lookup(schemaOf(t, pr, "S").Schema, "required")
	assert.Equal(t, bson.A{"firstName"}, required)
}

func TestAnnotationWarnings(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&logger.Config{Level: logger.WarnLevel, Output: &buf})
	src := "package models\n// @BsonSchema\n// @magnet(colour=\"red\")\ntype S struct{\n// @bson(tag=\"k\")\nA int\n}\n"

	pr := process(t, testContext(nil, log), src)
	require.NoError(t, pr.Err())
	assert.Contains(t, buf.String(), `unknown key "colour"`)
	assert.Contains(t, buf.String(), `key "tag" is not valid on a field`)
}

func TestScanIndex(t *testing.T) {
	pr := process(t, testContext(nil, nil), enumSrc)

	ti, ok := pr.Elements[testPkgPath+".Shape"]
	require.True(t, ok)
	assert.Equal(t, TypeKindInterface, ti.Kind)
	assert.True(t, ti.Opted())
	assert.Equal(t, "Shape is a drawable figure.", ti.Comment)

	names := []string{}
	for _, ti := range pr.PackageTypes(testPkgPath) {
		names = append(names, ti.Name)
	}
	assert.Equal(t, []string{"Shape", "Circle", "Square", "Empty", "unrelated", "Canvas"}, names)

	groups := pr.ByPackage()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Schemas, 2)
}
