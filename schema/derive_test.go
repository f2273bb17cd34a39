package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet/primitives"
)

func TestDeriveStruct(t *testing.T) {
	b := newBuilder()

	t.Run("named with rename_all", func(t *testing.T) {
		got, err := b.Derive(Declaration{
			Name:  "Contact",
			Kind:  KindStruct,
			Attrs: attrs(`@bson(rename_all="snake_case")`, `@magnet(doc="A contact")`),
			Shape: Named(field("FullName", "string"), field("Email", "*Point")),
		})
		require.NoError(t, err)
		assert.Equal(t, bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: false},
			{Key: "required", Value: bson.A{"full_name", "email"}},
			{Key: "properties", Value: bson.D{
				{Key: "full_name", Value: primitives.String()},
				{Key: "email", Value: primitives.Nullable(pointSchema())},
			}},
			{Key: "description", Value: "A contact"},
		}, got)
	})

	t.Run("newtype doc", func(t *testing.T) {
		got, err := b.Derive(Declaration{
			Name:  "Angle",
			Kind:  KindStruct,
			Attrs: attrs(`@magnet(doc="degrees")`),
			Shape: Positional(field("", "float64", `@magnet(min_incl=0, max_excl=360)`)),
		})
		require.NoError(t, err)
		assert.Equal(t, bson.D{
			{Key: "type", Value: "number"},
			{Key: "minimum", Value: 0.0},
			{Key: "exclusiveMinimum", Value: false},
			{Key: "maximum", Value: 360.0},
			{Key: "exclusiveMaximum", Value: true},
			{Key: "description", Value: "degrees"},
		}, got)
	})

	t.Run("unit", func(t *testing.T) {
		got, err := b.Derive(Declaration{Name: "Marker", Kind: KindStruct, Shape: Unit()})
		require.NoError(t, err)
		assert.Equal(t, UnitSchema(), got)
	})
}

func TestDeriveEnum(t *testing.T) {
	got, err := newBuilder().Derive(Declaration{
		Name:  "Shape",
		Kind:  KindEnum,
		Attrs: attrs(`@bson(tag="kind", rename_all="lowercase")`),
		Variants: []Variant{
			{Name: "Circle", Shape: Named(field("r", "float64"))},
			{Name: "Empty", Shape: Unit()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "anyOf", Value: bson.A{
		object(bson.A{"kind", "r"}, bson.D{
			{Key: "kind", Value: enumOf("circle")},
			{Key: "r", Value: primitives.Float()},
		}),
		object(bson.A{"kind"}, bson.D{{Key: "kind", Value: enumOf("empty")}}),
	}}}, got)
}

func TestDeriveErrors(t *testing.T) {
	b := newBuilder()

	tests := []struct {
		name string
		decl Declaration
		want error
	}{
		{"union", Declaration{Name: "Number", Kind: KindUnion}, ErrUnsupportedShape},
		{"malformed rename_all", Declaration{Name: "S", Kind: KindStruct, Shape: Unit(), Attrs: attrs(`@bson(rename_all)`)}, ErrMalformedAttribute},
		{"bad doc", Declaration{Name: "S", Kind: KindStruct, Shape: Positional(field("", "bool")), Attrs: attrs(`@magnet(doc=b"\xff")`)}, ErrInvalidEncoding},
		{"internal tuple", Declaration{
			Name:     "E",
			Kind:     KindEnum,
			Attrs:    attrs(`@bson(tag="t")`),
			Variants: []Variant{{Name: "Pair", Shape: Positional(field("", "bool"), field("", "bool"))}},
		}, ErrUnsupportedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Derive(tt.decl)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var derr *DerivationError
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, tt.decl.Name, derr.Type)
			assert.Contains(t, err.Error(), tt.decl.Name)
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	decl := Declaration{
		Name:  "Point",
		Kind:  KindStruct,
		Shape: Named(field("x", "float64", `@magnet(min_incl=-1)`), field("y", "float64")),
	}
	first, err := newBuilder().Derive(decl)
	require.NoError(t, err)
	second, err := newBuilder().Derive(decl)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
