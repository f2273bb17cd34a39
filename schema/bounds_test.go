package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet/primitives"
)

func TestBoundsFromAttributes(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Bounds
	}{
		{
			name: "none",
			want: Bounds{},
		},
		{
			name:  "inclusive",
			lines: []string{`@magnet(min_incl=-1337, max_incl="63")`},
			want:  Bounds{Lower: Bound{Inclusive, -1337}, Upper: Bound{Inclusive, 63}},
		},
		{
			name:  "exclusive",
			lines: []string{`@magnet(min_excl=42.5, max_excl=64)`},
			want:  Bounds{Lower: Bound{Exclusive, 42.5}, Upper: Bound{Exclusive, 64}},
		},
		{
			name:  "inclusive wins on the same side",
			lines: []string{`@magnet(min_excl=1, min_incl=0, max_excl=10, max_incl=9)`},
			want:  Bounds{Lower: Bound{Inclusive, 0}, Upper: Bound{Inclusive, 9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BoundsFromAttributes(attrs(tt.lines...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoundsFromAttributesErrors(t *testing.T) {
	_, err := BoundsFromAttributes(attrs(`@magnet(max_incl=true)`))
	assert.ErrorIs(t, err, ErrNumericParse)

	// the ignored exclusive bound is still parsed
	_, err = BoundsFromAttributes(attrs(`@magnet(min_incl=0, min_excl="x")`))
	assert.ErrorIs(t, err, ErrNumericParse)

	_, err = BoundsFromAttributes(attrs(`@magnet(min_incl)`))
	assert.ErrorIs(t, err, ErrMalformedAttribute)
}

func TestExtendWithBounds(t *testing.T) {
	in := primitives.Int(32, true)
	got := ExtendWithBounds(in, Bounds{
		Lower: Bound{Kind: Inclusive, Value: 0},
		Upper: Bound{Kind: Exclusive, Value: 10},
	})

	want := bson.D{
		{Key: "bsonType", Value: bson.A{"int", "long"}},
		{Key: "minimum", Value: 0.0},
		{Key: "maximum", Value: 10.0},
		{Key: "exclusiveMinimum", Value: false},
		{Key: "exclusiveMaximum", Value: true},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, primitives.Int(32, true), in, "input must not change")

	assert.Equal(t, primitives.Float(), ExtendWithBounds(primitives.Float(), Bounds{}))
}

func TestInclusiveBoundPrecedence(t *testing.T) {
	set := attrs(`@magnet(min_incl=1, min_excl=2)`)
	b, err := BoundsFromAttributes(set)
	require.NoError(t, err)

	got := ExtendWithBounds(primitives.Float(), b)
	want := ExtendWithBounds(primitives.Float(), Bounds{Lower: Bound{Kind: Inclusive, Value: 1}})
	assert.Equal(t, want, got)
	v, _ := Lookup(got, "exclusiveMinimum")
	assert.Equal(t, false, v)
}

func TestExtendWithDoc(t *testing.T) {
	assert.Equal(t, primitives.String(), ExtendWithDoc(primitives.String(), ""))
	assert.Equal(t, bson.D{
		{Key: "type", Value: "string"},
		{Key: "description", Value: "a name"},
	}, ExtendWithDoc(primitives.String(), "a name"))

	// replaces an existing description
	d := ExtendWithDoc(ExtendWithDoc(primitives.String(), "old"), "new")
	assert.Equal(t, bson.D{
		{Key: "type", Value: "string"},
		{Key: "description", Value: "new"},
	}, d)
}

func TestExtendWithTag(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		in := pointSchema()
		got, err := ExtendWithTag(in, "kind", "Point")
		require.NoError(t, err)
		assert.Equal(t, object(
			bson.A{"kind", "x", "y"},
			bson.D{
				{Key: "kind", Value: enumOf("Point")},
				{Key: "x", Value: primitives.Float()},
				{Key: "y", Value: primitives.Float()},
			},
		), got)
		assert.Equal(t, pointSchema(), in, "input must not change")
	})

	t.Run("map", func(t *testing.T) {
		got, err := ExtendWithTag(primitives.Map(primitives.String()), "kind", "Labels")
		require.NoError(t, err)
		assert.Equal(t, bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: primitives.String()},
			{Key: "properties", Value: bson.D{{Key: "kind", Value: enumOf("Labels")}}},
			{Key: "required", Value: bson.A{"kind"}},
		}, got)
	})

	t.Run("nullable map", func(t *testing.T) {
		in := primitives.Nullable(primitives.Map(primitives.Bool()))
		got, err := ExtendWithTag(in, "variant", "Labels")
		require.NoError(t, err)
		assert.Equal(t, bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: primitives.Bool()},
			{Key: "properties", Value: bson.D{{Key: "variant", Value: enumOf("Labels")}}},
			{Key: "required", Value: bson.A{"variant"}},
		}, got)
		assert.Equal(t, primitives.Nullable(primitives.Map(primitives.Bool())), in, "input must not change")
	})

	rejected := []struct {
		name string
		in   bson.D
	}{
		{"scalar", primitives.String()},
		{"integer", primitives.Int(64, true)},
		{"array", primitives.Array(primitives.String())},
		{"unit", UnitSchema()},
		{"nullable object", primitives.Nullable(pointSchema())},
		{"nullable untyped map", bson.D{{Key: "type", Value: bson.A{"object", "null"}}}},
		{"nested enum", bson.D{{Key: "anyOf", Value: bson.A{pointSchema()}}}},
		{"oneOf", bson.D{{Key: "oneOf", Value: bson.A{}}}},
		{"unconstrained", primitives.Any()},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtendWithTag(tt.in, "kind", "V")
			assert.ErrorIs(t, err, ErrUnsupportedShape)
		})
	}

	t.Run("bsonType object", func(t *testing.T) {
		_, err := ExtendWithTag(primitives.Object(), "kind", "V")
		assert.NoError(t, err)
	})

	t.Run("collision", func(t *testing.T) {
		_, err := ExtendWithTag(pointSchema(), "x", "Point")
		assert.ErrorIs(t, err, ErrUnsupportedShape)
	})
}
