package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// BoundKind tells whether a bound is present and whether it includes its value.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Inclusive
	Exclusive
)

// Bound is one side of a numeric range.
type Bound struct {
	Kind  BoundKind
	Value float64
}

// Bounds is the numeric range declared on a field.
type Bounds struct {
	Lower Bound
	Upper Bound
}

// BoundsFromAttributes reads magnet(min_incl, min_excl, max_incl, max_excl).
// When a side has both an inclusive and an exclusive bound, the inclusive one
// is used and the exclusive one is ignored.
func BoundsFromAttributes(attrs AttributeSet) (Bounds, error) {
	var b Bounds
	var err error
	if b.Lower, err = bound(attrs, "min_incl", "min_excl"); err != nil {
		return Bounds{}, err
	}
	if b.Upper, err = bound(attrs, "max_incl", "max_excl"); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func bound(attrs AttributeSet, inclKey, exclKey string) (Bound, error) {
	incl, err := attrs.Number(Magnet, inclKey)
	if err != nil {
		return Bound{}, err
	}
	excl, err := attrs.Number(Magnet, exclKey)
	if err != nil {
		return Bound{}, err
	}
	switch {
	case incl != nil:
		return Bound{Kind: Inclusive, Value: *incl}, nil
	case excl != nil:
		return Bound{Kind: Exclusive, Value: *excl}, nil
	default:
		return Bound{}, nil
	}
}

// ExtendWithBounds returns a copy of d with minimum/exclusiveMinimum and
// maximum/exclusiveMaximum set for each bounded side. It does not check that d
// describes a number.
func ExtendWithBounds(d bson.D, b Bounds) bson.D {
	d = Copy(d)
	if b.Lower.Kind != Unbounded {
		d = Set(d, "minimum", b.Lower.Value)
		d = Set(d, "exclusiveMinimum", b.Lower.Kind == Exclusive)
	}
	if b.Upper.Kind != Unbounded {
		d = Set(d, "maximum", b.Upper.Value)
		d = Set(d, "exclusiveMaximum", b.Upper.Kind == Exclusive)
	}
	return d
}

// ExtendWithDoc returns a copy of d with its description set to text. An empty
// text leaves d unchanged.
func ExtendWithDoc(d bson.D, text string) bson.D {
	d = Copy(d)
	if text == "" {
		return d
	}
	return Set(d, "description", text)
}

// ExtendWithTag returns a copy of the object schema d with a required tag
// property whose only allowed value is variant. The tag goes first in both
// properties and required.
func ExtendWithTag(d bson.D, tag, variant string) (bson.D, error) {
	for _, key := range []string{"anyOf", "oneOf", "allOf"} {
		if _, ok := Lookup(d, key); ok {
			return nil, fmt.Errorf("%w: cannot add tag %q to a %s schema, nested enums can't be internally tagged", ErrUnsupportedShape, tag, key)
		}
	}
	nullableMap := isNullableMap(d)
	if !isObject(d) && !nullableMap {
		return nil, fmt.Errorf("%w: internally tagged payload must be a non-nullable object, got %s", ErrUnsupportedShape, describeType(d))
	}

	d = Copy(d)
	if nullableMap {
		// a tagged document is never null
		d = Set(d, "type", "object")
	}

	var props bson.D
	if v, ok := Lookup(d, "properties"); ok {
		p, isDoc := v.(bson.D)
		if !isDoc {
			return nil, fmt.Errorf("%w: properties of a tagged payload must be a document", ErrUnsupportedShape)
		}
		props = p
	}
	if _, taken := Lookup(props, tag); taken {
		return nil, fmt.Errorf("%w: tag %q collides with a property of variant %s", ErrUnsupportedShape, tag, variant)
	}
	d = Set(d, "properties", prepend(props, tag, enumOf(variant)))

	required := bson.A{tag}
	if v, ok := Lookup(d, "required"); ok {
		r, isArr := v.(bson.A)
		if !isArr {
			return nil, fmt.Errorf("%w: required of a tagged payload must be an array", ErrUnsupportedShape)
		}
		required = append(required, r...)
	}
	return Set(d, "required", required), nil
}

// isObject reports whether d constrains values to be exactly an object.
func isObject(d bson.D) bool {
	for _, key := range []string{"type", "bsonType"} {
		if v, ok := Lookup(d, key); ok {
			s, isString := v.(string)
			return isString && s == "object"
		}
	}
	return false
}

// isNullableMap reports whether d is a map schema that also admits null, the
// schema of every Go map. Nullable structs stay rejected.
func isNullableMap(d bson.D) bool {
	v, ok := Lookup(d, "type")
	if !ok {
		return false
	}
	types, isArr := v.(bson.A)
	if !isArr || len(types) != 2 || types[0] != "object" || types[1] != "null" {
		return false
	}
	if _, ok := Lookup(d, "properties"); ok {
		return false
	}
	values, ok := Lookup(d, "additionalProperties")
	if !ok {
		return false
	}
	_, isDoc := values.(bson.D)
	return isDoc
}

func describeType(d bson.D) string {
	for _, key := range []string{"type", "bsonType"} {
		if v, ok := Lookup(d, key); ok {
			return fmt.Sprintf("%s %v", key, v)
		}
	}
	if _, ok := Lookup(d, "enum"); ok {
		return "an enumeration"
	}
	return "an unconstrained schema"
}
