package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Tag is the synthetic discriminant property added to internally tagged
// variants.
type Tag struct {
	Key     string
	Variant string
}

// UnitSchema is the schema of a shape without fields: an empty array or null.
func UnitSchema() bson.D {
	return bson.D{
		{Key: "type", Value: bson.A{"array", "null"}},
		{Key: "maxItems", Value: int64(0)},
	}
}

func isUnitShape(shape TypeShape) bool {
	return shape.Kind == ShapeUnit || (shape.Kind == ShapePositional && len(shape.Fields) == 0)
}

// BuildFields returns the schema of a field group. container holds the
// attributes of the struct or variant owning the fields; renameAll applies to
// named fields without an explicit rename. extraTag, when set, adds a required
// discriminant property.
func (b *Builder) BuildFields(shape TypeShape, container AttributeSet, renameAll *RenameRule, extraTag *Tag) (bson.D, error) {
	switch {
	case isUnitShape(shape):
		if extraTag != nil {
			return tagOnlyObject(extraTag.Key, extraTag.Variant), nil
		}
		return UnitSchema(), nil
	case shape.Kind == ShapePositional && len(shape.Fields) == 1:
		return b.newtypeFields(shape.Fields[0], extraTag)
	case shape.Kind == ShapePositional:
		return b.tupleFields(shape.Fields, extraTag)
	case shape.Kind == ShapeNamed:
		return b.namedFields(shape.Fields, container, renameAll, extraTag)
	default:
		return nil, fmt.Errorf("%w: unknown shape kind %d", ErrUnsupportedShape, shape.Kind)
	}
}

func (b *Builder) newtypeFields(f Field, extraTag *Tag) (bson.D, error) {
	d, err := b.fieldSchema(f)
	if err != nil {
		return nil, err
	}
	if extraTag == nil {
		return d, nil
	}
	return ExtendWithTag(d, extraTag.Key, extraTag.Variant)
}

func (b *Builder) tupleFields(fields []Field, extraTag *Tag) (bson.D, error) {
	if extraTag != nil {
		return nil, fmt.Errorf("%w: internally tagged variant %s has %d positional fields, only one can be tagged", ErrUnsupportedShape, extraTag.Variant, len(fields))
	}
	items := make(bson.A, 0, len(fields))
	for i, f := range fields {
		d, err := b.fieldSchema(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		items = append(items, d)
	}
	return bson.D{
		{Key: "type", Value: "array"},
		{Key: "items", Value: items},
		{Key: "additionalItems", Value: false},
	}, nil
}

func (b *Builder) namedFields(fields []Field, container AttributeSet, renameAll *RenameRule, extraTag *Tag) (bson.D, error) {
	if renameAll == nil {
		renameAll = b.defaultFieldRule
	}
	allowExtra, err := container.Word(Magnet, "allow_extra_fields")
	if err != nil {
		return nil, err
	}

	var required bson.A
	properties := bson.D{}
	seen := map[string]string{}
	if extraTag != nil {
		required = append(required, extraTag.Key)
		properties = append(properties, bson.E{Key: extraTag.Key, Value: enumOf(extraTag.Variant)})
		seen[extraTag.Key] = "tag"
	}

	for _, f := range fields {
		skip, err := f.Attrs.Word(Bson, "skip")
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if skip {
			continue
		}
		override, err := f.Attrs.Rename()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		name := ResolveName(override, renameAll, f.Name, FieldName)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: property %q of field %s is already used by %s", ErrUnsupportedShape, name, f.Name, prev)
		}
		seen[name] = "field " + f.Name

		d, err := b.fieldSchema(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		optional, err := f.Attrs.Word(Bson, "omitempty")
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if !optional {
			required = append(required, name)
		}
		properties = append(properties, bson.E{Key: name, Value: d})
	}

	d := bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: allowExtra},
	}
	// $jsonSchema rejects an empty required list
	if len(required) > 0 {
		d = append(d, bson.E{Key: "required", Value: required})
	}
	d = append(d, bson.E{Key: "properties", Value: properties})

	doc, err := container.Doc()
	if err != nil {
		return nil, err
	}
	return ExtendWithDoc(d, doc), nil
}

// tagOnlyObject is an object whose only property is the discriminant.
func tagOnlyObject(tag, variant string) bson.D {
	return bson.D{
		{Key: "type", Value: "object"},
		{Key: "additionalProperties", Value: false},
		{Key: "required", Value: bson.A{tag}},
		{Key: "properties", Value: bson.D{{Key: tag, Value: enumOf(variant)}}},
	}
}
