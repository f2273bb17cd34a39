package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildVariant returns the schema of one enum variant under tagging.
// renameAll is the enum's rule for variant names; the variant's own fields
// follow the variant's rename_all.
func (b *Builder) BuildVariant(v Variant, renameAll *RenameRule, tagging EnumTagging) (bson.D, error) {
	override, err := v.Attrs.Rename()
	if err != nil {
		return nil, err
	}
	name := ResolveName(override, renameAll, v.Name, VariantName)

	fieldRule, err := v.Attrs.RenameAll()
	if err != nil {
		return nil, err
	}
	unit := isUnitShape(v.Shape)

	switch tagging.Kind {
	case Untagged:
		return b.BuildFields(v.Shape, v.Attrs, fieldRule, nil)

	case Adjacent:
		if unit {
			return tagOnlyObject(tagging.Tag, name), nil
		}
		content, err := b.BuildFields(v.Shape, v.Attrs, fieldRule, nil)
		if err != nil {
			return nil, err
		}
		return bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: false},
			{Key: "required", Value: bson.A{tagging.Tag, tagging.Content}},
			{Key: "properties", Value: bson.D{
				{Key: tagging.Tag, Value: enumOf(name)},
				{Key: tagging.Content, Value: content},
			}},
		}, nil

	case Internal:
		if unit {
			return tagOnlyObject(tagging.Tag, name), nil
		}
		return b.BuildFields(v.Shape, v.Attrs, fieldRule, &Tag{Key: tagging.Tag, Variant: name})

	case External:
		if unit {
			return enumOf(name), nil
		}
		payload, err := b.BuildFields(v.Shape, v.Attrs, fieldRule, nil)
		if err != nil {
			return nil, err
		}
		return bson.D{
			{Key: "type", Value: "object"},
			{Key: "additionalProperties", Value: false},
			{Key: "required", Value: bson.A{name}},
			{Key: "properties", Value: bson.D{{Key: name, Value: payload}}},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tagging %s", ErrUnsupportedShape, tagging)
	}
}

// BuildEnum returns {description?, anyOf: [variant schemas]}. Variants are
// not required to be mutually exclusive, hence anyOf rather than oneOf.
func (b *Builder) BuildEnum(attrs AttributeSet, variants []Variant, tagging EnumTagging) (bson.D, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: enum has no variants", ErrUnsupportedShape)
	}
	renameAll, err := attrs.RenameAll()
	if err != nil {
		return nil, err
	}

	anyOf := make(bson.A, 0, len(variants))
	for _, v := range variants {
		d, err := b.BuildVariant(v, renameAll, tagging)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		anyOf = append(anyOf, d)
	}

	d := bson.D{{Key: "anyOf", Value: anyOf}}
	doc, err := attrs.Doc()
	if err != nil {
		return nil, err
	}
	if doc != "" {
		d = prepend(d, "description", doc)
	}
	return d, nil
}
