package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// DeclKind is the kind of an annotated declaration.
type DeclKind int

const (
	KindStruct DeclKind = iota
	KindEnum
	KindUnion
)

func (k DeclKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	default:
		return "struct"
	}
}

// Declaration is everything the builder needs to know about one type.
type Declaration struct {
	Name     string
	Kind     DeclKind
	Attrs    AttributeSet
	Shape    TypeShape // KindStruct
	Variants []Variant // KindEnum
}

// Derive returns the schema of decl. Errors are *DerivationError values
// wrapping one of the package's error kinds.
func (b *Builder) Derive(decl Declaration) (bson.D, error) {
	d, err := b.derive(decl)
	if err != nil {
		return nil, &DerivationError{Type: decl.Name, Err: err}
	}
	return d, nil
}

func (b *Builder) derive(decl Declaration) (bson.D, error) {
	switch decl.Kind {
	case KindStruct:
		renameAll, err := decl.Attrs.RenameAll()
		if err != nil {
			return nil, err
		}
		d, err := b.BuildFields(decl.Shape, decl.Attrs, renameAll, nil)
		if err != nil {
			return nil, err
		}
		if decl.Shape.Kind == ShapeNamed {
			// named fields merge the container doc themselves
			return d, nil
		}
		doc, err := decl.Attrs.Doc()
		if err != nil {
			return nil, err
		}
		return ExtendWithDoc(d, doc), nil

	case KindEnum:
		tagging, err := ResolveTagging(decl.Attrs)
		if err != nil {
			return nil, err
		}
		return b.BuildEnum(decl.Attrs, decl.Variants, tagging)

	case KindUnion:
		return nil, fmt.Errorf("%w: unions have no BsonSchema", ErrUnsupportedShape)

	default:
		return nil, fmt.Errorf("%w: unknown declaration kind %d", ErrUnsupportedShape, decl.Kind)
	}
}
