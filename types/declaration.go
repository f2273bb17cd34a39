package types

import (
	"fmt"
	"go/ast"
	gotypes "go/types"

	"github.com/pablor21/magnet/annotations"
	"github.com/pablor21/magnet/schema"
	"github.com/pablor21/magnet/utils"
	"golang.org/x/tools/go/packages"
)

// Declaration converts a scanned type into the builder's view of it.
//
//   - struct literals become named fields, a unit when empty, or positional
//     fields with @magnet(tuple)
//   - any other defined type is a newtype over its underlying type, carrying
//     the type attributes on its single field
//   - @BsonSchema interfaces are enums whose variants are the implementing
//     types of the same package, in declaration order
//   - interfaces with type terms are unions
func (r *Resolver) Declaration(ti *TypeInfo) (schema.Declaration, error) {
	decl := schema.Declaration{Name: ti.Name}
	if ti.IsGeneric {
		return decl, &schema.DerivationError{Type: ti.Name, Err: fmt.Errorf("%w: generic type", schema.ErrUnsupportedShape)}
	}
	decl.Attrs = r.typeAttrs(ti)

	switch t := ti.TypeSpec.Type.(type) {
	case *ast.StructType:
		decl.Kind = schema.KindStruct
		fields, err := r.astFields(ti.Package, t, map[string]bool{ti.CanonicalName: true})
		if err != nil {
			return decl, &schema.DerivationError{Type: ti.Name, Err: err}
		}
		tuple, err := decl.Attrs.Word(schema.Magnet, "tuple")
		if err != nil {
			return decl, &schema.DerivationError{Type: ti.Name, Err: err}
		}
		switch {
		case tuple:
			for i := range fields {
				fields[i].Name = ""
			}
			decl.Shape = schema.Positional(fields...)
		default:
			decl.Shape = structShape(fields)
		}

	case *ast.InterfaceType:
		iface, _ := ti.Object.Type().Underlying().(*gotypes.Interface)
		if iface == nil || !iface.IsMethodSet() {
			decl.Kind = schema.KindUnion
			return decl, nil
		}
		decl.Kind = schema.KindEnum
		variants, err := r.variants(ti, iface)
		if err != nil {
			return decl, &schema.DerivationError{Type: ti.Name, Err: err}
		}
		decl.Variants = variants

	default:
		decl.Kind = schema.KindStruct
		inner := ti.Package.TypesInfo.TypeOf(ti.TypeSpec.Type)
		decl.Shape = schema.Positional(schema.Field{Type: Ref{Type: inner}, Attrs: decl.Attrs})
	}
	return decl, nil
}

// structShape is Named, or Unit when there is nothing to encode.
func structShape(fields []schema.Field) schema.TypeShape {
	if len(fields) == 0 {
		return schema.Unit()
	}
	return schema.Named(fields...)
}

func (r *Resolver) typeAttrs(ti *TypeInfo) schema.AttributeSet {
	attrs := schema.FromAnnotations(ti.Annotations, ti.Position().String())
	return r.withCommentDoc(attrs, ti.Comment)
}

// withCommentDoc adds the Go doc comment as doc when configured and no
// explicit doc exists.
func (r *Resolver) withCommentDoc(attrs schema.AttributeSet, comment string) schema.AttributeSet {
	if !r.ctx.Config.Schema.DescriptionsFromComments || comment == "" {
		return attrs
	}
	if lit, _ := attrs.NameValue(schema.Magnet, "doc"); lit != nil {
		return attrs
	}
	return append(attrs, schema.Attribute{
		Namespace: schema.Magnet,
		Key:       "doc",
		Value:     annotations.StringLiteral(comment),
		Source:    "doc comment",
	})
}

// astFields lists the encodable fields of a struct literal with their comment
// annotations and tags. seen guards inline embedding cycles.
func (r *Resolver) astFields(pkg *packages.Package, st *ast.StructType, seen map[string]bool) ([]schema.Field, error) {
	var fields []schema.Field
	for _, f := range st.Fields.List {
		t := pkg.TypesInfo.TypeOf(f.Type)
		pos := pkg.Fset.Position(f.Pos())
		comments := []*ast.CommentGroup{f.Doc, f.Comment}
		anns := annotations.ParseAnnotations(comments)
		r.result.checkAnnotations(r.ctx, anns, annotations.AnnotationValidOnField, pos)

		// comment annotations come first so they win over tags
		attrs := schema.FromAnnotations(anns, pos.String())
		if f.Tag != nil {
			attrs = attrs.Merge(schema.FromStructTag(f.Tag.Value, pos.String()))
		}
		attrs = r.withCommentDoc(attrs, utils.ExtractCommentText(comments))

		if len(f.Names) == 0 {
			embedded, err := r.embeddedField(t, attrs, seen)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", embeddedName(t), err)
			}
			fields = append(fields, embedded...)
			continue
		}
		for _, name := range f.Names {
			if !name.IsExported() {
				continue
			}
			fields = append(fields, schema.Field{Name: name.Name, Type: Ref{Type: t}, Attrs: attrs})
		}
	}
	return fields, nil
}

// typesFields is astFields for structs known only through go/types. Only the
// struct tags carry attributes.
func (r *Resolver) typesFields(st *gotypes.Struct, seen map[string]bool) ([]schema.Field, error) {
	var fields []schema.Field
	for i := range st.NumFields() {
		v := st.Field(i)
		attrs := schema.FromStructTag(st.Tag(i), "tag of "+v.Name())
		if v.Embedded() {
			embedded, err := r.embeddedField(v.Type(), attrs, seen)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", v.Name(), err)
			}
			fields = append(fields, embedded...)
			continue
		}
		if !v.Exported() {
			continue
		}
		fields = append(fields, schema.Field{Name: v.Name(), Type: Ref{Type: v.Type()}, Attrs: attrs})
	}
	return fields, nil
}

// embeddedField flattens an inline embedded struct or returns the embedded
// type as a regular field named after the type.
func (r *Resolver) embeddedField(t gotypes.Type, attrs schema.AttributeSet, seen map[string]bool) ([]schema.Field, error) {
	name := embeddedName(t)
	if !ast.IsExported(name) {
		return nil, nil
	}
	inline, err := attrs.Word(schema.Bson, "inline")
	if err != nil {
		return nil, err
	}
	skip, err := attrs.Word(schema.Bson, "skip")
	if err != nil {
		return nil, err
	}
	if !inline || skip {
		return []schema.Field{{Name: name, Type: Ref{Type: t}, Attrs: attrs}}, nil
	}

	if p, ok := t.(*gotypes.Pointer); ok {
		t = p.Elem()
	}
	named, _ := gotypes.Unalias(t).(*gotypes.Named)
	if named == nil {
		return nil, fmt.Errorf("%w: cannot inline %s", schema.ErrUnsupportedShape, t)
	}
	q := utils.QualifiedName(named.Obj())
	if seen[q] {
		return nil, fmt.Errorf("%w: %s inlines itself", schema.ErrUnsupportedShape, q)
	}
	seen[q] = true
	defer delete(seen, q)

	if ti, ok := r.result.Elements[q]; ok {
		if st, ok := ti.TypeSpec.Type.(*ast.StructType); ok {
			return r.astFields(ti.Package, st, seen)
		}
	}
	st, ok := named.Underlying().(*gotypes.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: inline field %s is not a struct", schema.ErrUnsupportedShape, q)
	}
	return r.typesFields(st, seen)
}

// embeddedName is the implicit field name of an embedded type.
func embeddedName(t gotypes.Type) string {
	if p, ok := t.(*gotypes.Pointer); ok {
		t = p.Elem()
	}
	switch t := t.(type) {
	case *gotypes.Named:
		return t.Obj().Name()
	case *gotypes.Alias:
		return t.Obj().Name()
	case *gotypes.Basic:
		return t.Name()
	}
	return t.String()
}

// variants lists the types of the enum's package implementing iface.
func (r *Resolver) variants(ti *TypeInfo, iface *gotypes.Interface) ([]schema.Variant, error) {
	if iface.NumMethods() == 0 {
		return nil, fmt.Errorf("%w: enum interface %s declares no methods", schema.ErrUnsupportedShape, ti.Name)
	}
	var variants []schema.Variant
	for _, other := range r.result.PackageTypes(ti.PkgPath) {
		if other == ti || other.IsGeneric || other.Kind == TypeKindInterface || other.Kind == TypeKindAlias {
			continue
		}
		t := other.Object.Type()
		if !gotypes.Implements(t, iface) && !gotypes.Implements(gotypes.NewPointer(t), iface) {
			continue
		}
		decl, err := r.Declaration(other)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", other.Name, err)
		}
		variants = append(variants, schema.Variant{Name: other.Name, Shape: decl.Shape, Attrs: decl.Attrs})
	}
	return variants, nil
}
