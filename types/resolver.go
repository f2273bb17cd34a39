package types

import (
	"fmt"
	gotypes "go/types"

	"github.com/pablor21/magnet/primitives"
	"github.com/pablor21/magnet/schema"
	"github.com/pablor21/magnet/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// Ref is a schema.TypeRef backed by a go/types type.
type Ref struct {
	Type gotypes.Type
}

func (r Ref) String() string {
	return gotypes.TypeString(r.Type, nil)
}

// Resolver implements schema.Resolver over go/types. Named types declared in
// the scanned packages are derived from their declaration, everything else
// from the primitive table or its underlying type.
type Resolver struct {
	ctx     *ProcessContext
	result  *ProcessResult
	builder *schema.Builder
	cache   map[string]bson.D
	active  map[string]bool
}

// NewResolver returns a Resolver over the types indexed in pr.
func NewResolver(ctx *ProcessContext, pr *ProcessResult) *Resolver {
	r := &Resolver{
		ctx:    ctx,
		result: pr,
		cache:  map[string]bson.D{},
		active: map[string]bool{},
	}
	var opts []schema.Option
	if naming := ctx.Config.Schema.FieldNaming; naming != "" && naming != "none" {
		rule, err := schema.ParseRenameRule(naming)
		if err != nil {
			ctx.Logger.Warn("ignoring field_naming", "value", naming, "error", err)
		} else {
			opts = append(opts, schema.WithDefaultFieldRule(rule))
		}
	}
	r.builder = schema.NewBuilder(r, opts...)
	return r
}

// Builder returns the schema builder bound to r.
func (r *Resolver) Builder() *schema.Builder {
	return r.builder
}

// Schema returns the derived schema of a scanned type. Results are memoised;
// every call returns a fresh copy.
func (r *Resolver) Schema(ti *TypeInfo) (bson.D, error) {
	if d, ok := r.cache[ti.CanonicalName]; ok {
		return schema.Copy(d), nil
	}
	decl, err := r.Declaration(ti)
	if err != nil {
		return nil, err
	}
	return r.derive(ti, decl)
}

func (r *Resolver) derive(ti *TypeInfo, decl schema.Declaration) (bson.D, error) {
	return r.memo(ti.CanonicalName, func() (bson.D, error) {
		return r.builder.Derive(decl)
	})
}

// Resolve implements schema.Resolver.
func (r *Resolver) Resolve(ref schema.TypeRef) (bson.D, error) {
	tr, ok := ref.(Ref)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected type reference %T", schema.ErrUnsupportedShape, ref)
	}
	return r.resolve(tr.Type)
}

func (r *Resolver) resolve(t gotypes.Type) (bson.D, error) {
	if alias, ok := t.(*gotypes.Alias); ok {
		if d, ok := primitives.WellKnown(utils.QualifiedName(alias.Obj())); ok {
			return d, nil
		}
		t = gotypes.Unalias(alias)
	}

	switch t := t.(type) {
	case *gotypes.Basic:
		return r.resolveBasic(t)

	case *gotypes.Named:
		return r.resolveNamed(t)

	case *gotypes.Pointer:
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(elem), nil

	case *gotypes.Slice:
		// nil slices are stored as null
		if isByte(t.Elem()) {
			return primitives.Nullable(primitives.Binary()), nil
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(primitives.Array(elem)), nil

	case *gotypes.Array:
		if isByte(t.Elem()) {
			return primitives.Binary(), nil
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.FixedArray(elem, t.Len()), nil

	case *gotypes.Map:
		if !isMapKey(t.Key()) {
			return nil, fmt.Errorf("%w: map key %s is not a string or integer", schema.ErrUnsupportedShape, t.Key())
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(primitives.Map(elem)), nil

	case *gotypes.Struct:
		fields, err := r.typesFields(t, map[string]bool{})
		if err != nil {
			return nil, err
		}
		return r.builder.BuildFields(structShape(fields), nil, nil, nil)

	case *gotypes.Interface:
		if !t.IsMethodSet() {
			return nil, fmt.Errorf("%w: constraint interface %s", schema.ErrUnsupportedShape, t)
		}
		return primitives.Any(), nil

	default:
		return nil, fmt.Errorf("%w: %s has no BSON representation", schema.ErrUnsupportedShape, t)
	}
}

func (r *Resolver) resolveBasic(t *gotypes.Basic) (bson.D, error) {
	if t.Kind() == gotypes.UnsafePointer || primitives.IsUnsupportedBuiltin(t.Name()) {
		return nil, fmt.Errorf("%w: %s has no BSON representation", schema.ErrUnsupportedShape, t)
	}
	if d, ok := primitives.Builtin(t.Name()); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: basic type %s", schema.ErrUnsupportedShape, t)
}

func (r *Resolver) resolveNamed(t *gotypes.Named) (bson.D, error) {
	obj := t.Obj()
	q := utils.QualifiedName(obj)
	if obj.Pkg() == nil && primitives.IsUnsupportedBuiltin(obj.Name()) {
		return nil, fmt.Errorf("%w: %s has no BSON representation", schema.ErrUnsupportedShape, q)
	}
	if d, ok := primitives.WellKnown(q); ok {
		return d, nil
	}
	if t.TypeArgs().Len() > 0 {
		return nil, fmt.Errorf("%w: generic type %s", schema.ErrUnsupportedShape, t)
	}

	if ti, ok := r.result.Elements[q]; ok && ti.Kind != TypeKindAlias {
		// plain method interfaces are open, only @BsonSchema ones are enums
		if ti.Kind != TypeKindInterface || ti.Opted() {
			return r.Schema(ti)
		}
	}

	// declared outside the scanned packages
	return r.memo(q, func() (bson.D, error) {
		return r.resolve(t.Underlying())
	})
}

// memo caches fn under key and detects recursion through key.
func (r *Resolver) memo(key string, fn func() (bson.D, error)) (bson.D, error) {
	if d, ok := r.cache[key]; ok {
		return schema.Copy(d), nil
	}
	if r.active[key] {
		return nil, fmt.Errorf("%w: recursive type %s", schema.ErrUnsupportedShape, key)
	}
	r.active[key] = true
	defer delete(r.active, key)

	d, err := fn()
	if err != nil {
		return nil, err
	}
	r.cache[key] = d
	return schema.Copy(d), nil
}

func isByte(t gotypes.Type) bool {
	b, ok := gotypes.Unalias(t).(*gotypes.Basic)
	return ok && b.Kind() == gotypes.Uint8
}

func isMapKey(t gotypes.Type) bool {
	b, ok := t.Underlying().(*gotypes.Basic)
	if !ok {
		return false
	}
	return b.Info()&(gotypes.IsString|gotypes.IsInteger) != 0
}
