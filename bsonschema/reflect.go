package bsonschema

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/pablor21/magnet/primitives"
	"github.com/pablor21/magnet/schema"
)

var schemerType = reflect.TypeFor[BsonSchemer]()

// Of returns the schema of T.
func Of[T any]() (bson.D, error) {
	return For(reflect.TypeFor[T]())
}

// For returns the schema of t. Generated schemas and registered ones are used
// as they are. Other types are reflected with the same rules the generator
// applies, reading attributes from the bson and magnet struct tags only.
// Field names default to lowercase, as the mongo-driver encoder does.
func For(t reflect.Type) (bson.D, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", schema.ErrUnsupportedShape)
	}
	r := &resolver{active: map[reflect.Type]bool{}}
	r.builder = schema.NewBuilder(r, schema.WithDefaultFieldRule(schema.LowerCase))
	d, err := r.resolve(t)
	if err != nil {
		return nil, &schema.DerivationError{Type: t.String(), Err: err}
	}
	return d, nil
}

type typeRef struct {
	t reflect.Type
}

func (r typeRef) String() string {
	return r.t.String()
}

type resolver struct {
	builder *schema.Builder
	active  map[reflect.Type]bool
}

func (r *resolver) Resolve(ref schema.TypeRef) (bson.D, error) {
	tr, ok := ref.(typeRef)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected type reference %T", schema.ErrUnsupportedShape, ref)
	}
	return r.resolve(tr.t)
}

func (r *resolver) resolve(t reflect.Type) (bson.D, error) {
	if d, ok := Lookup(t); ok {
		return d, nil
	}
	if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer && t.Implements(schemerType) {
		return reflect.Zero(t).Interface().(BsonSchemer).BsonSchema(), nil
	}
	if t.Name() != "" && t.PkgPath() != "" {
		if d, ok := primitives.WellKnown(t.PkgPath() + "." + t.Name()); ok {
			return d, nil
		}
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		d, _ := primitives.Builtin(t.Kind().String())
		return d, nil

	case reflect.Pointer:
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(elem), nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return primitives.Nullable(primitives.Binary()), nil
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(primitives.Array(elem)), nil

	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return primitives.Binary(), nil
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.FixedArray(elem, int64(t.Len())), nil

	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, fmt.Errorf("%w: map key %s is not a string or integer", schema.ErrUnsupportedShape, t.Key())
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return primitives.Nullable(primitives.Map(elem)), nil

	case reflect.Interface:
		return primitives.Any(), nil

	case reflect.Struct:
		return r.resolveStruct(t)

	default:
		return nil, fmt.Errorf("%w: %s has no BSON representation", schema.ErrUnsupportedShape, t)
	}
}

func (r *resolver) resolveStruct(t reflect.Type) (bson.D, error) {
	if r.active[t] {
		return nil, fmt.Errorf("%w: recursive type %s", schema.ErrUnsupportedShape, t)
	}
	r.active[t] = true
	defer delete(r.active, t)

	fields, err := r.fields(t)
	if err != nil {
		return nil, err
	}
	shape := schema.Unit()
	if len(fields) > 0 {
		shape = schema.Named(fields...)
	}
	return r.builder.BuildFields(shape, nil, nil, nil)
}

// fields lists the encoded fields of a struct, flattening inline embedded
// structs the way the mongo-driver encoder does.
func (r *resolver) fields(t reflect.Type) ([]schema.Field, error) {
	var fields []schema.Field
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			// the encoder ignores unexported fields, embedded or not
			continue
		}
		attrs := schema.FromStructTag(string(f.Tag), t.String()+"."+f.Name)

		if f.Anonymous {
			inline, err := attrs.Word(schema.Bson, "inline")
			if err != nil {
				return nil, err
			}
			skip, _ := attrs.Word(schema.Bson, "skip")
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if inline && !skip {
				if ft.Kind() != reflect.Struct {
					return nil, fmt.Errorf("%w: inline field %s is not a struct", schema.ErrUnsupportedShape, f.Name)
				}
				if r.active[ft] {
					return nil, fmt.Errorf("%w: %s inlines itself", schema.ErrUnsupportedShape, ft)
				}
				r.active[ft] = true
				inner, err := r.fields(ft)
				delete(r.active, ft)
				if err != nil {
					return nil, err
				}
				fields = append(fields, inner...)
				continue
			}
		}
		fields = append(fields, schema.Field{Name: f.Name, Type: typeRef{t: f.Type}, Attrs: attrs})
	}
	return fields, nil
}
