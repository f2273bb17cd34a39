// Package schema derives MongoDB $jsonSchema documents from declaration shapes
// and their magnet/bson attributes.
//
// The package is pure: it performs no I/O, keeps no state between calls and
// asks a Resolver for the schema of every nested type.
package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Builder turns shapes into schema documents.
type Builder struct {
	resolver         Resolver
	defaultFieldRule *RenameRule
}

// Option configures a Builder.
type Option func(*Builder)

// WithDefaultFieldRule sets the rule used for field names when the container
// declares no rename_all. Without it field names are used as written.
func WithDefaultFieldRule(rule RenameRule) Option {
	return func(b *Builder) {
		b.defaultFieldRule = &rule
	}
}

// NewBuilder creates a Builder that resolves nested types with r.
func NewBuilder(r Resolver, opts ...Option) *Builder {
	b := &Builder{resolver: r}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// fieldSchema resolves the field type and applies its bounds and doc.
func (b *Builder) fieldSchema(f Field) (bson.D, error) {
	if b.resolver == nil {
		return nil, fmt.Errorf("no resolver for type %s", f.Type)
	}
	d, err := b.resolver.Resolve(f.Type)
	if err != nil {
		return nil, err
	}
	bounds, err := BoundsFromAttributes(f.Attrs)
	if err != nil {
		return nil, err
	}
	doc, err := f.Attrs.Doc()
	if err != nil {
		return nil, err
	}
	return ExtendWithDoc(ExtendWithBounds(d, bounds), doc), nil
}
