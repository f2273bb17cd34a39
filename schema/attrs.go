package schema

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pablor21/magnet/annotations"
)

// Namespace partitions attribute keys. Lookups never cross namespaces.
type Namespace string

const (
	// Magnet holds the schema-only keys: rename, bounds, doc.
	Magnet Namespace = annotations.MagnetName
	// Bson holds the keys shared with the serializer: rename, rename_all,
	// tag, content, untagged.
	Bson Namespace = annotations.BsonName
)

// Attribute is one key of an annotation, with its literal value or nil for a
// bare word.
type Attribute struct {
	Namespace Namespace
	Key       string
	Value     *annotations.Literal
	Source    string // where it was written, for messages
}

func (a Attribute) String() string {
	if a.Value == nil {
		return fmt.Sprintf("%s(%s)", a.Namespace, a.Key)
	}
	return fmt.Sprintf("%s(%s=%s)", a.Namespace, a.Key, a.Value)
}

// AttributeSet is the attributes of one declaration site in source order.
// Duplicate keys are kept; lookups see only the first.
type AttributeSet []Attribute

// FromAnnotations collects the magnet and bson annotations. Others are ignored.
func FromAnnotations(anns []annotations.Annotation, source string) AttributeSet {
	var set AttributeSet
	for _, ann := range anns {
		switch {
		case annotations.MatchesAnnotation(ann.Name, "", annotations.MagnetName):
			set = append(set, FromParams(Magnet, ann.Params, source)...)
		case annotations.MatchesAnnotation(ann.Name, "", annotations.BsonName):
			set = append(set, FromParams(Bson, ann.Params, source)...)
		}
	}
	return set
}

// FromParams wraps params of one namespace. Positional params are dropped.
func FromParams(ns Namespace, params []annotations.Param, source string) AttributeSet {
	set := make(AttributeSet, 0, len(params))
	for _, p := range params {
		if p.Key == "" {
			continue
		}
		set = append(set, Attribute{Namespace: ns, Key: p.Key, Value: p.Value, Source: source})
	}
	return set
}

// FromStructTag reads the bson and magnet keys of a struct tag, with or
// without the surrounding backquotes.
func FromStructTag(tag string, source string) AttributeSet {
	if tag == "" {
		return nil
	}
	tags := annotations.ParseStructTags(tag)
	var set AttributeSet
	if v, ok := tags.GetTagValue(annotations.MagnetName); ok {
		set = append(set, FromParams(Magnet, annotations.MagnetTagParams(v), source)...)
	}
	if v, ok := tags.GetTagValue(annotations.BsonName); ok {
		set = append(set, FromParams(Bson, annotations.BsonTagParams(v), source)...)
	}
	return set
}

// Merge returns the attributes of s followed by those of other.
func (s AttributeSet) Merge(other AttributeSet) AttributeSet {
	out := make(AttributeSet, 0, len(s)+len(other))
	out = append(out, s...)
	return append(out, other...)
}

func (s AttributeSet) find(ns Namespace, key string) (Attribute, bool) {
	for _, a := range s {
		if a.Namespace == ns && a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// NameValue returns the value of the first ns(key = value) attribute, or nil
// when the key is absent.
func (s AttributeSet) NameValue(ns Namespace, key string) (*annotations.Literal, error) {
	a, ok := s.find(ns, key)
	if !ok {
		return nil, nil
	}
	if a.Value == nil {
		return nil, fmt.Errorf("%w: attribute must have form %s(%s = \"...\")", ErrMalformedAttribute, ns, key)
	}
	return a.Value, nil
}

// Word reports whether the bare word ns(key) is present.
func (s AttributeSet) Word(ns Namespace, key string) (bool, error) {
	a, ok := s.find(ns, key)
	if !ok {
		return false, nil
	}
	if a.Value != nil {
		return false, fmt.Errorf("%w: attribute must have form %s(%s), got %s", ErrMalformedAttribute, ns, key, a)
	}
	return true, nil
}

// Text returns the string value of ns(key), or nil when absent.
func (s AttributeSet) Text(ns Namespace, key string) (*string, error) {
	lit, err := s.NameValue(ns, key)
	if err != nil || lit == nil {
		return nil, err
	}
	v, err := ValueAsString(lit)
	if err != nil {
		return nil, fmt.Errorf("%s(%s): %w", ns, key, err)
	}
	return &v, nil
}

// Number returns the numeric value of ns(key), or nil when absent.
func (s AttributeSet) Number(ns Namespace, key string) (*float64, error) {
	lit, err := s.NameValue(ns, key)
	if err != nil || lit == nil {
		return nil, err
	}
	v, err := ValueAsNumber(lit)
	if err != nil {
		return nil, fmt.Errorf("%s(%s): %w", ns, key, err)
	}
	return &v, nil
}

// Rename returns the explicit name override. The magnet namespace wins over
// bson.
func (s AttributeSet) Rename() (*string, error) {
	name, err := s.Text(Magnet, "rename")
	if err != nil || name != nil {
		return name, err
	}
	return s.Text(Bson, "rename")
}

// Doc returns the magnet(doc) text or "".
func (s AttributeSet) Doc() (string, error) {
	doc, err := s.Text(Magnet, "doc")
	if err != nil || doc == nil {
		return "", err
	}
	return *doc, nil
}

// RenameAll returns the bson(rename_all) rule, or nil when absent.
func (s AttributeSet) RenameAll() (*RenameRule, error) {
	name, err := s.Text(Bson, "rename_all")
	if err != nil || name == nil {
		return nil, err
	}
	rule, err := ParseRenameRule(*name)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ValueAsString accepts string literals and byte strings holding UTF-8 text.
func ValueAsString(lit *annotations.Literal) (string, error) {
	switch lit.Kind {
	case annotations.LitString:
		return lit.Value, nil
	case annotations.LitByteString:
		if !utf8.ValidString(lit.Value) {
			return "", fmt.Errorf("%w: byte string %s is not valid UTF-8", ErrInvalidEncoding, lit)
		}
		return lit.Value, nil
	default:
		return "", fmt.Errorf("%w: attribute value must be a valid UTF-8 string, got %s %s", ErrInvalidEncoding, lit.Kind, lit)
	}
}

// ValueAsNumber accepts float literals, integer literals that a float64 holds
// exactly, and strings that parse as numbers.
func ValueAsNumber(lit *annotations.Literal) (float64, error) {
	switch lit.Kind {
	case annotations.LitFloat:
		return parseFinite(lit.Value)
	case annotations.LitInt:
		n, ok := new(big.Int).SetString(lit.Value, 10)
		if !ok {
			return 0, fmt.Errorf("%w: invalid integer %s", ErrNumericParse, lit)
		}
		f, acc := new(big.Float).SetInt(n).Float64()
		if acc != big.Exact {
			return 0, fmt.Errorf("%w: integer %s can't be exactly represented by float64", ErrNumericParse, lit)
		}
		return f, nil
	case annotations.LitString:
		return parseFinite(lit.Value)
	case annotations.LitByteString:
		if !utf8.ValidString(lit.Value) {
			return 0, fmt.Errorf("%w: byte string %s is not valid UTF-8", ErrNumericParse, lit)
		}
		return parseFinite(lit.Value)
	default:
		return 0, fmt.Errorf("%w: attribute value must be a number, got %s %s", ErrNumericParse, lit.Kind, lit)
	}
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrNumericParse, s)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrNumericParse, s)
	}
	return f, nil
}
