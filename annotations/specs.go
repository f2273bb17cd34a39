package annotations

import (
	"fmt"
	"slices"
	"strings"
)

// Annotation names understood by magnet.
const (
	MarkerName = "BsonSchema" // opt-in marker on a type declaration
	MagnetName = "magnet"     // product namespace
	BsonName   = "bson"       // serialization namespace, mirrors the bson struct tag
)

// Definitions contains the annotation and struct tag specifications
type Definitions struct {
	Annotations []AnnotationSpec `json:"annotations"`
	StructTags  []TagParam       `json:"structTags"`
}

// GetAnnotationSpecByName finds an annotation specification by name or alias
func (d Definitions) GetAnnotationSpecByName(name string) *AnnotationSpec {
	name = NormalizeAnnotationName(name)
	for i := range d.Annotations {
		if NormalizeAnnotationName(d.Annotations[i].Name) == name {
			return &d.Annotations[i]
		}
		for _, alias := range d.Annotations[i].Aliases {
			if NormalizeAnnotationName(alias) == name {
				return &d.Annotations[i]
			}
		}
	}
	return nil
}

// GetStructTagSpecByName finds a struct tag specification by name or alias
func (d Definitions) GetStructTagSpecByName(name string) *TagParam {
	name = NormalizeTagName(name)
	for i := range d.StructTags {
		if NormalizeTagName(d.StructTags[i].Name) == name {
			return &d.StructTags[i]
		}
		for _, alias := range d.StructTags[i].Aliases {
			if NormalizeTagName(alias) == name {
				return &d.StructTags[i]
			}
		}
	}
	return nil
}

// Param finds a parameter specification by name
func (s *AnnotationSpec) Param(name string) *AnnotationParam {
	for i := range s.Params {
		if s.Params[i].Name == name {
			return &s.Params[i]
		}
	}
	return nil
}

// Check returns human readable problems found in ann when used on the given
// declaration site. Problems are advisory; derivation reports real errors.
func (s *AnnotationSpec) Check(ann Annotation, on AnnotationValidOn) []string {
	var problems []string
	if !validOn(s.ValidOn, on) {
		problems = append(problems, fmt.Sprintf("@%s is not valid on a %s", s.Name, on))
	}
	for _, p := range ann.Params {
		ps := s.Param(p.Key)
		if ps == nil {
			problems = append(problems, fmt.Sprintf("@%s: unknown key %q", s.Name, p.Key))
			continue
		}
		if !validOn(ps.ValidOn, on) {
			problems = append(problems, fmt.Sprintf("@%s: key %q is not valid on a %s", s.Name, p.Key, on))
		}
		switch {
		case len(ps.Kinds) == 0 && !p.IsWord():
			problems = append(problems, fmt.Sprintf("@%s: key %q does not take a value", s.Name, p.Key))
		case len(ps.Kinds) > 0 && p.IsWord():
			problems = append(problems, fmt.Sprintf("@%s: key %q requires a value", s.Name, p.Key))
		case len(ps.Kinds) > 0 && !slices.Contains(ps.Kinds, p.Value.Kind):
			problems = append(problems, fmt.Sprintf("@%s: key %q does not accept a %s value", s.Name, p.Key, p.Value.Kind))
		}
	}
	return problems
}

func validOn(list []AnnotationValidOn, on AnnotationValidOn) bool {
	if len(list) == 0 || on == "" {
		return true
	}
	for _, v := range list {
		if v == AnnotationValidOnAll || v == on {
			return true
		}
		// named types cover structs and interfaces
		if v == AnnotationValidOnType && (on == AnnotationValidOnStruct || on == AnnotationValidOnInterface) {
			return true
		}
	}
	return false
}

var (
	textKinds   = []LitKind{LitString, LitByteString}
	numberKinds = []LitKind{LitInt, LitFloat, LitString, LitByteString}
)

// GetDefinitions returns the annotations and struct tags magnet understands
func GetDefinitions() Definitions {
	fieldOrType := []AnnotationValidOn{AnnotationValidOnField, AnnotationValidOnType}
	bound := func(name, desc string) AnnotationParam {
		return AnnotationParam{Name: name, Kinds: numberKinds, Description: desc, ValidOn: fieldOrType}
	}
	return Definitions{
		Annotations: []AnnotationSpec{
			{
				Name:        MarkerName,
				Description: "Derives a $jsonSchema document for the annotated type",
				ValidOn:     []AnnotationValidOn{AnnotationValidOnType},
			},
			{
				Name:        MagnetName,
				Description: "Schema attributes owned by magnet",
				Params: []AnnotationParam{
					{Name: "rename", Kinds: textKinds, Description: "Explicit property or variant name", ValidOn: fieldOrType},
					bound("min_incl", "Inclusive lower bound"),
					bound("min_excl", "Exclusive lower bound"),
					bound("max_incl", "Inclusive upper bound"),
					bound("max_excl", "Exclusive upper bound"),
					{Name: "doc", Kinds: textKinds, Description: "Description of the field or type"},
					{Name: "tuple", Description: "Encode the struct fields positionally", ValidOn: []AnnotationValidOn{AnnotationValidOnStruct}},
					{Name: "allow_extra_fields", Description: "Allow properties not declared on the struct", ValidOn: []AnnotationValidOn{AnnotationValidOnStruct}},
				},
			},
			{
				Name:        BsonName,
				Description: "Serialization attributes shared with the bson encoder",
				Params: []AnnotationParam{
					{Name: "rename", Kinds: textKinds, Description: "Explicit property or variant name", ValidOn: fieldOrType},
					{Name: "rename_all", Kinds: textKinds, Description: "Case rule for fields or variants", ValidOn: []AnnotationValidOn{AnnotationValidOnType}},
					{Name: "tag", Kinds: textKinds, Description: "Discriminant key of an internally or adjacently tagged enum", ValidOn: []AnnotationValidOn{AnnotationValidOnInterface}},
					{Name: "content", Kinds: textKinds, Description: "Payload key of an adjacently tagged enum", ValidOn: []AnnotationValidOn{AnnotationValidOnInterface}},
					{Name: "untagged", Description: "Encode variants without a discriminant", ValidOn: []AnnotationValidOn{AnnotationValidOnInterface}},
					{Name: "skip", Description: "Leave the field out of the schema", ValidOn: []AnnotationValidOn{AnnotationValidOnField}},
					{Name: "omitempty", Description: "Field is not required", ValidOn: []AnnotationValidOn{AnnotationValidOnField}},
					{Name: "inline", Description: "Flatten an embedded struct", ValidOn: []AnnotationValidOn{AnnotationValidOnField}},
					{Name: "minsize", Description: "Accepted for bson tag compatibility", ValidOn: []AnnotationValidOn{AnnotationValidOnField}},
					{Name: "truncate", Description: "Accepted for bson tag compatibility", ValidOn: []AnnotationValidOn{AnnotationValidOnField}},
				},
			},
		},
		StructTags: []TagParam{
			{Name: BsonName, Description: "mongo-driver field tag: name,omitempty,inline"},
			{Name: MagnetName, Description: "magnet attributes: key=value list"},
		},
	}
}

// NormalizeAnnotationName normalizes annotation names for comparison (case-insensitive)
func NormalizeAnnotationName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTagName normalizes struct tag names for comparison (case-insensitive)
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
