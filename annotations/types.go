// Package annotations parses the comment annotations (@name(params)) and struct tags
// attached to Go declarations.
package annotations

// StructTags represents parsed struct tags keyed by tag name (bson, magnet, json...).
type StructTags map[string]string

// LitKind is the lexical kind of an annotation value.
type LitKind int

const (
	LitString     LitKind = iota // "text", 'text' or `text`
	LitByteString                // b"text", may carry arbitrary bytes
	LitInt                       // 42, -180, 0x1F
	LitFloat                     // 1.5, -2e10
	LitBool                      // true, false
	LitIdent                     // anything else, kept verbatim
)

func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitByteString:
		return "byte string"
	case LitInt:
		return "integer"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	default:
		return "identifier"
	}
}

// Literal is a typed annotation value.
type Literal struct {
	Kind LitKind
	Raw  string // source text as written
	// Value is the decoded text for strings, the raw bytes for byte strings and
	// the normalized source text (underscores removed) for numbers.
	Value string
}

// Param is a single annotation argument. Value is nil for bare words such as
// the "untagged" in @bson(untagged).
type Param struct {
	Key   string
	Value *Literal
}

// IsWord reports whether the param is a bare word without a value.
func (p Param) IsWord() bool {
	return p.Value == nil
}

// Annotation represents a parsed annotation from Go comments (@name(params))
type Annotation struct {
	Name    string  // e.g., "magnet", "bson", "BsonSchema"
	Params  []Param // in source order, duplicates kept
	RawText string  // original text
}

// AnnotationValidOn represents where an annotation can be used
type AnnotationValidOn string

const (
	AnnotationValidOnStruct    AnnotationValidOn = "struct"
	AnnotationValidOnField     AnnotationValidOn = "field"
	AnnotationValidOnInterface AnnotationValidOn = "interface"
	AnnotationValidOnType      AnnotationValidOn = "type"
	AnnotationValidOnAll       AnnotationValidOn = "all"
)

// AnnotationParam defines a parameter for an annotation specification
type AnnotationParam struct {
	Name        string              `yaml:"name" json:"name"`
	Kinds       []LitKind           `yaml:"kinds" json:"kinds"` // empty means a bare word
	Description string              `yaml:"description" json:"description"`
	ValidOn     []AnnotationValidOn `yaml:"validOn" json:"validOn"`
}

// AnnotationSpec defines the specification for an annotation
type AnnotationSpec struct {
	// Annotation name, for example: "magnet", "bson"
	Name        string              `yaml:"name" json:"name"`
	Params      []AnnotationParam   `yaml:"params" json:"params"`
	ValidOn     []AnnotationValidOn `yaml:"validOn" json:"validOn"` // nil or empty means all
	Aliases     []string            `yaml:"aliases" json:"aliases"`
	Description string              `yaml:"description" json:"description"`
}

// TagParam defines a struct tag specification
type TagParam struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
}

// Param returns the first param with the given key
func (a Annotation) Param(key string) (Param, bool) {
	for _, p := range a.Params {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}
