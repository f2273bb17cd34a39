package schema

import "fmt"

// TaggingKind is how an enum marks which variant a document holds.
type TaggingKind int

const (
	// External wraps the payload in a single-key object named after the variant.
	External TaggingKind = iota
	// Untagged uses the payload schema as is.
	Untagged
	// Internal adds the variant name under Tag to the payload object.
	Internal
	// Adjacent stores the variant name under Tag and the payload under Content.
	Adjacent
)

func (k TaggingKind) String() string {
	switch k {
	case Untagged:
		return "untagged"
	case Internal:
		return "internal"
	case Adjacent:
		return "adjacent"
	default:
		return "external"
	}
}

// EnumTagging is the tagging convention of one enum.
type EnumTagging struct {
	Kind    TaggingKind
	Tag     string // Internal and Adjacent
	Content string // Adjacent
}

func (t EnumTagging) String() string {
	switch t.Kind {
	case Internal:
		return fmt.Sprintf("internal(tag=%q)", t.Tag)
	case Adjacent:
		return fmt.Sprintf("adjacent(tag=%q, content=%q)", t.Tag, t.Content)
	default:
		return t.Kind.String()
	}
}

// ResolveTagging reads bson(tag, content, untagged). A tag takes precedence
// over untagged.
func ResolveTagging(attrs AttributeSet) (EnumTagging, error) {
	tag, err := attrs.Text(Bson, "tag")
	if err != nil {
		return EnumTagging{}, err
	}
	if tag != nil {
		content, err := attrs.Text(Bson, "content")
		if err != nil {
			return EnumTagging{}, err
		}
		if content != nil {
			return EnumTagging{Kind: Adjacent, Tag: *tag, Content: *content}, nil
		}
		return EnumTagging{Kind: Internal, Tag: *tag}, nil
	}

	untagged, err := attrs.Word(Bson, "untagged")
	if err != nil {
		return EnumTagging{}, err
	}
	if untagged {
		return EnumTagging{Kind: Untagged}, nil
	}
	return EnumTagging{Kind: External}, nil
}
