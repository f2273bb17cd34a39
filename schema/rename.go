package schema

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RenameRule is a case conversion applied to field or variant names.
type RenameRule int

const (
	LowerCase          RenameRule = iota // lowercase
	UpperCase                            // UPPERCASE
	PascalCase                           // PascalCase
	CamelCase                            // camelCase
	SnakeCase                            // snake_case
	ScreamingSnakeCase                   // SCREAMING_SNAKE_CASE
	KebabCase                            // kebab-case
	ScreamingKebabCase                   // SCREAMING-KEBAB-CASE
)

var ruleNames = map[RenameRule]string{
	LowerCase:          "lowercase",
	UpperCase:          "UPPERCASE",
	PascalCase:         "PascalCase",
	CamelCase:          "camelCase",
	SnakeCase:          "snake_case",
	ScreamingSnakeCase: "SCREAMING_SNAKE_CASE",
	KebabCase:          "kebab-case",
	ScreamingKebabCase: "SCREAMING-KEBAB-CASE",
}

func (r RenameRule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RenameRule(%d)", int(r))
}

// ParseRenameRule parses the rule names accepted by bson(rename_all).
func ParseRenameRule(s string) (RenameRule, error) {
	for rule, name := range ruleNames {
		if name == s {
			return rule, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rename rule %q", ErrMalformedAttribute, s)
}

// ApplyToField converts a field name. Go field names are MixedCaps, so word
// boundaries come from case changes and separators. Acronyms and digits stay
// in their word, which keeps every rule idempotent.
func (r RenameRule) ApplyToField(name string) string {
	return r.apply(name)
}

// ApplyToVariant converts a variant (type) name. Go type names are already
// PascalCase, so that rule leaves them untouched.
func (r RenameRule) ApplyToVariant(name string) string {
	if r == PascalCase {
		return name
	}
	return r.apply(name)
}

func (r RenameRule) apply(name string) string {
	switch r {
	case LowerCase:
		return strings.ToLower(name)
	case UpperCase:
		return strings.ToUpper(name)
	case PascalCase:
		w := words(name)
		for i := range w {
			w[i] = upperFirst(w[i])
		}
		return strings.Join(w, "")
	case CamelCase:
		w := words(name)
		for i := range w {
			if i == 0 {
				w[i] = strings.ToLower(w[i])
			} else {
				w[i] = upperFirst(w[i])
			}
		}
		return strings.Join(w, "")
	case SnakeCase:
		return strings.ToLower(strings.Join(words(name), "_"))
	case ScreamingSnakeCase:
		return strings.ToUpper(strings.Join(words(name), "_"))
	case KebabCase:
		return strings.ToLower(strings.Join(words(name), "-"))
	case ScreamingKebabCase:
		return strings.ToUpper(strings.Join(words(name), "-"))
	default:
		return name
	}
}

// words splits name at separators, before an upper case letter that follows
// a lower case letter or a digit, and before the last letter of an acronym
// that starts a new word ("HTTPServer" is HTTP, Server).
func words(name string) []string {
	var out []string
	runes := []rune(name)
	start := 0
	flush := func(end int) {
		if end > start {
			out = append(out, string(runes[start:end]))
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush(i)
			start = i + 1
		case i > start && unicode.IsUpper(r):
			prev := runes[i-1]
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return out
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

// NameKind selects the rename entry point.
type NameKind int

const (
	FieldName NameKind = iota
	VariantName
)

// ResolveName returns the external name: the override if set, else raw
// converted by rule, else raw.
func ResolveName(override *string, rule *RenameRule, raw string, kind NameKind) string {
	switch {
	case override != nil:
		return *override
	case rule == nil:
		return raw
	case kind == VariantName:
		return rule.ApplyToVariant(raw)
	default:
		return rule.ApplyToField(raw)
	}
}
