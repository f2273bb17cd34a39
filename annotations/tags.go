package annotations

import "strings"

// ParseStructTags parses Go struct tags from a tag string
func ParseStructTags(tagString string) StructTags {
	tags := make(StructTags)

	// Remove the backticks if present
	if len(tagString) >= 2 && tagString[0] == '`' && tagString[len(tagString)-1] == '`' {
		tagString = tagString[1 : len(tagString)-1]
	}

	for tagString != "" {
		// Skip leading space
		i := 0
		for i < len(tagString) && tagString[i] == ' ' {
			i++
		}
		tagString = tagString[i:]
		if tagString == "" {
			break
		}

		// Scan to colon to find key
		i = 0
		for i < len(tagString) && tagString[i] != ':' {
			i++
		}
		if i >= len(tagString) {
			break
		}
		key := tagString[:i]
		tagString = tagString[i+1:]

		// Scan quoted string to find value
		if tagString == "" || tagString[0] != '"' {
			break
		}
		i = 1
		for i < len(tagString) && tagString[i] != '"' {
			if tagString[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tagString) {
			break
		}
		value := tagString[1:i]
		tagString = tagString[i+1:]

		value = strings.ReplaceAll(value, `\"`, `"`)
		value = strings.ReplaceAll(value, `\\`, `\`)

		tags[key] = value
	}

	return tags
}

// GetTagValue returns the value of a struct tag by name.
// It first checks for the exact tag name, then checks aliases.
func (tags StructTags) GetTagValue(name string, aliases ...string) (string, bool) {
	if val, ok := tags[name]; ok {
		return val, true
	}
	for _, alias := range aliases {
		if val, ok := tags[alias]; ok {
			return val, true
		}
	}
	return "", false
}

// BsonTagParams converts a mongo-driver style tag ("name,omitempty,inline")
// into annotation params of the bson namespace. "-" becomes the skip word.
func BsonTagParams(tag string) []Param {
	if tag == "-" {
		return []Param{{Key: "skip"}}
	}
	parts := strings.Split(tag, ",")
	var params []Param
	if name := strings.TrimSpace(parts[0]); name != "" {
		params = append(params, Param{Key: "rename", Value: StringLiteral(name)})
	}
	for _, opt := range parts[1:] {
		if opt = strings.TrimSpace(opt); opt != "" {
			params = append(params, Param{Key: opt})
		}
	}
	return params
}

// MagnetTagParams converts a `magnet:"min_incl=0,doc=text,tuple"` tag into
// params. Values stay strings unless they lex as numbers or quoted literals.
func MagnetTagParams(tag string) []Param {
	var params []Param
	for _, part := range splitTopLevel(tag, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !found {
			params = append(params, Param{Key: key})
			continue
		}
		value = strings.TrimSpace(value)
		lit := ParseLiteral(value)
		switch lit.Kind {
		case LitInt, LitFloat, LitString, LitByteString:
		default:
			lit = StringLiteral(value)
		}
		params = append(params, Param{Key: key, Value: lit})
	}
	return params
}
