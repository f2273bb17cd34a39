package annotations

import (
	"go/ast"
	"strings"
)

// ParseAnnotations extracts annotations from comment groups
func ParseAnnotations(comments []*ast.CommentGroup) []Annotation {
	var annotations []Annotation

	for _, cg := range comments {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			text := strings.TrimSpace(c.Text)
			text = strings.TrimPrefix(text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			text = strings.TrimSpace(text)

			for _, line := range strings.Split(text, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimPrefix(line, "*")
				line = strings.TrimSpace(line)

				if strings.HasPrefix(line, "@") {
					ann := parseAnnotation(line)
					if ann.Name != "" {
						annotations = append(annotations, ann)
					}
				}
			}
		}
	}

	return annotations
}

// parseAnnotation parses single annotation: @name or @name(key=value) or @name key="value"
func parseAnnotation(line string) Annotation {
	ann := Annotation{
		RawText: line,
	}

	line = strings.TrimPrefix(line, "@")
	parenIdx := strings.Index(line, "(")

	// Format 1: @name(key=value, key2:value2, flag)
	if parenIdx != -1 {
		ann.Name = strings.TrimSpace(line[:parenIdx])
		paramsStr := line[parenIdx+1:]
		if endIdx := strings.LastIndex(paramsStr, ")"); endIdx != -1 {
			paramsStr = paramsStr[:endIdx]
		}
		ann.Params = parseParamsParentheses(paramsStr)
		return ann
	}

	// Format 2: @name key="value" key2="value2" (space-separated)
	// or Format 3: @name (no parameters)
	parts := splitAnnotationParts(line)
	if len(parts) == 0 {
		return ann
	}

	ann.Name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		ann.Params = parseParamsSpaceSeparated(parts[1:])
	}

	return ann
}

// parseParamsParentheses parses key=value pairs from parentheses format: (key=value, key2:value2)
func parseParamsParentheses(s string) []Param {
	var params []Param
	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params = append(params, parseParam(part))
	}
	return params
}

// parseParam turns one argument into a Param. Arguments without a separator are
// bare words when they look like identifiers and positional values otherwise.
func parseParam(part string) Param {
	sepIdx := -1
	for i, ch := range part {
		if (ch == ':' || ch == '=') && !isInQuotes(part, i) {
			sepIdx = i
			break
		}
	}

	if sepIdx == -1 {
		if isBooleanFlag(part) {
			return Param{Key: part}
		}
		// positional argument, stored under the empty key
		return Param{Value: ParseLiteral(part)}
	}

	key := strings.TrimSpace(part[:sepIdx])
	value := strings.TrimSpace(part[sepIdx+1:])
	return Param{Key: key, Value: ParseLiteral(value)}
}

// splitTopLevel splits s on sep, ignoring separators inside quotes and brackets.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	escaped := false
	quoteChar := rune(0)
	bracketDepth := 0

	for _, ch := range s {
		switch {
		case escaped:
			escaped = false
			current.WriteRune(ch)
		case ch == '\\' && inQuotes && quoteChar != '`':
			escaped = true
			current.WriteRune(ch)
		case ch == '"' || ch == '\'' || ch == '`':
			if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else if ch == quoteChar {
				inQuotes = false
			}
			current.WriteRune(ch)
		case ch == '[' && !inQuotes:
			bracketDepth++
			current.WriteRune(ch)
		case ch == ']' && !inQuotes:
			bracketDepth--
			current.WriteRune(ch)
		case ch == sep && !inQuotes && bracketDepth == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// splitAnnotationParts splits annotation line into parts, respecting quotes
func splitAnnotationParts(line string) []string {
	var parts []string
	for _, p := range splitTopLevel(line, ' ') {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// parseParamsSpaceSeparated parses space-separated key="value" pairs
func parseParamsSpaceSeparated(parts []string) []Param {
	var params []Param
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params = append(params, parseParam(part))
	}
	return params
}

// isInQuotes checks if a character at given index is inside quotes
func isInQuotes(s string, idx int) bool {
	inQuotes := false
	quoteChar := rune(0)

	for i, ch := range s {
		if i >= idx {
			break
		}
		if ch == '"' || ch == '\'' || ch == '`' {
			if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else if ch == quoteChar {
				inQuotes = false
			}
		}
	}

	return inQuotes
}

// isBooleanFlag checks if a string looks like a boolean flag (simple identifier)
func isBooleanFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i, ch := range s {
		isLetter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isDigit := ch >= '0' && ch <= '9'
		isSpecial := ch == '_' || ch == '-'
		if i == 0 && !isLetter && ch != '_' {
			return false
		}
		if !isLetter && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
