package annotations

import "strings"

// MatchesAnnotation checks if an annotation name matches the expected pattern with the configured prefix
// For example, with prefix "@magnet" and suffix "schema", it matches "@magnetschema" or "@magnetSchema"
// If prefix is empty, only matches the suffix alone
func MatchesAnnotation(annName string, prefix string, suffixes ...string) bool {
	annName = strings.ToLower(annName)
	prefix = strings.ToLower(strings.TrimPrefix(prefix, "@"))

	for _, suffix := range suffixes {
		suffix = strings.ToLower(suffix)

		if prefix != "" && annName == prefix+suffix {
			return true
		}
		if annName == suffix {
			return true
		}
	}

	return false
}

// Find returns the annotations whose name matches one of names
func Find(anns []Annotation, names ...string) []Annotation {
	var out []Annotation
	for _, a := range anns {
		if MatchesAnnotation(a.Name, "", names...) {
			out = append(out, a)
		}
	}
	return out
}

// Has reports whether any annotation matches one of names
func Has(anns []Annotation, names ...string) bool {
	return len(Find(anns, names...)) > 0
}
