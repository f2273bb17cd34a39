package annotations

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// ParseLiteral lexes an annotation value. It never fails: text that is not a
// well-formed string, number or bool literal is kept as an identifier.
func ParseLiteral(text string) *Literal {
	s := strings.TrimSpace(text)
	lit := &Literal{Kind: LitIdent, Raw: s, Value: s}

	switch {
	case s == "":
		return lit
	case len(s) >= 3 && s[0] == 'b' && s[1] == '"' && s[len(s)-1] == '"':
		if v, err := strconv.Unquote(s[1:]); err == nil {
			lit.Kind, lit.Value = LitByteString, v
		}
		return lit
	case len(s) >= 2 && (s[0] == '"' || s[0] == '`') && s[len(s)-1] == s[0]:
		if v, err := strconv.Unquote(s); err == nil {
			lit.Kind, lit.Value = LitString, v
		}
		return lit
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		inner := strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`)
		if v, err := strconv.Unquote(`"` + strings.ReplaceAll(inner, `"`, `\"`) + `"`); err == nil {
			lit.Kind, lit.Value = LitString, v
		} else {
			lit.Kind, lit.Value = LitString, inner
		}
		return lit
	case s == "true" || s == "false":
		lit.Kind = LitBool
		return lit
	}

	if looksNumeric(s) {
		num := strings.TrimPrefix(strings.ReplaceAll(s, "_", ""), "+")
		if n, ok := new(big.Int).SetString(num, 0); ok {
			lit.Kind, lit.Value = LitInt, n.String()
			return lit
		}
		if _, err := strconv.ParseFloat(num, 64); err == nil || errors.Is(err, strconv.ErrRange) {
			lit.Kind, lit.Value = LitFloat, num
			return lit
		}
	}

	return lit
}

func looksNumeric(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	return (s[0] >= '0' && s[0] <= '9') || (s[0] == '.' && len(s) > 1)
}

// StringLiteral returns a string literal holding v, as struct tags produce.
func StringLiteral(v string) *Literal {
	return &Literal{Kind: LitString, Raw: strconv.Quote(v), Value: v}
}

// String returns the source text of the literal.
func (l *Literal) String() string {
	if l == nil {
		return ""
	}
	return l.Raw
}
