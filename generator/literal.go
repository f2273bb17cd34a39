package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Literal renders a schema document as a Go expression building the same
// document. The output is unformatted; gofmt takes care of layout.
func Literal(d bson.D) (string, error) {
	var b strings.Builder
	if err := writeValue(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, v any) error {
	switch v := v.(type) {
	case bson.D:
		if len(v) == 0 {
			b.WriteString("bson.D{}")
			return nil
		}
		b.WriteString("bson.D{\n")
		for _, e := range v {
			fmt.Fprintf(b, "{Key: %s, Value: ", strconv.Quote(e.Key))
			if err := writeValue(b, e.Value); err != nil {
				return fmt.Errorf("%s: %w", e.Key, err)
			}
			b.WriteString("},\n")
		}
		b.WriteString("}")
	case bson.A:
		b.WriteString("bson.A{")
		for i, item := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeValue(b, item); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case []string:
		b.WriteString("[]string{")
		for i, s := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(s))
		}
		b.WriteString("}")
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int32:
		fmt.Fprintf(b, "int32(%d)", v)
	case int64:
		fmt.Fprintf(b, "int64(%d)", v)
	case int:
		b.WriteString(strconv.Itoa(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("cannot render non-finite number %v", v)
		}
		fmt.Fprintf(b, "float64(%s)", strconv.FormatFloat(v, 'g', -1, 64))
	case nil:
		b.WriteString("nil")
	default:
		return fmt.Errorf("cannot render %T in generated code", v)
	}
	return nil
}
