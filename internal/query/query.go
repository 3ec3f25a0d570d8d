// Package query builds the bracket-notation query strings the CMS uses to
// describe which relations and nested fields a response should expand.
//
// Nested structures are declared as ordered Objects and flattened into
// Values in declaration order, so the same declaration always produces the
// same string.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Node is any value that can appear in a query declaration: an Object, a
// List or a scalar leaf (string, bool, integer or float).
type Node any

// Field is one key of an Object.
type Field struct {
	Key   string
	Value Node
}

// Object is an ordered set of fields.
type Object []Field

// List is an ordered sequence of nodes, flattened with numeric indices.
type List []Node

// F is shorthand for a Field.
func F(key string, value Node) Field {
	return Field{Key: key, Value: value}
}

// O is shorthand for an Object.
func O(fields ...Field) Object {
	return Object(fields)
}

// Param is a single flattened key/value pair. Value is a scalar.
type Param struct {
	Key   string
	Value any
}

// Values is an ordered list of flattened query parameters.
type Values []Param

// Add appends a parameter and returns the extended list.
func (v Values) Add(key string, value any) Values {
	return append(v, Param{Key: key, Value: value})
}

// Merge returns v followed by other.
func (v Values) Merge(other Values) Values {
	out := make(Values, 0, len(v)+len(other))
	out = append(out, v...)
	return append(out, other...)
}

// Encode serializes the parameters as key=value pairs joined by '&'. Only
// values are escaped; keys keep their structural brackets.
func (v Values) Encode() string {
	if len(v) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range v {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(EscapeValue(FormatScalar(p.Value)))
	}
	return b.String()
}

// EscapeValue percent-encodes s using the RFC 3986 unreserved set, writing
// spaces as %20.
func EscapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FormatScalar renders a leaf value the way it appears in a query string.
func FormatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Flatten turns a nested declaration into bracket-path parameters, e.g.
// {populate: {logo: {populate: "*"}}} becomes populate[logo][populate]=*.
// The root must be an Object.
func Flatten(root Object) Values {
	var out Values
	for _, f := range root {
		out = flatten(out, f.Key, f.Value)
	}
	return out
}

func flatten(out Values, prefix string, n Node) Values {
	switch t := n.(type) {
	case Object:
		for _, f := range t {
			out = flatten(out, prefix+"["+f.Key+"]", f.Value)
		}
	case List:
		for i, item := range t {
			out = flatten(out, prefix+"["+strconv.Itoa(i)+"]", item)
		}
	case []string:
		for i, item := range t {
			out = append(out, Param{Key: prefix + "[" + strconv.Itoa(i) + "]", Value: item})
		}
	default:
		out = append(out, Param{Key: prefix, Value: t})
	}
	return out
}

// Stringify flattens and encodes a declaration in one step.
func Stringify(root Object) string {
	return Flatten(root).Encode()
}
