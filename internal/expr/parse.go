package expr

import (
	"strconv"
	"strings"
)

const (
	prefixRandomInt    = "ranI="
	prefixRandomDouble = "ranF="
)

// Parse classifies and compiles expression text into a Value. The returned
// Value is unbound: variable references are attached later with Bind, once
// every variable of the build unit exists.
//
//   - "ranI=<min>,<max>" and "ranF=<min>,<max>" become RandomInt and
//     RandomDouble; the bounds are themselves expressions.
//   - a bare numeric literal becomes a Constant.
//   - arithmetic reading at least one variable becomes a VariableMathExpression.
//   - any other arithmetic becomes a MathExpression.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ParseError{Expression: text, Detail: "expression is empty"}
	}

	switch {
	case strings.HasPrefix(trimmed, prefixRandomInt):
		b, err := parseBounds(trimmed, prefixRandomInt)
		if err != nil {
			return nil, err
		}
		return &RandomInt{bounds: *b}, nil
	case strings.HasPrefix(trimmed, prefixRandomDouble):
		b, err := parseBounds(trimmed, prefixRandomDouble)
		if err != nil {
			return nil, err
		}
		return &RandomDouble{bounds: *b}, nil
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && finite(f) {
		return &Constant{cache: cache{v: f}, text: trimmed, value: f}, nil
	}

	prog, err := compile(trimmed)
	if err != nil {
		return nil, err
	}
	if len(prog.names) > 0 {
		return &VariableMathExpression{prog: prog}, nil
	}
	return &MathExpression{prog: prog}, nil
}

// MustParse is like Parse but panics on error. It is meant for literals in
// code and tests.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func parseBounds(text, prefix string) (*bounds, error) {
	parts := splitTopLevel(text[len(prefix):])
	if len(parts) != 2 {
		return nil, &ParseError{Expression: text, Detail: "expected exactly two bounds: " + prefix + "<min>,<max>"}
	}

	b := &bounds{text: text}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, prefixRandomInt) || strings.HasPrefix(part, prefixRandomDouble) {
			return nil, &ParseError{Expression: text, Detail: "random shorthand cannot be nested"}
		}
		v, err := Parse(part)
		if err != nil {
			return nil, &ParseError{Expression: text, Detail: err.Error()}
		}
		if i == 0 {
			b.min = v
		} else {
			b.max = v
		}
	}
	return b, nil
}

// splitTopLevel splits s on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
