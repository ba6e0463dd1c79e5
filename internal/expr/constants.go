package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// constants is the process-wide named constant table. Entries are only
// ever added.
var constants = struct {
	mu     sync.RWMutex
	values map[string]float64
}{
	values: map[string]float64{
		"PI": math.Pi,
		"E":  math.E,
	},
}

// RegisterConstant adds a named constant. Names must be valid identifiers
// and cannot be redefined.
func RegisterConstant(name string, value float64) error {
	if !hclsyntax.ValidIdentifier(name) {
		return fmt.Errorf("constant name %q is not a valid identifier", name)
	}
	if _, ok := functionNames[name]; ok {
		return fmt.Errorf("constant name %q collides with a function", name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("constant %q must be finite", name)
	}

	constants.mu.Lock()
	defer constants.mu.Unlock()
	if _, ok := constants.values[name]; ok {
		return fmt.Errorf("constant %q is already defined", name)
	}
	constants.values[name] = value
	return nil
}

// LookupConstant returns the value of a named constant.
func LookupConstant(name string) (float64, bool) {
	constants.mu.RLock()
	defer constants.mu.RUnlock()
	v, ok := constants.values[name]
	return v, ok
}

// Constants returns a snapshot of the constant table.
func Constants() map[string]float64 {
	constants.mu.RLock()
	defer constants.mu.RUnlock()
	out := make(map[string]float64, len(constants.values))
	for k, v := range constants.values {
		out[k] = v
	}
	return out
}

// substituteConstants replaces identifier tokens naming a constant with the
// constant's literal value. Function names and attribute names are left
// alone. Text that does not lex is returned unchanged so the parser can
// report the problem.
func substituteConstants(text string) string {
	tokens, diags := hclsyntax.LexExpression([]byte(text), "", hcl.InitialPos)
	if diags.HasErrors() {
		return text
	}

	constants.mu.RLock()
	defer constants.mu.RUnlock()

	var b strings.Builder
	last := 0
	for i, tok := range tokens {
		if tok.Type != hclsyntax.TokenIdent {
			continue
		}
		v, ok := constants.values[string(tok.Bytes)]
		if !ok {
			continue
		}
		if i+1 < len(tokens) && tokens[i+1].Type == hclsyntax.TokenOParen {
			continue
		}
		if i > 0 && tokens[i-1].Type == hclsyntax.TokenDot {
			continue
		}
		b.WriteString(text[last:tok.Range.Start.Byte])
		b.WriteByte('(')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte(')')
		last = tok.Range.End.Byte
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}
