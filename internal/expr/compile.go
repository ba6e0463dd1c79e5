package expr

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// program is a validated arithmetic expression.
type program struct {
	text   string
	expr   hclsyntax.Expression
	names  []string
	random bool
}

// compile parses text as an arithmetic expression after constant
// substitution and rejects any syntax outside the numeric grammar.
func compile(text string) (*program, error) {
	src := substituteConstants(text)
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &ParseError{Expression: text, Detail: diags.Error()}
	}

	p := &program{text: text, expr: parsed}
	if err := p.check(parsed); err != nil {
		return nil, &ParseError{Expression: text, Detail: err.Error()}
	}

	seen := make(map[string]struct{})
	for _, traversal := range parsed.Variables() {
		if len(traversal) != 1 {
			return nil, &ParseError{Expression: text, Detail: "attribute and index access are not supported"}
		}
		name := traversal.RootName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		p.names = append(p.names, name)
	}
	slices.Sort(p.names)
	return p, nil
}

// check walks the syntax tree and accepts only the numeric grammar.
func (p *program) check(e hclsyntax.Expression) error {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() != cty.Number {
			return fmt.Errorf("%s literal is not allowed", e.Val.Type().FriendlyName())
		}
		return nil
	case *hclsyntax.ScopeTraversalExpr:
		return nil
	case *hclsyntax.ParenthesesExpr:
		return p.check(e.Expression)
	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return fmt.Errorf("logical operators are not allowed")
		}
		return p.check(e.Val)
	case *hclsyntax.BinaryOpExpr:
		switch e.Op {
		case hclsyntax.OpAdd, hclsyntax.OpSubtract, hclsyntax.OpMultiply, hclsyntax.OpDivide:
		case hclsyntax.OpModulo:
			e.Op = opModulo
		default:
			return fmt.Errorf("only arithmetic operators are allowed")
		}
		if err := p.check(e.LHS); err != nil {
			return err
		}
		return p.check(e.RHS)
	case *hclsyntax.FunctionCallExpr:
		if _, ok := functionNames[e.Name]; !ok {
			return fmt.Errorf("unknown function %q", e.Name)
		}
		if e.ExpandFinal {
			return fmt.Errorf("argument expansion is not allowed")
		}
		if e.Name == funcRandomInt || e.Name == funcRandomDouble {
			p.random = true
		}
		for _, arg := range e.Args {
			if err := p.check(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported syntax")
	}
}

// eval evaluates the program against the given variable values.
func (p *program) eval(rng *rand.Rand, vars map[string]cty.Value) (float64, error) {
	ctx := &hcl.EvalContext{
		Variables: vars,
		Functions: functionsFor(rng),
	}
	val, diags := p.expr.Value(ctx)
	if diags.HasErrors() {
		return 0, &EvalError{Expression: p.text, Err: diags}
	}
	return toFloat(p.text, val)
}

func toFloat(text string, val cty.Value) (float64, error) {
	if val.IsNull() || !val.IsKnown() {
		return 0, &EvalError{Expression: text, Err: fmt.Errorf("result is not a known value")}
	}
	if val.Type() != cty.Number {
		return 0, &EvalError{Expression: text, Err: fmt.Errorf("result is %s, not a number", val.Type().FriendlyName())}
	}
	f, _ := val.AsBigFloat().Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &EvalError{Expression: text, Err: fmt.Errorf("result is not a finite number")}
	}
	return f, nil
}
