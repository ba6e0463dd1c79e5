package expr

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const (
	funcRandomInt    = "ranI"
	funcRandomDouble = "ranF"
)

// staticFunctions are the deterministic functions callable from expressions.
var staticFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"min":    stdlib.MinFunc,
	"max":    stdlib.MaxFunc,
	"pow":    stdlib.PowFunc,
	"log":    stdlib.LogFunc,
	"signum": stdlib.SignumFunc,
	"sqrt":   unaryMathFunc(math.Sqrt),
	"sin":    unaryMathFunc(math.Sin),
	"cos":    unaryMathFunc(math.Cos),
	"tan":    unaryMathFunc(math.Tan),
}

// functionNames holds every callable name, including the random primitives.
var functionNames = func() map[string]struct{} {
	names := map[string]struct{}{
		funcRandomInt:    {},
		funcRandomDouble: {},
	}
	for name := range staticFunctions {
		names[name] = struct{}{}
	}
	return names
}()

// functionsFor returns the evaluation function table with the random
// primitives bound to rng.
func functionsFor(rng *rand.Rand) map[string]function.Function {
	fns := make(map[string]function.Function, len(staticFunctions)+2)
	for name, fn := range staticFunctions {
		fns[name] = fn
	}
	fns[funcRandomInt] = randomIntFunc(rng)
	fns[funcRandomDouble] = randomDoubleFunc(rng)
	return fns
}

// opModulo replaces the HCL modulo operator, which returns the dividend for
// a zero divisor.
var opModulo = &hclsyntax.Operation{
	Impl: function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "a", Type: cty.Number},
			{Name: "b", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if args[1].AsBigFloat().Sign() == 0 {
				return cty.NilVal, fmt.Errorf("modulo by zero")
			}
			return stdlib.Modulo(args[0], args[1])
		},
	}),
	Type: cty.Number,
}

func unaryMathFunc(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "num", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			in, _ := args[0].AsBigFloat().Float64()
			out := fn(in)
			if math.IsNaN(out) || math.IsInf(out, 0) {
				return cty.NilVal, fmt.Errorf("result of %v is not a finite number", in)
			}
			return cty.NumberFloatVal(out), nil
		},
	})
}

func boundsParams() []function.Parameter {
	return []function.Parameter{
		{Name: "min", Type: cty.Number},
		{Name: "max", Type: cty.Number},
	}
}

func randomIntFunc(rng *rand.Rand) function.Function {
	return function.New(&function.Spec{
		Params: boundsParams(),
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			lo, _ := args[0].AsBigFloat().Float64()
			hi, _ := args[1].AsBigFloat().Float64()
			n, err := drawInt(rng, lo, hi)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.NumberIntVal(n), nil
		},
	})
}

func randomDoubleFunc(rng *rand.Rand) function.Function {
	return function.New(&function.Spec{
		Params: boundsParams(),
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			lo, _ := args[0].AsBigFloat().Float64()
			hi, _ := args[1].AsBigFloat().Float64()
			f, err := drawDouble(rng, lo, hi)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.NumberFloatVal(f), nil
		},
	})
}

// drawInt returns an integer uniformly distributed in [lo, hi]. Bounds are
// truncated toward zero.
func drawInt(rng *rand.Rand, lo, hi float64) (int64, error) {
	if !finite(lo) || !finite(hi) {
		return 0, fmt.Errorf("%s bounds must be finite", funcRandomInt)
	}
	if !inInt64Range(lo) || !inInt64Range(hi) {
		return 0, fmt.Errorf("%s: bounds [%g, %g] are out of range", funcRandomInt, lo, hi)
	}
	a, b := int64(lo), int64(hi)
	if b < a {
		return 0, fmt.Errorf("%s: max %d is below min %d", funcRandomInt, b, a)
	}
	span := b - a + 1
	if span <= 0 {
		return 0, fmt.Errorf("%s: range [%d, %d] is too wide", funcRandomInt, a, b)
	}
	if rng == nil {
		return a + rand.Int64N(span), nil
	}
	return a + rng.Int64N(span), nil
}

// drawDouble returns a float uniformly distributed in [lo, hi). Equal bounds
// yield lo.
func drawDouble(rng *rand.Rand, lo, hi float64) (float64, error) {
	if !finite(lo) || !finite(hi) {
		return 0, fmt.Errorf("%s bounds must be finite", funcRandomDouble)
	}
	if hi < lo {
		return 0, fmt.Errorf("%s: max %g is below min %g", funcRandomDouble, hi, lo)
	}
	var u float64
	if rng == nil {
		u = rand.Float64()
	} else {
		u = rng.Float64()
	}
	f := lo + u*(hi-lo)
	if f >= hi && hi > lo {
		f = math.Nextafter(hi, lo)
	}
	return f, nil
}

// inInt64Range reports whether f truncates to a representable int64.
func inInt64Range(f float64) bool {
	const limit = 1 << 63
	return f >= -limit && f < limit
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
