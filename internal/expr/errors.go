package expr

import "fmt"

// ParseError reports malformed expression text.
type ParseError struct {
	Expression string
	Detail     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Expression, e.Detail)
}

// EvalError reports a failure while calculating a Value.
type EvalError struct {
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("failed to evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
