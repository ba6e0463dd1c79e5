package variable

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle found while recalculating. Cycle
// lists the variable names along the loop, ending with the first name
// repeated.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("variable dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// UnresolvedReferenceError reports an identifier that no scope in the chain
// declares.
type UnresolvedReferenceError struct {
	Name  string
	Scope string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved variable %q in scope %q", e.Name, e.Scope)
}

// DuplicateError reports a variable declared twice in one scope.
type DuplicateError struct {
	Name  string
	Scope string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("variable %q is already declared in scope %q", e.Name, e.Scope)
}
