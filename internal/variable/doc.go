// Package variable holds named Values, the scopes that own them and the
// dependency-ordered recalculation that keeps derived variables in step
// with the variables they read.
//
// Scopes are built in two phases. Declare parses every variable of a scope
// first; Wire then resolves the identifiers each expression reads through
// the scope chain (innermost first) and records the references. Variables
// may therefore refer to names declared later in the same scope or in a
// parent scope.
package variable
