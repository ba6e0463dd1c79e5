// Package expr implements the numeric mini-language used by object
// definitions.
//
// Expressions are parsed with hclsyntax and evaluated with go-cty, but the
// accepted syntax is restricted to numeric literals, bare identifiers,
// arithmetic operators, parentheses and a fixed set of functions. Two
// shorthand forms draw random numbers directly:
//
//	ranI=<min>,<max>   integer in [min, max]
//	ranF=<min>,<max>   float in [min, max)
//
// The same primitives are available as functions inside arithmetic:
// "ranI(1, 3) * 2 + height".
//
// Every Value caches its last computed result. Calculate refreshes the
// cache and Value reads it.
package expr
