// Package dag provides a small directed graph used to validate variable
// dependencies while an object is being built. Each node is a qualified
// variable name; an edge from A to B records that B reads A.
//
// Cycle detection runs at build time so that a definition with a circular
// variable dependency is rejected before it ever reaches the catalog. The
// runtime recalculation in package variable detects cycles on its own as
// well.
package dag
