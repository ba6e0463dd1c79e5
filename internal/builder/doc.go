/*
Package builder turns a format-agnostic definition into a placeable
*object.Object.

The build is a multi-phase process:

 1. Declaration: every variable of the object and of each instruction is
    parsed and added to its scope. Nothing is wired yet, because an
    expression may read a variable declared further down or in the parent
    scope.

 2. Wiring: each scope resolves the references of its variables through the
    scope chain. The resulting dependency graph is checked for cycles with
    the dag package before anything is evaluated.

 3. Construction: setters, conditions and instructions are created through
    the registry tables, in that order, so that conditions and instructions
    can resolve setters by name and a repeat can resolve the instructions
    declared before it.

Any failure aborts the single object being built and is reported as a
*BuildError carrying the source file and the offending key path.
*/
package builder
