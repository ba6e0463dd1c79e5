package variable

import (
	"fmt"
	"math/rand/v2"
)

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// Calculate recalculates vars so that every variable runs only after the
// variables it references. References to variables outside vars are taken
// as already current. A dependency loop aborts with a *CycleError before
// any variable on the loop is recalculated.
func Calculate(rng *rand.Rand, vars []*Variable) error {
	pending := make(map[*Variable]bool, len(vars))
	for _, v := range vars {
		pending[v] = true
	}

	state := make(map[*Variable]mark, len(vars))
	var stack []*Variable

	var visit func(v *Variable) error
	visit = func(v *Variable) error {
		switch state[v] {
		case done:
			return nil
		case inProgress:
			return &CycleError{Cycle: cyclePath(stack, v)}
		}

		state[v] = inProgress
		stack = append(stack, v)
		for _, ref := range v.refs {
			if !pending[ref] {
				continue
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]

		if err := v.value.Calculate(rng); err != nil {
			return fmt.Errorf("variable %q: %w", v.name, err)
		}
		state[v] = done
		return nil
	}

	for _, v := range vars {
		if err := visit(v); err != nil {
			return err
		}
	}
	return nil
}

// cyclePath returns the names from the first occurrence of v on the stack
// back to v.
func cyclePath(stack []*Variable, v *Variable) []string {
	start := 0
	for i, s := range stack {
		if s == v {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		path = append(path, s.name)
	}
	return append(path, v.name)
}
