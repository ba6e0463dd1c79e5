// Package repl is an interactive calculator for the expression language.
//
// Lines of the form `name = expression` define variables that later lines
// may reference; any other line is evaluated and printed. Commands start
// with a colon: :vars, :constants, :roll and :quit.
package repl

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/voxelforge/internal/expr"
	"github.com/specialistvlad/voxelforge/internal/variable"
)

// ErrQuit is returned by Eval for the :quit command.
var ErrQuit = errors.New("quit")

type definition struct {
	name, text string
}

// Session keeps the variables defined so far.
type Session struct {
	rng   *rand.Rand
	defs  []definition
	scope *variable.Scope
}

// NewSession creates an empty session. A nil rng uses the process-wide source.
func NewSession(rng *rand.Rand) *Session {
	return &Session{rng: rng, scope: variable.NewScope("repl", nil)}
}

// Eval processes one input line and returns the text to print.
func (s *Session) Eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", nil
	case strings.HasPrefix(line, ":"):
		return s.command(line)
	}

	if name, text, ok := assignment(line); ok {
		return s.define(name, text)
	}

	v, err := s.scope.ParseValue(line)
	if err != nil {
		return "", err
	}
	if err := v.Calculate(s.rng); err != nil {
		return "", err
	}
	return format(v.Value()), nil
}

func (s *Session) command(line string) (string, error) {
	switch strings.ToLower(line) {
	case ":quit", ":q", ":exit":
		return "", ErrQuit
	case ":vars":
		var b strings.Builder
		for _, v := range s.scope.Variables() {
			note := format(v.Value())
			if expr.IsRandom(v.Expression()) {
				note += " (random)"
			}
			fmt.Fprintf(&b, "%s = %s  # %s\n", v.Name(), v.Expression(), note)
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	case ":constants":
		constants := expr.Constants()
		var b strings.Builder
		for _, n := range slices.Sorted(maps.Keys(constants)) {
			fmt.Fprintf(&b, "%s = %s\n", n, format(constants[n]))
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	case ":roll":
		if err := s.scope.Calculate(s.rng); err != nil {
			return "", err
		}
		return s.command(":vars")
	default:
		return "", fmt.Errorf("unknown command %q", line)
	}
}

// define adds or replaces a variable. The whole scope is rebuilt so that
// a replacement is seen by every variable reading it; on failure the
// previous scope is kept.
func (s *Session) define(name, text string) (string, error) {
	defs := slices.Clone(s.defs)
	i := slices.IndexFunc(defs, func(d definition) bool { return d.name == name })
	if i >= 0 {
		defs[i].text = text
	} else {
		defs = append(defs, definition{name: name, text: text})
	}

	scope := variable.NewScope("repl", nil)
	for _, d := range defs {
		if _, err := scope.Declare(d.name, d.text); err != nil {
			return "", fmt.Errorf("variable %q: %w", d.name, err)
		}
	}
	if err := scope.Wire(); err != nil {
		return "", err
	}
	if err := scope.Calculate(s.rng); err != nil {
		return "", err
	}

	s.defs, s.scope = defs, scope
	v, _ := scope.Lookup(name)
	return fmt.Sprintf("%s = %s", name, format(v.Value())), nil
}

// assignment splits `name = text` when name is a valid identifier. The
// random shorthand `ranI=1,2` is not an assignment.
func assignment(line string) (string, string, bool) {
	name, text, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "ranI" || name == "ranF" || !hclsyntax.ValidIdentifier(name) {
		return "", "", false
	}
	if strings.HasPrefix(text, "=") {
		return "", "", false
	}
	return name, strings.TrimSpace(text), true
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
