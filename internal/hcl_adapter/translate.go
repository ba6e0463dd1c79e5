package hcl_adapter

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// translator converts hclsyntax bodies into config sections.
type translator struct {
	src []byte
}

// item is an attribute or a block, ordered by its position in the file.
type item struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

func (t *translator) body(s *config.Section, body *hclsyntax.Body) error {
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for _, a := range body.Attributes {
		items = append(items, item{offset: a.SrcRange.Start.Byte, attr: a})
	}
	for _, b := range body.Blocks {
		items = append(items, item{offset: b.TypeRange.Start.Byte, block: b})
	}
	slices.SortFunc(items, func(a, b item) int { return a.offset - b.offset })

	for _, it := range items {
		var err error
		if it.attr != nil {
			err = t.expression(s, it.attr.Name, it.attr.Expr)
		} else {
			err = t.block(s, it.block)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// block maps `type { }` to a child section and `type "label" { }` to an
// entry of the plural section "types".
func (t *translator) block(s *config.Section, b *hclsyntax.Block) error {
	var child *config.Section
	var err error
	switch len(b.Labels) {
	case 0:
		child, err = s.EnsureSection(b.Type)
	case 1:
		var group *config.Section
		if group, err = s.EnsureSection(b.Type + "s"); err == nil {
			child, err = group.AddSection(b.Labels[0])
		}
	default:
		err = fmt.Errorf("%s: block %q takes at most one label", b.TypeRange, b.Type)
	}
	if err != nil {
		return err
	}
	return t.body(child, b.Body)
}

func (t *translator) expression(s *config.Section, key string, expr hclsyntax.Expression) error {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		child, err := s.AddSection(key)
		if err != nil {
			return err
		}
		for _, it := range e.Items {
			k, err := objectKey(it.KeyExpr)
			if err != nil {
				return err
			}
			if err := t.expression(child, k, it.ValueExpr); err != nil {
				return err
			}
		}
		return nil
	case *hclsyntax.TupleConsExpr:
		values := make([]string, 0, len(e.Exprs))
		for _, el := range e.Exprs {
			v, err := t.scalar(el)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		return s.SetList(key, values)
	default:
		v, err := t.scalar(expr)
		if err != nil {
			return err
		}
		return s.SetScalar(key, v)
	}
}

func objectKey(expr hclsyntax.Expression) (string, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() || !v.IsKnown() || v.IsNull() || v.Type() != cty.String {
		return "", fmt.Errorf("%s: object keys must be names or strings", expr.Range())
	}
	return v.AsString(), nil
}

// scalar renders a literal as text. Expressions that need variables or
// functions to evaluate are returned as their source text.
func (t *translator) scalar(expr hclsyntax.Expression) (string, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() || !v.IsWhollyKnown() {
		return t.source(expr.Range()), nil
	}
	if v.IsNull() {
		return "", fmt.Errorf("%s: null is not a valid value", expr.Range())
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return v.AsBigFloat().Text('g', -1), nil
	case cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("%s: unsupported value of type %s", expr.Range(), v.Type().FriendlyName())
	}
}

func (t *translator) source(r hcl.Range) string {
	return string(r.SliceBytes(t.src))
}
