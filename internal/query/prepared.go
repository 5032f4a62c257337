package query

import (
	"fmt"
	"regexp"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/store"
)

// Prepared is a Condition bound against one category: every Tag has
// been resolved to a column index and every Pattern compiled, so
// Eval never does a name lookup or a regex compile. Re-Prepare-ing the
// same Condition against a (possibly changed) category rebinds it from
// scratch; a Prepared does not track category mutations after binding.
type Prepared struct {
	root *bound
	cat  *store.Category
}

type bound struct {
	kind  Kind
	col   int
	value Value
	op    Op
	re    *regexp.Regexp
	left  *bound
	right *bound
}

// Prepare resolves cond's tags to cat's column indices and compiles its
// regex patterns, once, ahead of any evaluation.
func Prepare(cond *Condition, cat *store.Category) (*Prepared, error) {
	root, err := bindNode(cond, cat)
	if err != nil {
		return nil, err
	}
	return &Prepared{root: root, cat: cat}, nil
}

func bindNode(cond *Condition, cat *store.Category) (*bound, error) {
	n := &bound{kind: cond.Kind, value: cond.Value, op: cond.Op}
	switch cond.Kind {
	case KeyEquals, KeyNotEquals, KeyIsEmpty, KeyCompare:
		n.col = cat.IndexOf(cond.Tag)
	case KeyMatchesRegex:
		n.col = cat.IndexOf(cond.Tag)
		re, err := regexp.Compile(cond.Pattern)
		if err != nil {
			return nil, &cerr.ValidationError{Category: cat.Name, Item: cond.Tag, Message: fmt.Sprintf("invalid regex: %v", err)}
		}
		n.re = re
	case AnyMatchesRegex:
		re, err := regexp.Compile(cond.Pattern)
		if err != nil {
			return nil, &cerr.ValidationError{Category: cat.Name, Message: fmt.Sprintf("invalid regex: %v", err)}
		}
		n.re = re
	case And, Or:
		left, err := bindNode(cond.Left, cat)
		if err != nil {
			return nil, err
		}
		right, err := bindNode(cond.Right, cat)
		if err != nil {
			return nil, err
		}
		n.left, n.right = left, right
	case AnyEquals, All:
		// nothing to bind
	default:
		return nil, &cerr.ValidationError{Category: cat.Name, Message: "unknown condition kind"}
	}
	return n, nil
}

// Eval reports whether row satisfies the prepared condition. Evaluation
// is pure: it never mutates row or the bound category.
func (p *Prepared) Eval(row *cellstore.Row) bool {
	return evalNode(p.root, p.cat, row)
}

func evalNode(n *bound, cat *store.Category, row *cellstore.Row) bool {
	switch n.kind {
	case KeyEquals:
		val, ok := row.Get(n.col)
		return ok && compareCell(cat, n.col, val, n.value) == 0
	case KeyNotEquals:
		val, ok := row.Get(n.col)
		return !ok || compareCell(cat, n.col, val, n.value) != 0
	case KeyIsEmpty:
		val, ok := row.Get(n.col)
		return !ok || val == cellstore.Inapplicable
	case KeyCompare:
		val, ok := row.Get(n.col)
		if !ok {
			return false
		}
		cmp := compareCell(cat, n.col, val, n.value)
		switch n.op {
		case Less:
			return cmp < 0
		case LessEq:
			return cmp <= 0
		case Greater:
			return cmp > 0
		case GreaterEq:
			return cmp >= 0
		}
		return false
	case KeyMatchesRegex:
		val, ok := row.Get(n.col)
		return ok && n.re.MatchString(val)
	case AnyEquals:
		for _, col := range row.Columns() {
			if val, ok := row.Get(col); ok && compareCell(cat, col, val, n.value) == 0 {
				return true
			}
		}
		return false
	case AnyMatchesRegex:
		for _, col := range row.Columns() {
			if val, ok := row.Get(col); ok && n.re.MatchString(val) {
				return true
			}
		}
		return false
	case And:
		return evalNode(n.left, cat, row) && evalNode(n.right, cat, row)
	case Or:
		return evalNode(n.left, cat, row) || evalNode(n.right, cat, row)
	case All:
		return true
	default:
		return false
	}
}

// compareCell orders a cell's text against a typed literal using the
// column's attached validator (the item's type discipline) if one
// exists, otherwise plain byte-wise comparison.
func compareCell(cat *store.Category, col int, cellText string, v Value) int {
	c := cat.Column(col)
	if c != nil && c.Validator != nil {
		return c.Validator.Compare(cellText, v.text())
	}
	lit := v.text()
	switch {
	case cellText == lit:
		return 0
	case cellText < lit:
		return -1
	default:
		return 1
	}
}
