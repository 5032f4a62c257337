// Package update implements the three mutation primitives the store
// supports once a row has left the parser's hands: SetCell, Erase, and
// Emplace. All three preserve validator invariants (a cell is never
// left holding a value its item validator rejects) and link invariants
// (a parent key rename or deletion propagates through every configured
// link group rather than leaving a dangling join).
//
// The hard part is SetCell on a parent-key column: the column may be
// the parent side of several independent link groups, and a child row
// pulled in by one group may also be bound, through a different group,
// to a parent row that is not the one being renamed — that child must
// be split (cloned) so only the correct link follows the rename. This
// generalizes the teacher's core.ReferentialAction (CASCADE/RESTRICT/
// SET NULL/...), a validated-but-otherwise-inert enum describing what a
// foreign key's DDL declares, into the executable cascade this package
// actually carries out; the per-link-group traversal is grounded on the
// teacher's internal/diff/diff_table.go field-by-field comparison walk.
package update

import (
	"fmt"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/store"
	"cif/internal/text"
)

// SetCell rewrites the cell at (row, col) to newText, validating it
// against the column's item validator if present. If col is not the
// parent side of any configured link group the rewrite is purely local.
// Otherwise every link group with col among its parent keys cascades:
// each child row joined on the old key tuple is either rewritten in
// place (if this is its only live binding to this parent row) or
// cloned and only the clone rebound to the new tuple (if the child is
// also bound, through some other link group, to a different parent
// row). On any error the store is left exactly as it was before the
// call.
func SetCell(cat *store.Category, row *cellstore.Row, col int, newText string) error {
	j := &journal{}
	cycle := map[*cellstore.Row]bool{row: true}
	if err := setCell(j, cat, row, col, newText, cycle); err != nil {
		j.rollback()
		return err
	}
	return nil
}

// cycle guards the applyKeyTuple -> setCell recursion against a link
// graph that loops back on itself (a child that is, transitively,
// its own ancestor): a row is marked while it is being rewritten and
// unmarked once that rewrite returns, so it blocks a reentrant rewrite
// further down the same recursive chain without blocking a sibling
// top-level link group from rewriting the very same row afterwards.
func setCell(j *journal, cat *store.Category, row *cellstore.Row, col int, newText string, cycle map[*cellstore.Row]bool) error {
	if err := validateCell(cat, col, newText); err != nil {
		return err
	}
	groups := parentKeyGroups(cat, itemNameOf(cat, col))
	if len(groups) == 0 {
		j.setCell(cat, row, col, newText)
		return nil
	}

	oldTexts := make([][]string, len(groups))
	oldPresent := make([][]bool, len(groups))
	for i, g := range groups {
		oldTexts[i], oldPresent[i] = keyTuple(cat, row, g.Spec.ParentKeys)
	}

	j.setCell(cat, row, col, newText)

	for i, g := range groups {
		newTexts, newPresent := keyTuple(cat, row, g.Spec.ParentKeys)
		if !allPresent(oldPresent[i]) {
			continue // this group's old join tuple was never fully bound
		}
		if err := cascadeGroup(j, g, row, oldTexts[i], newTexts, newPresent, cycle); err != nil {
			return err
		}
	}
	return nil
}

// cascadeGroup rebinds every child of g currently joined to parentRow
// via its old key tuple, splitting off a clone for any child that is
// also bound, through a different link group, to a different parent row.
// Every top-level link group on the renamed column runs this independently
// against the full matches of its own join tuple, so a child row bound to
// parentRow through several sibling groups (e.g. three single-column link
// groups sharing one parent/child pair) is rewritten once per group.
func cascadeGroup(j *journal, g *store.ResolvedLink, parentRow *cellstore.Row, oldTexts, newTexts []string, newPresent []bool, cycle map[*cellstore.Row]bool) error {
	child := g.Child
	if child == nil {
		return nil
	}
	matches := findByJoinTuple(child, g.Spec.ChildKeys, oldTexts, allTrue(len(oldTexts)))
	for _, ch := range matches {
		if cycle[ch] {
			continue // ch is an ancestor already being rewritten higher up this chain
		}
		if hasOtherLiveParent(ch, child, g, parentRow) {
			clone := ch.Clone()
			j.insertRowAfter(child, ch, clone)
			if err := applyKeyTuple(j, child, clone, g.Spec.ChildKeys, newTexts, newPresent, cycle); err != nil {
				return err
			}
			continue
		}
		if err := applyKeyTuple(j, child, ch, g.Spec.ChildKeys, newTexts, newPresent, cycle); err != nil {
			return err
		}
	}
	return nil
}

// applyKeyTuple rewrites row's items columns to values (clearing a
// column whose corresponding present entry is false), recursing through
// setCell so a child that is itself a parent elsewhere keeps cascading.
// row is pushed onto cycle for the duration of this call and popped on
// return, so later sibling groups are free to revisit the same row.
func applyKeyTuple(j *journal, cat *store.Category, row *cellstore.Row, items, values []string, present []bool, cycle map[*cellstore.Row]bool) error {
	cycle[row] = true
	defer delete(cycle, row)
	for i, item := range items {
		col, err := cat.EnsureColumn(item)
		if err != nil {
			return err
		}
		if !present[i] {
			j.deleteCell(cat, row, col)
			continue
		}
		if err := setCell(j, cat, row, col, values[i], cycle); err != nil {
			return err
		}
	}
	return nil
}

// Erase removes row from cat, cascading to every child link group: a
// child row joined to row is erased in turn iff this is its only live
// parent binding across all its link groups, otherwise only the columns
// of this link are cleared, leaving the child bound to its other
// parent. On any error the store is left exactly as it was before the
// call.
func Erase(cat *store.Category, row *cellstore.Row) error {
	j := &journal{}
	if err := erase(j, cat, row, map[*cellstore.Row]bool{row: true}); err != nil {
		j.rollback()
		return err
	}
	return nil
}

func erase(j *journal, cat *store.Category, row *cellstore.Row, visiting map[*cellstore.Row]bool) error {
	for _, link := range cat.ParentLinks {
		child := link.Child
		if child == nil {
			continue
		}
		texts, present := keyTuple(cat, row, link.Spec.ParentKeys)
		if !allPresent(present) {
			continue
		}
		matches := findByJoinTuple(child, link.Spec.ChildKeys, texts, present)
		for _, ch := range matches {
			if visiting[ch] {
				continue
			}
			if hasOtherLiveParent(ch, child, link, row) {
				for _, item := range link.Spec.ChildKeys {
					col, err := child.EnsureColumn(item)
					if err != nil {
						return err
					}
					j.deleteCell(child, ch, col)
				}
				continue
			}
			visiting[ch] = true
			if err := erase(j, child, ch, visiting); err != nil {
				return err
			}
		}
	}
	j.removeRow(cat, row)
	return nil
}

// ItemValue is one column/value pair for Emplace.
type ItemValue struct {
	Item  string
	Value string
}

// Emplace appends a new row built from items, validating every cell
// against its item validator and rejecting a row whose primary key
// already exists (cerr.ErrDuplicateKey) before the row becomes visible
// to any reader — a failed Emplace never leaves a partial row behind.
func Emplace(cat *store.Category, items []ItemValue) (*cellstore.Row, error) {
	row := &cellstore.Row{}
	for _, iv := range items {
		col, err := cat.EnsureColumn(iv.Item)
		if err != nil {
			return nil, err
		}
		if err := validateCell(cat, col, iv.Value); err != nil {
			return nil, err
		}
		row.Set(col, iv.Value)
	}
	if cat.HasPrimaryKey() {
		if _, dup := cat.FindByRow(row); dup {
			return nil, fmt.Errorf("%w: %w", &cerr.ValidationError{Category: cat.Name, Message: "primary key already exists"}, cerr.ErrDuplicateKey)
		}
	}
	cat.AppendRow(row)
	return row, nil
}

func validateCell(cat *store.Category, col int, value string) error {
	c := cat.Column(col)
	if c == nil || c.Validator == nil {
		return nil
	}
	return c.Validator.Validate(value)
}

func itemNameOf(cat *store.Category, col int) string {
	c := cat.Column(col)
	if c == nil {
		return ""
	}
	return c.Name
}

// parentKeyGroups returns every link group in which cat is the parent
// and itemName is one of the group's parent key items.
func parentKeyGroups(cat *store.Category, itemName string) []*store.ResolvedLink {
	var groups []*store.ResolvedLink
	for _, link := range cat.ParentLinks {
		for _, key := range link.Spec.ParentKeys {
			if text.IEquals(key, itemName) {
				groups = append(groups, link)
				break
			}
		}
	}
	return groups
}

// keyTuple reads row's current text at each of items, reporting for
// each position whether a cell exists there at all (false means the
// column is unknown, i.e. no cell, not the empty string).
func keyTuple(cat *store.Category, row *cellstore.Row, items []string) (texts []string, present []bool) {
	texts = make([]string, len(items))
	present = make([]bool, len(items))
	for i, item := range items {
		col := cat.IndexOf(item)
		val, ok := row.Get(col)
		texts[i] = val
		present[i] = ok
	}
	return texts, present
}

func allPresent(present []bool) bool {
	for _, p := range present {
		if !p {
			return false
		}
	}
	return true
}

func allTrue(n int) []bool {
	p := make([]bool, n)
	for i := range p {
		p[i] = true
	}
	return p
}

// findByJoinTuple scans cat for every row whose items columns match
// texts exactly where present is true, and are themselves unknown where
// present is false — the full-table join cat's own primary-key index
// can't serve, since items here are a child's foreign-key columns, not
// necessarily its own key.
func findByJoinTuple(cat *store.Category, items []string, texts []string, present []bool) []*cellstore.Row {
	cols := make([]int, len(items))
	for i, item := range items {
		cols[i] = cat.IndexOf(item)
	}
	var matches []*cellstore.Row
	for _, row := range cat.Rows() {
		ok := true
		for i, col := range cols {
			val, has := row.Get(col)
			if present[i] {
				if !has || !cellEquals(cat, col, val, texts[i]) {
					ok = false
					break
				}
			} else if has {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, row)
		}
	}
	return matches
}

func cellEquals(cat *store.Category, col int, a, b string) bool {
	c := cat.Column(col)
	if c != nil && c.Validator != nil {
		return c.Validator.Compare(a, b) == 0
	}
	return a == b
}

// hasOtherLiveParent reports whether ch is bound, through some link
// group other than g, to a parent row that is not parentRow itself —
// the test that decides whether a rename must split ch (a genuinely
// different parent row is involved) or may rewrite it in place (every
// other group referencing ch resolves to this very parent row, just
// through a different join column, as happens when several single-
// column link groups share one parent/child category pair).
func hasOtherLiveParent(ch *cellstore.Row, child *store.Category, g *store.ResolvedLink, parentRow *cellstore.Row) bool {
	for _, other := range child.ChildLinks {
		if other.Spec.GroupID == g.Spec.GroupID || other.Parent == nil {
			continue
		}
		texts, present := keyTuple(child, ch, other.Spec.ChildKeys)
		if !allPresent(present) {
			continue
		}
		if row, ok := other.Parent.FindByKeyValues(texts); ok && row != parentRow {
			return true
		}
	}
	return false
}
