package query

import (
	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/store"
)

// Iterator walks a category's rows lazily, yielding only those that
// satisfy a prepared condition. Its zero value is not usable; get one
// from Find.
type Iterator struct {
	prepared *Prepared
	rows     []*cellstore.Row
	idx      int
}

// Find prepares cond against cat and returns a lazy iterator over the
// matching rows, in category order.
func Find(cond *Condition, cat *store.Category) (*Iterator, error) {
	p, err := Prepare(cond, cat)
	if err != nil {
		return nil, err
	}
	return &Iterator{prepared: p, rows: cat.Rows()}, nil
}

// Next returns the next matching row, or false once exhausted.
func (it *Iterator) Next() (*cellstore.Row, bool) {
	for it.idx < len(it.rows) {
		row := it.rows[it.idx]
		it.idx++
		if it.prepared.Eval(row) {
			return row, true
		}
	}
	return nil, false
}

// Count drains the iterator and returns how many rows matched.
func (it *Iterator) Count() int {
	n := 0
	for {
		if _, ok := it.Next(); !ok {
			return n
		}
		n++
	}
}

// All drains the iterator into a slice, in category order.
func (it *Iterator) All() []*cellstore.Row {
	var rows []*cellstore.Row
	for {
		row, ok := it.Next()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

// Find1 asserts that cond matches exactly one row in cat and returns it.
func Find1(cond *Condition, cat *store.Category) (*cellstore.Row, error) {
	it, err := Find(cond, cat)
	if err != nil {
		return nil, err
	}
	row, ok := it.Next()
	if !ok {
		return nil, &cerr.ValidationError{Category: cat.Name, Message: "find1: no matching row"}
	}
	if _, ok := it.Next(); ok {
		return nil, &cerr.ValidationError{Category: cat.Name, Message: "find1: more than one matching row"}
	}
	return row, nil
}

// Exists reports whether any row in cat satisfies cond, short-circuiting
// on the first match.
func Exists(cond *Condition, cat *store.Category) (bool, error) {
	it, err := Find(cond, cat)
	if err != nil {
		return false, err
	}
	_, ok := it.Next()
	return ok, nil
}

// Project returns, for every row matching cond, the text of each named
// item in items, in order — the typed-tuple projection in the cell
// store's uniform string representation. Callers needing a parsed
// numeric value apply internal/text.ParseFloat/ParseInt themselves,
// mirroring how the store defers all numeric interpretation to the
// comparison/validation layer rather than carrying typed cells.
func Project(cond *Condition, cat *store.Category, items ...string) ([][]string, error) {
	it, err := Find(cond, cat)
	if err != nil {
		return nil, err
	}
	cols := make([]int, len(items))
	for i, item := range items {
		cols[i] = cat.IndexOf(item)
	}
	var out [][]string
	for {
		row, ok := it.Next()
		if !ok {
			return out, nil
		}
		tuple := make([]string, len(cols))
		for i, c := range cols {
			v, _ := row.Get(c)
			tuple[i] = v
		}
		out = append(out, tuple)
	}
}
