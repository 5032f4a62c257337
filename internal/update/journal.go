package update

import (
	"cif/internal/cellstore"
	"cif/internal/store"
)

type journalKind int

const (
	jSetCell journalKind = iota
	jInsertRow
	jRemoveRow
)

type journalEntry struct {
	kind journalKind
	cat  *store.Category
	row  *cellstore.Row
	col  int

	hadOld  bool
	oldText string

	// after is the row "row" was spliced after (insert) or removed from
	// after (remove, nil meaning it was the head) — enough to splice it
	// back to the same position on rollback.
	after *cellstore.Row
}

// journal records every mutation a SetCell or Erase call makes to the
// store, in order, so a validation failure partway through a cascade
// can be rolled back and leave the store exactly as it was before the
// call. This is the exception-safety the update propagator must
// provide: split-copies and cell rewrites happen as they're discovered
// during the traversal, but any failure unwinds everything already
// applied rather than leaving a half-cascaded store.
type journal struct {
	entries []journalEntry
}

func (j *journal) setCell(cat *store.Category, row *cellstore.Row, col int, text string) {
	old, ok := row.Get(col)
	j.entries = append(j.entries, journalEntry{kind: jSetCell, cat: cat, row: row, col: col, hadOld: ok, oldText: old})
	row.Set(col, text)
	cat.InvalidatePKIndex()
}

func (j *journal) deleteCell(cat *store.Category, row *cellstore.Row, col int) {
	old, ok := row.Get(col)
	if !ok {
		return
	}
	j.entries = append(j.entries, journalEntry{kind: jSetCell, cat: cat, row: row, col: col, hadOld: true, oldText: old})
	row.Delete(col)
	cat.InvalidatePKIndex()
}

func (j *journal) insertRowAfter(cat *store.Category, after, row *cellstore.Row) {
	j.entries = append(j.entries, journalEntry{kind: jInsertRow, cat: cat, row: row})
	cat.InsertRowAfter(after, row)
}

func (j *journal) removeRow(cat *store.Category, row *cellstore.Row) {
	var prev *cellstore.Row
	for _, r := range cat.Rows() {
		if r == row {
			break
		}
		prev = r
	}
	j.entries = append(j.entries, journalEntry{kind: jRemoveRow, cat: cat, row: row, after: prev})
	cat.RemoveRow(row)
}

// rollback undoes every recorded mutation in reverse order.
func (j *journal) rollback() {
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		switch e.kind {
		case jSetCell:
			if e.hadOld {
				e.row.Set(e.col, e.oldText)
			} else {
				e.row.Delete(e.col)
			}
			e.cat.InvalidatePKIndex()
		case jInsertRow:
			e.cat.RemoveRow(e.row)
		case jRemoveRow:
			if e.after == nil {
				e.cat.InsertRowHead(e.row)
			} else {
				e.cat.InsertRowAfter(e.after, e.row)
			}
		}
	}
}
