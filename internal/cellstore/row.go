package cellstore

// Row is a singly-linked list of Cells. Rows are identity-stable: the
// *Row pointer is the row handle callers hold onto across non-erasing
// mutations — raw handles rather than an arena-plus-index scheme.
type Row struct {
	next  *Row
	cells *Cell
}

// Next returns the following row in category insertion order, or nil.
func (r *Row) Next() *Row { return r.next }

// Cell returns the cell at col, if one exists.
func (r *Row) Cell(col int) (*Cell, bool) {
	for c := r.cells; c != nil; c = c.next {
		if c.Column() == col {
			return c, true
		}
	}
	return nil, false
}

// Get returns the text at col and whether a cell exists there at all
// (as opposed to the column being absent, i.e. unknown/'?').
func (r *Row) Get(col int) (string, bool) {
	c, ok := r.Cell(col)
	if !ok {
		return "", false
	}
	return c.Text(), true
}

// Set writes text at col, creating the cell if absent.
func (r *Row) Set(col int, text string) {
	if c, ok := r.Cell(col); ok {
		c.setText(text)
		return
	}
	nc := newCell(col, text)
	nc.next = r.cells
	r.cells = nc
}

// Delete removes the cell at col, if any.
func (r *Row) Delete(col int) {
	var prev *Cell
	for c := r.cells; c != nil; c = c.next {
		if c.Column() == col {
			if prev == nil {
				r.cells = c.next
			} else {
				prev.next = c.next
			}
			return
		}
		prev = c
	}
}

// Clone deep-copies every cell into a fresh, unlinked Row.
func (r *Row) Clone() *Row {
	clone := &Row{}
	// Walk in reverse-accumulation order so the clone's cell list ends
	// up in the same column order as the source.
	var cells []*Cell
	for c := r.cells; c != nil; c = c.next {
		cells = append(cells, c)
	}
	for i := len(cells) - 1; i >= 0; i-- {
		nc := newCell(cells[i].Column(), cells[i].Text())
		nc.next = clone.cells
		clone.cells = nc
	}
	return clone
}

// Columns returns the set of column indices populated in this row, in
// no particular order.
func (r *Row) Columns() []int {
	var cols []int
	for c := r.cells; c != nil; c = c.next {
		cols = append(cols, c.Column())
	}
	return cols
}

// List is the ordered, singly-linked sequence of rows belonging to one
// category.
type List struct {
	head, tail *Row
	length     int
}

// Append adds row to the tail of the list.
func (l *List) Append(row *Row) {
	if l.tail == nil {
		l.head, l.tail = row, row
	} else {
		l.tail.next = row
		l.tail = row
	}
	l.length++
}

// InsertHead splices row to the front of the list — used to undo a
// RemoveRow that took the former head, in the update propagator's
// rollback journal.
func (l *List) InsertHead(row *Row) {
	row.next = l.head
	l.head = row
	if l.tail == nil {
		l.tail = row
	}
	l.length++
}

// InsertAfter splices row immediately after after (after must belong to l).
func (l *List) InsertAfter(after, row *Row) {
	row.next = after.next
	after.next = row
	if l.tail == after {
		l.tail = row
	}
	l.length++
}

// Remove unlinks row from the list.
func (l *List) Remove(row *Row) {
	if l.head == row {
		l.head = row.next
		if l.tail == row {
			l.tail = nil
		}
		l.length--
		return
	}
	for p := l.head; p != nil; p = p.next {
		if p.next == row {
			p.next = row.next
			if l.tail == row {
				l.tail = p
			}
			l.length--
			return
		}
	}
}

// Head returns the first row, or nil if the list is empty.
func (l *List) Head() *Row { return l.head }

// Len returns the number of rows in the list.
func (l *List) Len() int { return l.length }

// All returns every row in order. Convenience for callers that do not
// need to stream; the store itself always walks via Next().
func (l *List) All() []*Row {
	rows := make([]*Row, 0, l.length)
	for r := l.head; r != nil; r = r.next {
		rows = append(rows, r)
	}
	return rows
}
