package store

import (
	"cif/internal/cellstore"
	"cif/internal/cerr"
)

// ResolvedLink is a LinkSpec bound to concrete sibling Categories within
// one DataBlock, rebuilt by DataBlock.updateLinks whenever a validator
// is attached — these pointers do not survive a move/copy of the block.
type ResolvedLink struct {
	Spec   LinkSpec
	Parent *Category
	Child  *Category
}

// Category is an ordered, named table: a column list and a singly-linked
// row list, with an optional validator and resolved link groups.
type Category struct {
	Name string

	columns *columnTable
	rows    cellstore.List

	validator FileValidator
	keyNorm   KeyNormalizer
	pkIndex   map[string]*cellstore.Row
	pkBuilt   bool

	// Warnings accumulates non-fatal diagnostics (e.g. unknown tags
	// under a non-strict validator) — kept as a plain slice here rather
	// than a callback interface; the teacher's non-core layers
	// (introspection, apply preflight) used slices of collected warnings
	// the same way.
	Warnings []string

	ParentLinks []*ResolvedLink
	ChildLinks  []*ResolvedLink
}

// NewCategory creates an empty, unvalidated category.
func NewCategory(name string) *Category {
	return &Category{Name: name, columns: newColumnTable()}
}

// IndexOf returns the column index for name, or Len() if name is unknown.
func (c *Category) IndexOf(name string) int { return c.columns.IndexOf(name) }

// Column returns the column at index i, or nil if out of range.
func (c *Category) Column(i int) *Column { return c.columns.Get(i) }

// Columns returns every column in declaration order.
func (c *Category) Columns() []*Column { return c.columns.All() }

// Len returns the number of columns.
func (c *Category) Len() int { return c.columns.Len() }

// EnsureColumn returns the index for name, creating the column if this
// is the first reference to it. When a strict validator is attached and
// name is not a declared item of this category, it returns a
// *cerr.ValidationError instead of creating the column; under a
// non-strict validator the column is still created but the occurrence
// is appended to Warnings.
func (c *Category) EnsureColumn(name string) (int, error) {
	if i, ok := c.columns.index[lower(name)]; ok {
		return i, nil
	}
	if c.validator != nil {
		mandatory, cv, known := c.validator.ColumnMeta(c.Name, name)
		if !known {
			if c.validator.Strict() {
				return 0, &cerr.ValidationError{Category: c.Name, Item: name, Message: "unknown tag"}
			}
			c.Warnings = append(c.Warnings, "unknown tag "+c.Name+"."+name)
		}
		idx := c.columns.Add(name)
		col := c.columns.Get(idx)
		col.Mandatory = mandatory
		col.Validator = cv
		return idx, nil
	}
	return c.columns.Add(name), nil
}

// Rows returns every row in insertion (or promoted) order.
func (c *Category) Rows() []*cellstore.Row { return c.rows.All() }

// Head returns the first row, or nil.
func (c *Category) Head() *cellstore.Row { return c.rows.Head() }

// NumRows returns the row count.
func (c *Category) NumRows() int { return c.rows.Len() }

// AppendRow adds row to the tail of the category and invalidates the
// primary-key index.
func (c *Category) AppendRow(row *cellstore.Row) {
	c.rows.Append(row)
	c.pkBuilt = false
}

// InsertRowAfter splices row immediately after "after" — used by the
// update propagator's split-on-cascade.
func (c *Category) InsertRowAfter(after, row *cellstore.Row) {
	c.rows.InsertAfter(after, row)
	c.pkBuilt = false
}

// InsertRowHead splices row to the front of the category — used only by
// the update propagator's rollback journal, to undo removing the former
// first row of the list.
func (c *Category) InsertRowHead(row *cellstore.Row) {
	c.rows.InsertHead(row)
	c.pkBuilt = false
}

// RemoveRow unlinks row from the category.
func (c *Category) RemoveRow(row *cellstore.Row) {
	c.rows.Remove(row)
	c.pkBuilt = false
}

// SetValidator attaches fv to this category, resolving its key
// normalizer and per-column metadata. Called by DataBlock.SetValidator
// during the File→DataBlock→Category cascade.
func (c *Category) SetValidator(fv FileValidator) {
	c.validator = fv
	c.keyNorm, _ = fv.KeyNormalizerFor(c.Name)
	for _, col := range c.columns.All() {
		mandatory, cv, known := fv.ColumnMeta(c.Name, col.Name)
		if known {
			col.Mandatory = mandatory
			col.Validator = cv
		}
	}
	c.pkBuilt = false
}

// Validator returns the attached FileValidator, or nil.
func (c *Category) Validator() FileValidator { return c.validator }

// HasPrimaryKey reports whether this category has a configured primary key.
func (c *Category) HasPrimaryKey() bool { return c.keyNorm != nil }

// KeyOf returns the normalized primary-key string for row, and whether
// every key column is present (a row with a missing or inapplicable key
// column has no key and is exempt from uniqueness, per common mmCIF
// dictionary practice of only constraining fully-populated rows).
func (c *Category) KeyOf(row *cellstore.Row) (string, bool) {
	if c.keyNorm == nil {
		return "", false
	}
	key := ""
	for _, item := range c.keyNorm.Keys() {
		idx := c.IndexOf(item)
		val, ok := row.Get(idx)
		if !ok || val == cellstore.Inapplicable {
			return "", false
		}
		key += string(rune(0)) + c.keyNorm.Normalize(item, val)
	}
	return key, true
}

func (c *Category) ensurePKIndex() {
	if c.pkBuilt {
		return
	}
	c.pkIndex = make(map[string]*cellstore.Row, c.rows.Len())
	for _, row := range c.rows.All() {
		if key, ok := c.KeyOf(row); ok {
			c.pkIndex[key] = row
		}
	}
	c.pkBuilt = true
}

// FindByRow returns the row (if any) whose primary key matches row's,
// excluding row itself. Used to detect duplicate keys before insert.
func (c *Category) FindByRow(row *cellstore.Row) (*cellstore.Row, bool) {
	key, ok := c.KeyOf(row)
	if !ok {
		return nil, false
	}
	c.ensurePKIndex()
	existing, found := c.pkIndex[key]
	if found && existing != row {
		return existing, true
	}
	if found {
		// The index keeps one row per key; row may shadow an earlier duplicate.
		for _, other := range c.rows.All() {
			if k, ok := c.KeyOf(other); ok && other != row && k == key {
				return other, true
			}
		}
	}
	return nil, false
}

// FindByKeyValues looks up a row by explicit key column values, in the
// order KeyNormalizer.Keys() declares them.
func (c *Category) FindByKeyValues(values []string) (*cellstore.Row, bool) {
	if c.keyNorm == nil {
		return nil, false
	}
	keys := c.keyNorm.Keys()
	if len(keys) != len(values) {
		return nil, false
	}
	key := ""
	for i, item := range keys {
		key += string(rune(0)) + c.keyNorm.Normalize(item, values[i])
	}
	c.ensurePKIndex()
	row, ok := c.pkIndex[key]
	return row, ok
}

// InvalidatePKIndex forces the next lookup to rebuild the hash index —
// called after any in-place cell rewrite to a key column.
func (c *Category) InvalidatePKIndex() { c.pkBuilt = false }
