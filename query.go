package cif

import "cif/internal/query"

// Condition/query façade: a composable predicate tree evaluated against
// one category's rows. See internal/query for the implementation.
type (
	Condition = query.Condition
	Value     = query.Value
	Op        = query.Op
	Iterator  = query.Iterator
	Prepared  = query.Prepared
)

const (
	Less      = query.Less
	LessEq    = query.LessEq
	Greater   = query.Greater
	GreaterEq = query.GreaterEq
)

func StringValue(s string) Value { return query.StringValue(s) }
func IntValue(i int64) Value     { return query.IntValue(i) }
func FloatValue(f float64) Value { return query.FloatValue(f) }
func BoolValue(b bool) Value     { return query.BoolValue(b) }

func Eq(tag string, v Value) *Condition    { return query.Eq(tag, v) }
func NotEq(tag string, v Value) *Condition { return query.NotEq(tag, v) }
func IsEmpty(tag string) *Condition        { return query.IsEmpty(tag) }
func Cmp(tag string, op Op, v Value) *Condition {
	return query.Cmp(tag, op, v)
}
func MatchesRegex(tag, pattern string) *Condition { return query.MatchesRegex(tag, pattern) }
func AnyEq(v Value) *Condition                    { return query.AnyEq(v) }
func AnyMatches(pattern string) *Condition        { return query.AnyMatches(pattern) }
func And(l, r *Condition) *Condition              { return query.AndC(l, r) }
func Or(l, r *Condition) *Condition               { return query.OrC(l, r) }
func All() *Condition                             { return query.AllC() }

// Find returns an Iterator over cat's rows matching cond.
func Find(cond *Condition, cat *Category) (*Iterator, error) { return query.Find(cond, cat) }

// Find1 asserts that cond matches exactly one row in cat and returns it.
func Find1(cond *Condition, cat *Category) (*Row, error) { return query.Find1(cond, cat) }

// Exists reports whether any row of cat matches cond.
func Exists(cond *Condition, cat *Category) (bool, error) { return query.Exists(cond, cat) }

// Project evaluates cond against cat and returns the named items of
// every matching row, in row order.
func Project(cond *Condition, cat *Category, items ...string) ([][]string, error) {
	return query.Project(cond, cat, items...)
}

// Prepare binds cond against cat's columns once, for repeated Eval calls
// against many rows of the same category without re-resolving tags.
func Prepare(cond *Condition, cat *Category) (*Prepared, error) { return query.Prepare(cond, cat) }
