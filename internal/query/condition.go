// Package query implements the condition/predicate engine that finds
// rows within one category: an AST of composable comparisons, bound
// once against a category's columns, then evaluated per row with no
// further name lookups. Grounded on the teacher's field-by-field
// comparison traversal in internal/diff/diff_table.go, generalized from
// "compare two rows of the same shape" to "test one row against a
// predicate tree".
package query

import (
	"strconv"

	"cif/internal/text"
)

// Op is a KeyCompare ordering operator.
type Op int

const (
	Less Op = iota
	LessEq
	Greater
	GreaterEq
)

// ValueKind tags the four literal kinds a typed comparison can carry —
// a flat tagged variant, matching the project's existing token.Token
// shape, rather than an interface-per-kind hierarchy.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
)

// Value is a typed literal compared against cell text. text renders it
// to the string form a cell would hold, so comparisons always happen in
// the cell's own text domain.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

func (v Value) text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return text.FormatFloat(v.Float)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Kind discriminates a Condition node, the tagged variant the whole
// predicate tree is built from.
type Kind int

const (
	KeyEquals Kind = iota
	KeyNotEquals
	KeyIsEmpty
	KeyCompare
	KeyMatchesRegex
	AnyEquals
	AnyMatchesRegex
	And
	Or
	All
)

// Condition is one node of the predicate tree. Only the fields relevant
// to Kind are populated; this mirrors token.Token's flat Kind+fields
// shape rather than an interface per variant.
type Condition struct {
	Kind    Kind
	Tag     string // item name within the category being queried
	Value   Value
	Op      Op
	Pattern string
	Left    *Condition
	Right   *Condition
}

func Eq(tag string, v Value) *Condition    { return &Condition{Kind: KeyEquals, Tag: tag, Value: v} }
func NotEq(tag string, v Value) *Condition { return &Condition{Kind: KeyNotEquals, Tag: tag, Value: v} }
func IsEmpty(tag string) *Condition        { return &Condition{Kind: KeyIsEmpty, Tag: tag} }
func Cmp(tag string, op Op, v Value) *Condition {
	return &Condition{Kind: KeyCompare, Tag: tag, Op: op, Value: v}
}
func MatchesRegex(tag, pattern string) *Condition {
	return &Condition{Kind: KeyMatchesRegex, Tag: tag, Pattern: pattern}
}
func AnyEq(v Value) *Condition { return &Condition{Kind: AnyEquals, Value: v} }
func AnyMatches(pattern string) *Condition {
	return &Condition{Kind: AnyMatchesRegex, Pattern: pattern}
}
func AndC(l, r *Condition) *Condition { return &Condition{Kind: And, Left: l, Right: r} }
func OrC(l, r *Condition) *Condition  { return &Condition{Kind: Or, Left: l, Right: r} }
func AllC() *Condition                { return &Condition{Kind: All} }
