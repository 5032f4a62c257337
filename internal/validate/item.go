package validate

import (
	"fmt"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/text"
)

// ItemValidator validates one fully-qualified dictionary item: an
// optional type, an optional enumeration, and a mandatory flag. It
// implements store.ColumnValidator so a Category can attach it directly
// to a Column.
type ItemValidator struct {
	Tag       string // fully-qualified "_category.item"
	Category  string
	Item      string
	Mandatory bool
	Type      *TypeValidator

	enum      map[string]struct{}
	enumOrder []string
}

// NewItemValidator creates an item validator with no type and no
// enumeration; both are attached separately since a dictionary may
// declare mandatoriness, type, and enum in three different save frames.
func NewItemValidator(category, item string, mandatory bool) *ItemValidator {
	return &ItemValidator{Tag: "_" + category + "." + item, Category: category, Item: item, Mandatory: mandatory}
}

// SetEnum installs the allowed value set, case-folded for comparison if
// the item's type is UChar (installed separately, so SetEnum may run
// before or after SetType — SetType re-folds the enum once the type is
// known).
func (iv *ItemValidator) SetEnum(values []string) {
	iv.enumOrder = append([]string(nil), values...)
	iv.refoldEnum()
}

// SetType attaches t and, if an enum was already installed, re-folds it
// under t's comparison discipline.
func (iv *ItemValidator) SetType(t *TypeValidator) {
	iv.Type = t
	iv.refoldEnum()
}

func (iv *ItemValidator) refoldEnum() {
	if len(iv.enumOrder) == 0 {
		iv.enum = nil
		return
	}
	iv.enum = make(map[string]struct{}, len(iv.enumOrder))
	for _, v := range iv.enumOrder {
		iv.enum[iv.foldKey(v)] = struct{}{}
	}
}

func (iv *ItemValidator) foldKey(v string) string {
	if iv.Type != nil && iv.Type.Primitive == UChar {
		return asciiLower(v)
	}
	return v
}

// HasEnum reports whether this item constrains values to an explicit set.
func (iv *ItemValidator) HasEnum() bool { return len(iv.enum) > 0 }

// Validate applies the type regex and enum membership check. The stored
// inapplicable marker ('.') is exempt from both checks. An explicit '?'
// is never stored, so it never reaches Validate; a literal "?" passed
// in is checked like any other value.
func (iv *ItemValidator) Validate(value string) error {
	if cellstore.IsSpecial(value) {
		return nil
	}
	if iv.Type != nil {
		if err := iv.Type.Validate(value); err != nil {
			return &cerr.ValidationError{Category: iv.Category, Item: iv.Item, Message: err.Error()}
		}
	}
	if iv.HasEnum() {
		if _, ok := iv.enum[iv.foldKey(value)]; !ok {
			return &cerr.ValidationError{
				Category: iv.Category,
				Item:     iv.Item,
				Message:  fmt.Sprintf("value %q is not one of the allowed values", value),
			}
		}
	}
	return nil
}

// Compare orders a and b per the item's attached type, or by the plain
// Char discipline (space-run collapse, no case fold) if none is
// attached — store.ColumnValidator, used by internal/query's KeyCompare.
func (iv *ItemValidator) Compare(a, b string) int {
	if iv.Type != nil {
		return iv.Type.Compare(a, b)
	}
	return text.CompareText(a, b, false)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
