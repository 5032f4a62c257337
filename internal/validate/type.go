// Package validate implements the dictionary-driven validator model: type,
// item, category, and link validators assembled by internal/dictionary and
// consumed by internal/store through the ColumnValidator/KeyNormalizer/
// FileValidator interfaces it declares. Grounded on the teacher's
// internal/core validate*.go family — ItemValidator maps onto the teacher's
// column+enum checks, CategoryValidator onto its table+primary-key checks,
// LinkValidator onto its foreign-key RefOnDelete/RefOnUpdate handling.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"cif/internal/cerr"
	"cif/internal/text"
)

// Primitive is one of the three comparison disciplines a dictionary type
// can declare.
type Primitive int

const (
	// Other covers every primitive code that is neither numeric nor
	// string-with-folding: validated by regex only, compared lexically.
	Other Primitive = iota
	Numb
	UChar
	Char
)

// TypeValidator holds a compiled POSIX extended regular expression plus
// the comparison discipline for its primitive code.
type TypeValidator struct {
	Code      string
	Primitive Primitive
	re        *regexp.Regexp
}

// NewTypeValidator compiles pattern as a POSIX-ERE regex (leftmost-longest
// matching, via regexp.CompilePOSIX — the stdlib's one POSIX-semantics
// entry point, not its default Perl-ish leftmost-first mode). An empty
// pattern is normalized to ".+".
func NewTypeValidator(code string, primitive Primitive, pattern string) (*TypeValidator, error) {
	if pattern == "" {
		pattern = ".+"
	}
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, &cerr.DictionaryError{Message: fmt.Sprintf("type %s: %s", code, err)}
	}
	return &TypeValidator{Code: code, Primitive: primitive, re: re}, nil
}

// Validate reports whether value matches the type's regex in full.
func (t *TypeValidator) Validate(value string) error {
	loc := t.re.FindStringIndex(value)
	if loc == nil || loc[0] != 0 || loc[1] != len(value) {
		return &cerr.ValidationError{Message: fmt.Sprintf("value %q does not match type %s", value, t.Code)}
	}
	return nil
}

// Compare orders two raw values per this type's primitive: Numb parses
// both as float64 (empty sorts before non-empty, otherwise numeric order
// within a small epsilon); UChar case-folds and collapses space runs
// before a bytewise compare; Char and Other collapse space runs only.
func (t *TypeValidator) Compare(a, b string) int {
	switch t.Primitive {
	case Numb:
		return compareNumb(a, b)
	case UChar:
		return text.CompareText(a, b, true)
	default:
		return text.CompareText(a, b, false)
	}
}

const numbEpsilon = 1e-9

func compareNumb(a, b string) int {
	if a == "" || b == "" {
		switch {
		case a == "" && b == "":
			return 0
		case a == "":
			return -1
		default:
			return 1
		}
	}
	fa, erra := text.ParseFloat(a)
	fb, errb := text.ParseFloat(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	d := fa - fb
	switch {
	case d < -numbEpsilon:
		return -1
	case d > numbEpsilon:
		return 1
	default:
		return 0
	}
}
