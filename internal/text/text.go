// Package text provides the locale-independent string and numeric helpers
// the CIF grammar and validator need: ASCII-only case folding, tag
// splitting, and float/int formatting that round-trips losslessly.
package text

import (
	"strconv"
	"strings"
)

// IEquals reports whether a and b are equal under ASCII-only case folding
// (bytes 'A'-'Z' lower-cased; everything else compared verbatim).
func IEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if foldByte(a[i]) != foldByte(b[i]) {
			return false
		}
	}
	return true
}

// IHasPrefix reports whether s starts with prefix under the same
// ASCII-only case folding as IEquals.
func IHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && IEquals(s[:len(prefix)], prefix)
}

// ICompare returns -1, 0, or 1 comparing a and b byte-wise under ASCII
// case folding, like strings.Compare but locale- and Unicode-fold-free.
func ICompare(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		fa, fb := foldByte(a[i]), foldByte(b[i])
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// SplitTagName splits a fully qualified tag "_category.item" into its
// category and item parts. A tag with no dot has an empty category and
// the whole (unprefixed) string as item.
func SplitTagName(tag string) (category, item string) {
	tag = strings.TrimPrefix(tag, "_")
	if i := strings.IndexByte(tag, '.'); i >= 0 {
		return tag[:i], tag[i+1:]
	}
	return "", tag
}

// CollapseSpaces replaces every run of ASCII spaces with a single space,
// the normalization the Char/UChar compare rules apply before comparing
// two values.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if inRun {
				continue
			}
			inRun = true
		} else {
			inRun = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// CompareText compares two values per the Char/UChar rule: runs of spaces
// collapsed to one, then bytewise compare (optionally case-folded).
func CompareText(a, b string, foldCase bool) int {
	a, b = CollapseSpaces(a), CollapseSpaces(b)
	if foldCase {
		return ICompare(a, b)
	}
	return strings.Compare(a, b)
}

// ParseFloat parses s as a CIF numeric value, locale-independent by
// construction since strconv never consults the process locale.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(stripESU(s), 64)
}

// ParseInt parses s as a CIF integer value.
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(stripESU(s), 10, 64)
}

// stripESU removes a trailing standard-uncertainty annotation, e.g.
// "1.234(5)" -> "1.234", which mmCIF numeric columns commonly carry.
func stripESU(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 && strings.HasSuffix(s, ")") {
		return s[:i]
	}
	return s
}

// FormatFloat renders f in "general" mode: the shortest decimal
// representation that parses back to the same float64.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFloatPrec renders f with a fixed number of digits after the
// decimal point.
func FormatFloatPrec(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
