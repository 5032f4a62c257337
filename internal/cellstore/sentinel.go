package cellstore

// Inapplicable is the internal text representation of CIF's explicit
// '.' marker. It is a non-printable byte so it can never collide with a
// genuine (possibly empty) quoted string value: the scanner rejects
// non-printable bytes inside every quoted, unquoted, and text-field
// value, so this byte never occurs in real cell content, and a
// present-but-empty cell (quoted ” or an empty text field) stays
// distinguishable from '.' as plain "".
//
// Unknown has no stored representation: the row/column model already
// treats "no cell at (row, column)" as unknown (Row.Get's second return
// is false), and an explicit '?' token carries the same information as
// the tag never having been mentioned at all, so the parser leaves the
// cell absent rather than storing a marker for it. Unknown is kept as a
// named constant for the serializer, which renders an absent cell as
// the canonical '?' text; it is never actually written into a cell.
const (
	Inapplicable = "\x00"
	Unknown      = "?"
)

// IsSpecial reports whether text is the stored inapplicable marker.
// Unknown is never stored, so it is not part of this check; callers
// that need to treat a missing cell as exempt from validation should
// check Row.Get's ok result directly.
func IsSpecial(text string) bool {
	return text == Inapplicable
}
