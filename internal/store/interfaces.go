// Package store implements the in-memory relational model:
// File → DataBlock → Category → Row → Cell, with an optional validator
// cascade and link-group resolution. It is grounded on the teacher's
// Database → Table → Column ownership tree (internal/core/schema.go in
// the teacher, since deleted once its SQL-dialect-specific fields were
// extracted — see DESIGN.md), adapted from named struct fields to the
// sparse, column-indexed cellstore.Row that mmCIF's many-optional-column
// categories need.
package store

// ColumnValidator checks one value against an item's type/enum rule and
// orders two values per that item's comparison discipline. It is
// implemented by validate.ItemValidator; declared here (rather than
// imported) so store does not depend on validate — validate depends on
// store, not the reverse.
type ColumnValidator interface {
	Validate(value string) error
	// Compare orders a and b per the item's attached type (numeric,
	// case-folded, or plain), or lexically if no type is attached.
	// Used by internal/query's KeyCompare condition.
	Compare(a, b string) int
}

// KeyNormalizer supplies the primary-key columns of a category and the
// per-item comparison normalization (case folding for UChar, space-run
// collapse for Char/UChar) a validated category applies before hashing
// or comparing key tuples.
type KeyNormalizer interface {
	Keys() []string
	Normalize(item, value string) string
}

// LinkSpec is one resolved-by-name link group: a parent category joined
// to a child category on an ordered list of item pairs.
// FileValidator.LinkSpecs returns these; Category resolves them against
// sibling categories in the same block.
type LinkSpec struct {
	GroupID        string
	ParentCategory string
	ChildCategory  string
	ParentKeys     []string
	ChildKeys      []string
}

// FileValidator is the store-facing view of a validate.Validator: enough
// to drive column creation checks, primary-key uniqueness, and link
// cascade, without store importing validate.
type FileValidator interface {
	Name() string
	Version() string
	Strict() bool
	// KnownCategory reports whether name is declared by the dictionary.
	KnownCategory(name string) bool
	// ColumnMeta resolves a (category, item) tag to its mandatory flag
	// and value validator, if the dictionary declares one.
	ColumnMeta(category, item string) (mandatory bool, cv ColumnValidator, ok bool)
	// KeyNormalizerFor returns the primary-key normalizer for a category,
	// if the dictionary declares one.
	KeyNormalizerFor(category string) (KeyNormalizer, bool)
	// LinkSpecs returns every configured link group.
	LinkSpecs() []LinkSpec
}
