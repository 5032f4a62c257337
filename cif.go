// Package cif is the public façade over the module's internal packages:
// it wires internal/parse, internal/store, internal/validate,
// internal/dictionary, internal/query, internal/update, and
// internal/serialize into the single File/DataBlock/Category/Row type
// surface spec.md §4.K describes, the way the teacher's cmd/smf wires
// internal/* into one command tree rather than exposing each package
// directly to callers.
package cif

import (
	"io"

	"cif/internal/cellstore"
	"cif/internal/dictionary"
	"cif/internal/parse"
	"cif/internal/serialize"
	"cif/internal/store"
	"cif/internal/validate"
)

// Re-exported model types. Callers never need to import internal/store
// or internal/cellstore directly.
type (
	File      = store.File
	DataBlock = store.DataBlock
	Category  = store.Category
	Column    = store.Column
	Row       = cellstore.Row
	Validator = validate.Validator
)

// Special cell values. Inapplicable is CIF's explicit "not applicable"
// marker ('.'); Unknown is the text serialization writes for a cell
// that was never set ('?') — it is never itself stored, see
// internal/cellstore's sentinel doc.
const (
	Inapplicable = cellstore.Inapplicable
	Unknown      = cellstore.Unknown
)

// NewFile creates an empty, validator-less file.
func NewFile() *File { return store.NewFile() }

// NewValidator creates an empty validator; populate it directly
// (AddCategory/AddItem/AddLink/...) or build one from a dictionary via
// LoadDictionary.
func NewValidator(name, version string, strict bool) *Validator {
	return validate.NewValidator(name, version, strict)
}

// Parse reads a plain CIF data file from r.
func Parse(r io.Reader) (*File, error) {
	return parse.NewParser().Parse(r)
}

// ParseFile opens and parses path as a plain CIF data file.
func ParseFile(path string) (*File, error) {
	return parse.NewParser().ParseFile(path)
}

// LoadDictionary parses r as a CIF dictionary and builds the validator
// it declares.
func LoadDictionary(r io.Reader, strict bool) (*Validator, error) {
	return dictionary.Load(r, strict)
}

// LoadDictionaryFile is the path-based counterpart of LoadDictionary.
func LoadDictionaryFile(path string, strict bool) (*Validator, error) {
	return dictionary.LoadFile(path, strict)
}

// Save writes every data block of file to w, in tagOrderHint order (or,
// with no hint, hoisting _entry/_audit_conform to the top of each
// block).
func Save(w io.Writer, file *File, tagOrderHint []string) error {
	return serialize.Save(w, file, tagOrderHint)
}

// SaveFile creates (or truncates) path and writes file into it.
func SaveFile(path string, file *File, tagOrderHint []string) error {
	return serialize.SaveFile(path, file, tagOrderHint)
}
