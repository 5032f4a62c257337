// Package dictionary converts a parsed CIF dictionary (DDL1/DDL2-style:
// one save_ frame per item or category definition) into a
// *validate.Validator. It mirrors the teacher's raw-struct-then-convert
// two-stage parser shape (internal/parser/toml/parser.go,
// parser_table.go): internal/parse already did the "raw struct" half by
// turning the dictionary's text into a store.File plus a map of save
// frames; this package is the "convert" half, walking the well-known
// dictionary categories inside those frames and building the validator
// they describe.
package dictionary

import (
	"io"
	"strings"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/parse"
	"cif/internal/store"
	"cif/internal/text"
	"cif/internal/validate"
)

// Load parses r as a CIF dictionary and builds the validator it declares.
func Load(r io.Reader, strict bool) (*validate.Validator, error) {
	file, frames, err := parse.NewParser().ParseDictionary(r)
	if err != nil {
		return nil, err
	}
	return build(file, frames, strict)
}

// LoadFile is the path-based counterpart of Load.
func LoadFile(path string, strict bool) (*validate.Validator, error) {
	file, frames, err := parse.NewParser().ParseDictionaryFile(path)
	if err != nil {
		return nil, err
	}
	return build(file, frames, strict)
}

// build assembles a Validator in five passes over every data block and
// save frame the dictionary declares, matching the five kinds of
// declaration dictionaries scatter across frames: types, categories,
// items (+ enumerations), aliases, and link groups. Types and categories
// must exist before items reference them; links run last so parent item
// types are already attached and can propagate to children.
func build(file *store.File, frames map[string]*store.DataBlock, strict bool) (*validate.Validator, error) {
	name, version := dictionaryMeta(file)
	v := validate.NewValidator(name, version, strict)

	blocks := allBlocks(file, frames)

	for _, b := range blocks {
		if err := installTypes(v, b); err != nil {
			return nil, err
		}
	}
	for _, b := range blocks {
		installCategories(v, b)
	}
	for _, b := range blocks {
		if err := installItems(v, b); err != nil {
			return nil, err
		}
	}
	for _, b := range blocks {
		installAliases(v, b)
	}
	for _, b := range blocks {
		if err := installLinks(v, b); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func allBlocks(file *store.File, frames map[string]*store.DataBlock) []*store.DataBlock {
	blocks := append([]*store.DataBlock(nil), file.DataBlocks()...)
	for _, f := range frames {
		blocks = append(blocks, f)
	}
	return blocks
}

// dictionaryMeta reads _dictionary.title/_dictionary.version from the
// dictionary's top-level data block, the conventional place DDL2
// dictionaries (mmcif_pdbx.dic and friends) declare their own identity.
func dictionaryMeta(file *store.File) (name, version string) {
	for _, b := range file.DataBlocks() {
		cat, ok := b.Category("_dictionary")
		if !ok {
			continue
		}
		row := cat.Head()
		if row == nil {
			continue
		}
		if v, ok := row.Get(cat.IndexOf("title")); ok {
			name = v
		}
		if v, ok := row.Get(cat.IndexOf("version")); ok {
			version = v
		}
		return name, version
	}
	return "", ""
}

// cellValue is a small lookup helper: the column may never have been
// referenced in this frame at all (IndexOf returns cat.Len(), an
// out-of-range index Get safely reports as "not present").
func cellValue(cat *store.Category, row *cellstore.Row, item string) (string, bool) {
	return row.Get(cat.IndexOf(item))
}

func isMandatory(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "yes" || code == "y"
}

func parsePrimitive(code string) validate.Primitive {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "numb":
		return validate.Numb
	case "uchar":
		return validate.UChar
	case "char":
		return validate.Char
	default:
		return validate.Other
	}
}

// storeCategoryName normalizes a category identifier to the bare
// dictionary form (no leading underscore) that validate.Validator's
// construction API expects, regardless of whether it came from a bare
// _category.id value or a tag split with text.SplitTagName.
func storeCategoryName(raw string) string {
	return strings.TrimPrefix(raw, "_")
}

func categoryAndItem(tag string) (category, item string, err error) {
	category, item = text.SplitTagName(tag)
	if category == "" || item == "" {
		return "", "", &cerr.DictionaryError{Message: "malformed item tag " + tag}
	}
	return category, item, nil
}
