package cif

import "cif/internal/cerr"

// Typed errors (spec.md §7), aliased from internal/cerr so callers can
// errors.As against the cif package directly without importing an
// internal one.
type (
	ParseError      = cerr.ParseError
	ValidationError = cerr.ValidationError
	LinkError       = cerr.LinkError
	DictionaryError = cerr.DictionaryError
	IoError         = cerr.IoError
)

// ErrDuplicateKey is wrapped, together with a *ValidationError, by the
// error Emplace returns when the new row's primary key already exists.
// SetCell does not check key collisions.
var ErrDuplicateKey = cerr.ErrDuplicateKey
