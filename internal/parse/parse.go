// Package parse implements the CIF grammar driver (spec.md §4.D's three
// entry points: parse_file, parse_datablock/parse_single_datablock, and
// index_datablocks), driving internal/scan's tokenizer straight into
// internal/store's model with no intermediate AST. Grounded on the
// teacher's Parser.Parse(io.Reader) (*T, error) shape
// (internal/parser/toml/parser.go, internal/parser/mysql/parser.go).
package parse

import (
	"fmt"
	"io"
	"os"

	"cif/internal/cerr"
	"cif/internal/scan"
	"cif/internal/store"
	"cif/internal/token"
)

// Parser reads CIF byte streams into an in-memory store.File.
type Parser struct {
	// Strict rejects non-printable bytes in comments (values with them
	// are rejected either way); it is scanner strictness, independent of
	// a validator's own strict flag.
	Strict bool
}

// NewParser creates a Parser with default (non-strict) scanning.
func NewParser() *Parser { return &Parser{} }

// ParseFile opens path and parses it as a plain CIF data file.
func (p *Parser) ParseFile(path string) (*store.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &cerr.IoError{Op: "open", Err: err}
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads a plain CIF data file from r. A save_ frame anywhere in
// the input is a ParseError — save frames are a dictionary-only
// construct.
func (p *Parser) Parse(r io.Reader) (*store.File, error) {
	file, _, err := p.parse(r, false)
	return file, err
}

// ParseDictionaryFile opens path and parses it as a CIF dictionary,
// permitting save_ frames.
func (p *Parser) ParseDictionaryFile(path string) (*store.File, map[string]*store.DataBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &cerr.IoError{Op: "open", Err: err}
	}
	defer f.Close()
	return p.ParseDictionary(f)
}

// ParseDictionary reads a CIF dictionary from r, returning both the
// parsed file (top-level data blocks) and every save_ frame encountered,
// keyed by frame name, for internal/dictionary's semantic pass.
func (p *Parser) ParseDictionary(r io.Reader) (*store.File, map[string]*store.DataBlock, error) {
	return p.parse(r, true)
}

func (p *Parser) parse(r io.Reader, allowSaveFrames bool) (*store.File, map[string]*store.DataBlock, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &cerr.IoError{Op: "read", Err: err}
	}
	normalized := scan.Normalize(src)
	d, err := newDriver(normalized, p.Strict)
	if err != nil {
		return nil, nil, err
	}
	return d.parseFile(allowSaveFrames)
}

// BlockLocation is one data_ header's position within a Normalize'd byte
// buffer, as recorded by IndexDataBlocks.
type BlockLocation struct {
	Offset int
	Line   int
}

// IndexDataBlocks walks src once, recording the byte offset and line of
// the token immediately following each top-level data_<name> header, so
// a later ParseSingleDataBlock call can seek there in O(1) instead of
// re-scanning from the start. It accelerates dictionaries that bundle
// many schemas behind one stream.
func IndexDataBlocks(src []byte) (map[string]BlockLocation, error) {
	normalized := scan.Normalize(src)
	sc := scan.New(normalized, false)
	index := make(map[string]BlockLocation)
	for {
		tok, err := sc.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return index, nil
		}
		if tok.Kind == token.Data {
			index[tok.Text] = BlockLocation{Offset: sc.Offset(), Line: sc.Line()}
		}
	}
}

// ParseSingleDataBlock fast-scans src for the data block named name,
// using a precomputed index when available, and parses only that block
// (stopping at the next top-level data_/global_ header or EOF) without
// building any other block in the stream. Pass a nil index to have it
// computed internally.
func ParseSingleDataBlock(src []byte, name string, index map[string]BlockLocation) (*store.DataBlock, error) {
	normalized := scan.Normalize(src)
	if index == nil {
		var err error
		index, err = IndexDataBlocks(src)
		if err != nil {
			return nil, err
		}
	}
	loc, ok := index[name]
	if !ok {
		return nil, &cerr.ParseError{Message: fmt.Sprintf("data block %q not found", name)}
	}
	d, err := newDriverAt(normalized, loc.Offset, loc.Line, false)
	if err != nil {
		return nil, err
	}
	block := store.NewDataBlock(name)
	if err := d.parseDataBlock(block, make(map[string]*store.DataBlock), false); err != nil {
		return nil, err
	}
	return block, nil
}
