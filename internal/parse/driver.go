package parse

import (
	"fmt"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/scan"
	"cif/internal/store"
	"cif/internal/text"
	"cif/internal/token"
)

// driver is the pull-style grammar driver: it holds one token of
// lookahead over a Scanner and exposes the three top-level productions
// (file, data block, save frame) as recursive-descent methods that call
// straight into internal/store rather than building an intermediate AST.
type driver struct {
	sc        *scan.Scanner
	cur       token.Token
	singleton map[*store.Category]*cellstore.Row
}

func newDriver(normalized []byte, strict bool) (*driver, error) {
	d := &driver{sc: scan.New(normalized, strict)}
	if err := d.advance(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDriverAt(normalized []byte, pos, line int, strict bool) (*driver, error) {
	d := &driver{sc: scan.NewAt(normalized, pos, line, strict)}
	if err := d.advance(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *driver) advance() error {
	tok, err := d.sc.Next()
	if err != nil {
		return err
	}
	d.cur = tok
	return nil
}

// parseFile implements parse_file: repeated global_ frames (discarded)
// and data_ blocks until EOF.
func (d *driver) parseFile(allowSaveFrames bool) (*store.File, map[string]*store.DataBlock, error) {
	file := store.NewFile()
	frames := make(map[string]*store.DataBlock)
	for d.cur.Kind != token.EOF {
		switch d.cur.Kind {
		case token.Global:
			if err := d.parseGlobalFrame(); err != nil {
				return nil, nil, err
			}
		case token.Data:
			name := d.cur.Text
			if err := d.advance(); err != nil {
				return nil, nil, err
			}
			block := store.NewDataBlock(name)
			if err := d.parseDataBlock(block, frames, allowSaveFrames); err != nil {
				return nil, nil, err
			}
			if !file.AddDataBlock(block) {
				return nil, nil, &cerr.ParseError{Line: d.cur.Line, Message: fmt.Sprintf("duplicate data block name %q", name)}
			}
		default:
			return nil, nil, &cerr.ParseError{Line: d.cur.Line, Message: "expected data_ or global_ at top level"}
		}
	}
	return file, frames, nil
}

func (d *driver) parseGlobalFrame() error {
	if err := d.advance(); err != nil { // consume GLOBAL_
		return err
	}
	for d.cur.Kind == token.Tag {
		if err := d.advance(); err != nil { // consume tag, land on value
			return err
		}
		if !d.cur.Kind.IsValue() {
			return &cerr.ParseError{Line: d.cur.Line, Message: "expected value after tag in global_ frame"}
		}
		if err := d.advance(); err != nil { // consume value
			return err
		}
	}
	return nil
}

// parseDataBlock implements parse_datablock, dispatching on the
// top-level production each iteration until the next data_/global_
// header or EOF. cur must already be positioned on the first token
// after the data_<name> header.
func (d *driver) parseDataBlock(block *store.DataBlock, frames map[string]*store.DataBlock, allowSaveFrames bool) error {
	d.singleton = make(map[*store.Category]*cellstore.Row)
	for {
		switch d.cur.Kind {
		case token.Loop:
			if err := d.parseLoop(block); err != nil {
				return err
			}
		case token.Tag:
			if err := d.parseSingleton(block); err != nil {
				return err
			}
		case token.Save:
			if !allowSaveFrames {
				return &cerr.ParseError{Line: d.cur.Line, Message: "save_ frame outside a dictionary"}
			}
			if err := d.parseSaveFrame(frames); err != nil {
				return err
			}
		case token.Data, token.Global, token.EOF:
			return nil
		default:
			return &cerr.ParseError{Line: d.cur.Line, Message: "unexpected token in data block"}
		}
	}
}

// parseSaveFrame consumes a "save_<name> ... save_" nested scope, valid
// only inside a dictionary. cur must be the opening Save token.
func (d *driver) parseSaveFrame(frames map[string]*store.DataBlock) error {
	name := d.cur.Text
	if name == "" {
		return &cerr.ParseError{Line: d.cur.Line, Message: "save_ frame with empty name"}
	}
	if err := d.advance(); err != nil {
		return err
	}
	frame := store.NewDataBlock(name)
	savedSingleton := d.singleton
	d.singleton = make(map[*store.Category]*cellstore.Row)
	defer func() { d.singleton = savedSingleton }()

	for {
		switch d.cur.Kind {
		case token.Loop:
			if err := d.parseLoop(frame); err != nil {
				return err
			}
		case token.Tag:
			if err := d.parseSingleton(frame); err != nil {
				return err
			}
		case token.Save:
			if d.cur.Text != "" {
				return &cerr.ParseError{Line: d.cur.Line, Message: "nested save_ frames are not supported"}
			}
			if err := d.advance(); err != nil { // consume closing save_
				return err
			}
			frames[name] = frame
			return nil
		case token.EOF:
			return &cerr.ParseError{Line: d.cur.Line, Message: "unterminated save_ frame " + name}
		default:
			return &cerr.ParseError{Line: d.cur.Line, Message: "unexpected token in save_ frame " + name}
		}
	}
}

// parseLoop implements the loop_ production: a run of tags sharing one
// category, followed by a flat run of values whose count must be a
// positive multiple of the tag count.
func (d *driver) parseLoop(block *store.DataBlock) error {
	line := d.cur.Line
	if err := d.advance(); err != nil { // consume LOOP_
		return err
	}
	var tags []string
	for d.cur.Kind == token.Tag {
		tags = append(tags, d.cur.Text)
		if err := d.advance(); err != nil {
			return err
		}
	}
	if len(tags) == 0 {
		return &cerr.ParseError{Line: line, Message: "loop_ with no tags"}
	}
	categoryTag, items, err := splitTagsSameCategory(tags)
	if err != nil {
		return &cerr.ParseError{Line: line, Message: err.Error()}
	}

	cat := block.Emplace(categoryTag)
	colIdx := make([]int, len(items))
	for i, item := range items {
		idx, err := cat.EnsureColumn(item)
		if err != nil {
			return err
		}
		colIdx[i] = idx
	}

	count := 0
	var row *cellstore.Row
	for d.cur.Kind.IsValue() {
		if row == nil {
			row = &cellstore.Row{}
		}
		slot := count % len(tags)
		if d.cur.Kind != token.Unknown {
			val, err := cellText(d.cur)
			if err != nil {
				return err
			}
			if err := validateCell(cat, colIdx[slot], val); err != nil {
				return err
			}
			row.Set(colIdx[slot], val)
		}
		count++
		if count%len(tags) == 0 {
			cat.AppendRow(row)
			row = nil
		}
		if err := d.advance(); err != nil {
			return err
		}
	}
	if count == 0 {
		return &cerr.ParseError{Line: line, Message: "loop_ with no values"}
	}
	if count%len(tags) != 0 {
		return &cerr.ParseError{Line: line, Message: "loop_ value count is not a multiple of tag count"}
	}
	return nil
}

// parseSingleton implements the tag-value production: a lone tag bound
// to one value, appended to that category's running singleton row (the
// first singleton reference to a category creates the row; later
// singleton references to the same category in this block append to it).
func (d *driver) parseSingleton(block *store.DataBlock) error {
	tag := d.cur.Text
	line := d.cur.Line
	category, item := text.SplitTagName(tag)
	if category == "" || item == "" {
		return &cerr.ParseError{Line: line, Message: "malformed tag " + tag}
	}
	if err := d.advance(); err != nil {
		return err
	}
	if !d.cur.Kind.IsValue() {
		return &cerr.ParseError{Line: d.cur.Line, Message: "expected value after tag " + tag}
	}
	isUnknown := d.cur.Kind == token.Unknown
	var val string
	if !isUnknown {
		var err error
		val, err = cellText(d.cur)
		if err != nil {
			return err
		}
	}

	cat := block.Emplace("_" + category)
	idx, err := cat.EnsureColumn(item)
	if err != nil {
		return err
	}

	row, ok := d.singleton[cat]
	if !ok {
		row = &cellstore.Row{}
		cat.AppendRow(row)
		d.singleton[cat] = row
	}
	if isUnknown {
		row.Delete(idx)
	} else {
		if err := validateCell(cat, idx, val); err != nil {
			return err
		}
		row.Set(idx, val)
	}

	return d.advance()
}

func validateCell(cat *store.Category, col int, value string) error {
	c := cat.Column(col)
	if c == nil || c.Validator == nil {
		return nil
	}
	return c.Validator.Validate(value)
}

// cellText maps a value token to the text cellstore.Row.Set stores.
// Inapplicable ('.') becomes the non-printable cellstore.Inapplicable
// sentinel, keeping it distinguishable from a genuine empty string.
// token.Unknown ('?') is handled by the caller before cellText is
// reached: it leaves the cell absent rather than storing text.
func cellText(tok token.Token) (string, error) {
	switch tok.Kind {
	case token.Inapplicable:
		return cellstore.Inapplicable, nil
	case token.Int, token.Float, token.Unquoted, token.SingleQuoted, token.DoubleQuoted, token.TextField:
		return tok.Text, nil
	default:
		return "", &cerr.ParseError{Line: tok.Line, Message: "not a value token"}
	}
}

func splitTagsSameCategory(tags []string) (string, []string, error) {
	items := make([]string, len(tags))
	var category string
	for i, tag := range tags {
		cat, item := text.SplitTagName(tag)
		if cat == "" {
			return "", nil, fmt.Errorf("tag has no category: %s", tag)
		}
		if i == 0 {
			category = cat
		} else if !text.IEquals(cat, category) {
			return "", nil, fmt.Errorf("loop_ tags span multiple categories: %s vs %s", category, cat)
		}
		items[i] = item
	}
	return "_" + category, items, nil
}
