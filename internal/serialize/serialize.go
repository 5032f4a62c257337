// Package serialize writes an in-memory store.File back to CIF text.
// Grounded on the teacher's output.Formatter family
// (internal/output/sql.go, internal/output/human.go): small composable
// strings.Builder-writing functions rather than a template, applied here
// to CIF's own quoting and category-shape rules instead of SQL/diff
// text.
package serialize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/store"
	"cif/internal/text"
)

// blockSeparator is emitted after data_<name> and after every category,
// the lone-comment-line convention common to PDBx/mmCIF writers.
const blockSeparator = "# \n"

// inlineWidthBudget bounds how wide a single-row category's
// "_cat.item value" pair listing may run before falling back to loop_
// syntax, which tolerates long or wrapped values more gracefully.
const inlineWidthBudget = 80

// SaveFile creates (or truncates) path and serializes file into it.
func SaveFile(path string, file *store.File, tagOrderHint []string) error {
	f, err := os.Create(path)
	if err != nil {
		return &cerr.IoError{Op: "create", Err: err}
	}
	defer f.Close()
	return Save(f, file, tagOrderHint)
}

// Save writes every data block of file to w in order. tagOrderHint, if
// non-empty, is a list of fully qualified tags; categories are emitted
// in the order their first mentioning tag's category appears in the
// hint, with any category the hint omits following afterward in its
// natural block order. With no hint, the well-known entry and
// audit_conform categories are hoisted to the top of each block instead
// (audit_conform is synthesized from the block's validator name and
// version if the block does not already carry one).
func Save(w io.Writer, file *store.File, tagOrderHint []string) error {
	bw := bufio.NewWriter(w)
	for _, block := range file.DataBlocks() {
		if err := writeDataBlock(bw, block, tagOrderHint); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return &cerr.IoError{Op: "flush", Err: err}
	}
	return nil
}

func writeDataBlock(bw *bufio.Writer, block *store.DataBlock, tagOrderHint []string) error {
	fmt.Fprintf(bw, "data_%s\n%s", block.Name, blockSeparator)
	for _, cat := range orderedCategories(block, tagOrderHint) {
		if cat.NumRows() == 0 {
			continue
		}
		var err error
		if useSingleton(cat) {
			err = writeCategorySingleton(bw, cat)
		} else {
			err = writeCategoryLoop(bw, cat)
		}
		if err != nil {
			return err
		}
		bw.WriteString(blockSeparator)
	}
	return nil
}

func orderedCategories(block *store.DataBlock, tagOrderHint []string) []*store.Category {
	if len(tagOrderHint) > 0 {
		return orderByTagHint(block, tagOrderHint)
	}
	return hoistWellKnown(block)
}

func orderByTagHint(block *store.DataBlock, hint []string) []*store.Category {
	seen := make(map[string]bool)
	var ordered []*store.Category
	for _, tag := range hint {
		catName, _ := text.SplitTagName(tag)
		full := strings.ToLower("_" + catName)
		if seen[full] {
			continue
		}
		if c, ok := block.Category("_" + catName); ok {
			ordered = append(ordered, c)
			seen[full] = true
		}
	}
	for _, c := range block.Categories() {
		if key := strings.ToLower(c.Name); !seen[key] {
			ordered = append(ordered, c)
			seen[key] = true
		}
	}
	return ordered
}

// hoistWellKnown promotes _entry and _audit_conform to the front of the
// block, synthesizing _audit_conform from the block's validator if it
// is missing.
func hoistWellKnown(block *store.DataBlock) []*store.Category {
	ensureAuditConform(block, blockValidator(block))
	block.Promote("_audit_conform")
	block.Promote("_entry")
	return block.Categories()
}

func blockValidator(block *store.DataBlock) store.FileValidator {
	for _, cat := range block.Categories() {
		if v := cat.Validator(); v != nil {
			return v
		}
	}
	return nil
}

func ensureAuditConform(block *store.DataBlock, fv store.FileValidator) {
	if fv == nil {
		return
	}
	if cat, ok := block.Category("_audit_conform"); ok && cat.NumRows() > 0 {
		return
	}
	cat := block.Emplace("_audit_conform")
	nameCol, err := cat.EnsureColumn("dict_name")
	if err != nil {
		return // only an existing, validated _audit_conform can refuse the column
	}
	verCol, err := cat.EnsureColumn("dict_version")
	if err != nil {
		return
	}
	row := &cellstore.Row{}
	row.Set(nameCol, fv.Name())
	row.Set(verCol, fv.Version())
	cat.AppendRow(row)
}

// useSingleton reports whether cat's one row fits the "_cat.item value"
// pair layout within the inline width budget.
func useSingleton(cat *store.Category) bool {
	if cat.NumRows() != 1 {
		return false
	}
	row := cat.Head()
	width := 0
	for i, c := range cat.Columns() {
		enc, err := encodeCell(row, i)
		if err != nil {
			return false
		}
		width += len(cat.Name) + 1 + len(c.Name) + 1 + len(enc) + 1
		if width > inlineWidthBudget {
			return false
		}
	}
	return true
}

func writeCategorySingleton(bw *bufio.Writer, cat *store.Category) error {
	row := cat.Head()
	for i, c := range cat.Columns() {
		enc, err := encodeCell(row, i)
		if err != nil {
			return err
		}
		tag := cat.Name + "." + c.Name
		if strings.HasPrefix(enc, ";") {
			bw.WriteString(tag)
			bw.WriteString("\n")
			bw.WriteString(enc)
			bw.WriteString("\n")
			continue
		}
		bw.WriteString(tag)
		bw.WriteString(" ")
		bw.WriteString(enc)
		bw.WriteString("\n")
	}
	return nil
}

func writeCategoryLoop(bw *bufio.Writer, cat *store.Category) error {
	cols := cat.Columns()
	bw.WriteString("loop_\n")
	for _, c := range cols {
		bw.WriteString(cat.Name)
		bw.WriteString(".")
		bw.WriteString(c.Name)
		bw.WriteString("\n")
	}
	for _, row := range cat.Rows() {
		encoded := make([]string, len(cols))
		hasTextField := false
		for i := range cols {
			enc, err := encodeCell(row, i)
			if err != nil {
				return err
			}
			encoded[i] = enc
			hasTextField = hasTextField || strings.HasPrefix(enc, ";")
		}
		if hasTextField {
			for _, enc := range encoded {
				bw.WriteString(enc)
				bw.WriteString("\n")
			}
			continue
		}
		bw.WriteString(strings.Join(encoded, " "))
		bw.WriteString("\n")
	}
	return nil
}

// encodeCell renders the cell at (row, col): "?" for an absent cell,
// "." for one holding cellstore.Inapplicable, otherwise the quoted or
// unquoted text form of its value.
func encodeCell(row *cellstore.Row, col int) (string, error) {
	val, ok := row.Get(col)
	if !ok {
		return cellstore.Unknown, nil
	}
	if val == cellstore.Inapplicable {
		return ".", nil
	}
	return encodePresentText(val)
}
