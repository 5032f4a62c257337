package store

// File is a case-insensitively-unique, ordered set of DataBlocks — the
// root of the in-memory model that internal/parse populates and
// internal/serialize walks.
type File struct {
	blocks []*DataBlock
	index  map[string]int

	Validator FileValidator
}

// NewFile creates an empty file.
func NewFile() *File {
	return &File{index: make(map[string]int)}
}

// DataBlock returns the named block, if present.
func (f *File) DataBlock(name string) (*DataBlock, bool) {
	if i, ok := f.index[lower(name)]; ok {
		return f.blocks[i], true
	}
	return nil, false
}

// DataBlocks returns every block in declaration order.
func (f *File) DataBlocks() []*DataBlock { return f.blocks }

// AddDataBlock appends block to the file. It returns false without
// modifying the file if a block with the same name (case-insensitively)
// already exists — data block names must be unique within a file.
func (f *File) AddDataBlock(block *DataBlock) bool {
	if _, ok := f.index[lower(block.Name)]; ok {
		return false
	}
	f.index[lower(block.Name)] = len(f.blocks)
	f.blocks = append(f.blocks, block)
	if f.Validator != nil {
		block.SetValidator(f.Validator)
	}
	return true
}

// Emplace returns the named block, creating it at the tail if absent,
// and applying the file's current validator to newly created blocks.
func (f *File) Emplace(name string) *DataBlock {
	if b, ok := f.DataBlock(name); ok {
		return b
	}
	b := NewDataBlock(name)
	f.AddDataBlock(b)
	return b
}

// SetValidator attaches v to the file and cascades it to every existing
// block, category, and link group. Subsequent Emplace/AddDataBlock calls
// apply it automatically to new blocks.
func (f *File) SetValidator(v FileValidator) {
	f.Validator = v
	for _, b := range f.blocks {
		b.SetValidator(v)
	}
}

// Warnings aggregates every category's non-fatal diagnostics across the
// whole file, in block-then-category order.
func (f *File) Warnings() []string {
	var all []string
	for _, b := range f.blocks {
		for _, c := range b.Categories() {
			all = append(all, c.Warnings...)
		}
	}
	return all
}
