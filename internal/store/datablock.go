package store

// DataBlock is a case-insensitively-unique, ordered set of Categories.
type DataBlock struct {
	Name string

	cats  []*Category
	index map[string]int
}

// NewDataBlock creates an empty data block.
func NewDataBlock(name string) *DataBlock {
	return &DataBlock{Name: name, index: make(map[string]int)}
}

// Category returns the named category, if present.
func (b *DataBlock) Category(name string) (*Category, bool) {
	if i, ok := b.index[lower(name)]; ok {
		return b.cats[i], true
	}
	return nil, false
}

// Categories returns every category in declaration order.
func (b *DataBlock) Categories() []*Category { return b.cats }

// Emplace returns the category named name, creating it at the tail if it
// does not already exist. Re-emplacing an existing category is a no-op
// that returns the same instance — categories are not reordered by
// repeated emplacement, only by Promote.
func (b *DataBlock) Emplace(name string) *Category {
	if i, ok := b.index[lower(name)]; ok {
		return b.cats[i]
	}
	cat := NewCategory(name)
	b.index[lower(name)] = len(b.cats)
	b.cats = append(b.cats, cat)
	return cat
}

// Promote moves the named category to the front of the block, used by
// the serializer to hoist well-known categories ahead of the rest.
func (b *DataBlock) Promote(name string) {
	i, ok := b.index[lower(name)]
	if !ok || i == 0 {
		return
	}
	cat := b.cats[i]
	copy(b.cats[1:i+1], b.cats[0:i])
	b.cats[0] = cat
	for j := 0; j <= i; j++ {
		b.index[lower(b.cats[j].Name)] = j
	}
}

// updateLinks resolves fv's LinkSpecs against this block's own
// categories, populating each Category's ParentLinks/ChildLinks. Links
// whose parent or child category does not exist in this block are
// skipped — a block is not required to carry every category a
// dictionary's link groups mention.
func (b *DataBlock) updateLinks(fv FileValidator) {
	for _, cat := range b.cats {
		cat.ParentLinks = nil
		cat.ChildLinks = nil
	}
	for _, spec := range fv.LinkSpecs() {
		parent, pok := b.Category(spec.ParentCategory)
		child, cok := b.Category(spec.ChildCategory)
		if !pok || !cok {
			continue
		}
		link := &ResolvedLink{Spec: spec, Parent: parent, Child: child}
		parent.ParentLinks = append(parent.ParentLinks, link)
		child.ChildLinks = append(child.ChildLinks, link)
	}
}

// SetValidator cascades fv down to every category and re-resolves link
// groups. Called directly by tests and by File.SetValidator.
func (b *DataBlock) SetValidator(fv FileValidator) {
	for _, cat := range b.cats {
		cat.SetValidator(fv)
	}
	b.updateLinks(fv)
}
