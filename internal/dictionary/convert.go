package dictionary

import (
	"fmt"

	"cif/internal/cellstore"
	"cif/internal/cerr"
	"cif/internal/store"
	"cif/internal/text"
	"cif/internal/validate"
)

// installTypes reads _item_type_list rows (code, primitive_code,
// construct) and installs one TypeValidator per declared code. A
// dictionary conventionally gathers every type in one save frame, but
// nothing here assumes that: any frame or block may contribute rows.
func installTypes(v *validate.Validator, b *store.DataBlock) error {
	cat, ok := b.Category("_item_type_list")
	if !ok {
		return nil
	}
	for _, row := range cat.Rows() {
		code, ok := cellValue(cat, row, "code")
		if !ok {
			continue
		}
		primRaw, _ := cellValue(cat, row, "primitive_code")
		pattern, _ := cellValue(cat, row, "construct")
		if pattern == cellstore.Inapplicable {
			pattern = ""
		}
		if _, err := v.AddType(code, parsePrimitive(primRaw), pattern); err != nil {
			return &cerr.DictionaryError{Message: fmt.Sprintf("type %q: %v", code, err)}
		}
	}
	return nil
}

// installCategories reads _category.id rows and pairs each with its
// _category_key.name rows (composite keys span several rows sharing the
// same category) found in the same frame.
func installCategories(v *validate.Validator, b *store.DataBlock) {
	catDecl, ok := b.Category("_category")
	if !ok {
		return
	}
	for _, row := range catDecl.Rows() {
		id, ok := cellValue(catDecl, row, "id")
		if !ok {
			continue
		}
		name := storeCategoryName(id)
		v.AddCategory(name, categoryKeys(b, name))
	}
}

// categoryKeys collects the ordered primary-key item names for
// categoryName from a frame's _category_key.name rows, in declaration
// order for composite keys.
func categoryKeys(b *store.DataBlock, categoryName string) []string {
	keyCat, ok := b.Category("_category_key")
	if !ok {
		return nil
	}
	var keys []string
	for _, row := range keyCat.Rows() {
		tag, ok := cellValue(keyCat, row, "name")
		if !ok {
			continue
		}
		category, item, err := categoryAndItem(tag)
		if err != nil || !text.IEquals(category, categoryName) {
			continue
		}
		keys = append(keys, item)
	}
	return keys
}

// installItems reads _item.name rows (one item definition per frame by
// convention) and attaches the type and enumeration a dictionary
// declares alongside it in the same frame, under _item_type.code and
// _item_enumeration.value.
func installItems(v *validate.Validator, b *store.DataBlock) error {
	itemCat, ok := b.Category("_item")
	if !ok {
		return nil
	}
	for _, row := range itemCat.Rows() {
		tag, ok := cellValue(itemCat, row, "name")
		if !ok {
			continue
		}
		category, item, err := categoryAndItem(tag)
		if err != nil {
			return err
		}
		mandRaw, _ := cellValue(itemCat, row, "mandatory_code")
		v.AddItem(category, item, isMandatory(mandRaw))

		if typeCode, ok := itemTypeCode(b); ok {
			if err := v.SetItemType(category, item, typeCode); err != nil {
				return err
			}
		}
		if values := itemEnumeration(b); len(values) > 0 {
			v.SetItemEnum(category, item, values)
		}
	}
	return nil
}

func itemTypeCode(b *store.DataBlock) (string, bool) {
	typeCat, ok := b.Category("_item_type")
	if !ok {
		return "", false
	}
	row := typeCat.Head()
	if row == nil {
		return "", false
	}
	return cellValue(typeCat, row, "code")
}

func itemEnumeration(b *store.DataBlock) []string {
	enumCat, ok := b.Category("_item_enumeration")
	if !ok {
		return nil
	}
	var values []string
	for _, row := range enumCat.Rows() {
		if v, ok := cellValue(enumCat, row, "value"); ok {
			values = append(values, v)
		}
	}
	return values
}

// installAliases attaches every _item_aliases.alias_name in a frame to
// that frame's own _item.name as the canonical tag.
func installAliases(v *validate.Validator, b *store.DataBlock) {
	aliasCat, ok := b.Category("_item_aliases")
	if !ok {
		return
	}
	itemCat, ok := b.Category("_item")
	if !ok {
		return
	}
	head := itemCat.Head()
	if head == nil {
		return
	}
	canonical, ok := cellValue(itemCat, head, "name")
	if !ok {
		return
	}
	for _, row := range aliasCat.Rows() {
		if alias, ok := cellValue(aliasCat, row, "alias_name"); ok {
			v.AddAlias(alias, canonical)
		}
	}
}

// installLinks reads both link-declaration conventions a dictionary may
// use: the plain pairwise _item_linked category (one parent/child tag
// pair per row, each its own single-item link group) and the grouped
// _pdbx_item_linked_group_list category, which shares a link_group_id
// across several rows to declare a multi-item composite join.
func installLinks(v *validate.Validator, b *store.DataBlock) error {
	if err := installPairwiseLinks(v, b); err != nil {
		return err
	}
	return installGroupedLinks(v, b)
}

func installPairwiseLinks(v *validate.Validator, b *store.DataBlock) error {
	linked, ok := b.Category("_item_linked")
	if !ok {
		return nil
	}
	for i, row := range linked.Rows() {
		parentTag, ok1 := cellValue(linked, row, "parent_name")
		childTag, ok2 := cellValue(linked, row, "child_name")
		if !ok1 || !ok2 {
			continue
		}
		groupID := fmt.Sprintf("item_linked_%d", i)
		if err := addLinkFromTags(v, groupID, []string{parentTag}, []string{childTag}); err != nil {
			return err
		}
	}
	return nil
}

type linkGroup struct {
	parents, children []string
}

func installGroupedLinks(v *validate.Validator, b *store.DataBlock) error {
	grouped, ok := b.Category("_pdbx_item_linked_group_list")
	if !ok {
		return nil
	}
	groups := make(map[string]*linkGroup)
	var order []string
	for _, row := range grouped.Rows() {
		gid, ok := cellValue(grouped, row, "link_group_id")
		if !ok {
			continue
		}
		parentTag, ok1 := cellValue(grouped, row, "parent_name")
		childTag, ok2 := cellValue(grouped, row, "child_name")
		if !ok1 || !ok2 {
			continue
		}
		g, exists := groups[gid]
		if !exists {
			g = &linkGroup{}
			groups[gid] = g
			order = append(order, gid)
		}
		g.parents = append(g.parents, parentTag)
		g.children = append(g.children, childTag)
	}
	for _, gid := range order {
		g := groups[gid]
		if err := addLinkFromTags(v, gid, g.parents, g.children); err != nil {
			return err
		}
	}
	return nil
}

func addLinkFromTags(v *validate.Validator, groupID string, parentTags, childTags []string) error {
	parentCategory, parentKeys, err := splitTagGroup(parentTags)
	if err != nil {
		return err
	}
	childCategory, childKeys, err := splitTagGroup(childTags)
	if err != nil {
		return err
	}
	return v.AddLink(groupID, parentCategory, childCategory, parentKeys, childKeys)
}

// splitTagGroup splits a list of tags that must all share one category
// (a link group's parent side or child side) into that category and the
// ordered item names.
func splitTagGroup(tags []string) (string, []string, error) {
	var category string
	items := make([]string, len(tags))
	for i, tag := range tags {
		cat, item, err := categoryAndItem(tag)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			category = cat
		} else if !text.IEquals(cat, category) {
			return "", nil, &cerr.DictionaryError{Message: "link group spans multiple categories: " + category + " vs " + cat}
		}
		items[i] = item
	}
	return category, items, nil
}
