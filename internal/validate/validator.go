package validate

import (
	"fmt"
	"strings"

	"cif/internal/cerr"
	"cif/internal/store"
)

// Validator is the top-level, dictionary-built validation model: types,
// items, categories, link groups, and aliases, assembled by
// internal/dictionary and consumed through store.FileValidator.
type Validator struct {
	name    string
	version string
	strict  bool

	types      map[string]*TypeValidator
	items      map[string]*ItemValidator // key: lower("_category.item")
	categories map[string]*CategoryValidator
	links      []*LinkValidator
	aliases    map[string]string // lower(alias tag) -> lower(canonical tag)
}

// NewValidator creates an empty validator. strict controls whether an
// unknown tag is fatal (true) or a collected warning (false); a value
// that fails its item's type or enum check is an error in both modes.
func NewValidator(name, version string, strict bool) *Validator {
	return &Validator{
		name:       name,
		version:    version,
		strict:     strict,
		types:      make(map[string]*TypeValidator),
		items:      make(map[string]*ItemValidator),
		categories: make(map[string]*CategoryValidator),
		aliases:    make(map[string]string),
	}
}

func (v *Validator) Name() string    { return v.name }
func (v *Validator) Version() string { return v.version }
func (v *Validator) Strict() bool    { return v.strict }

// AddType installs a primitive type validator keyed by its dictionary code.
func (v *Validator) AddType(code string, primitive Primitive, pattern string) (*TypeValidator, error) {
	t, err := NewTypeValidator(code, primitive, pattern)
	if err != nil {
		return nil, err
	}
	v.types[code] = t
	return t, nil
}

// TypeByCode looks up a previously installed type validator.
func (v *Validator) TypeByCode(code string) (*TypeValidator, bool) {
	t, ok := v.types[code]
	return t, ok
}

// AddCategory installs (or returns the existing) category validator for
// name with the given primary-key item list.
func (v *Validator) AddCategory(name string, keys []string) *CategoryValidator {
	name = bareCategory(name)
	if cv, ok := v.categories[asciiLower(name)]; ok {
		return cv
	}
	cv := NewCategoryValidator(name, keys)
	v.categories[asciiLower(name)] = cv
	return cv
}

// AddItem installs (or returns the existing) item validator for
// (category, item), registering it with that category's CategoryValidator
// if one has been added.
func (v *Validator) AddItem(category, item string, mandatory bool) *ItemValidator {
	category = bareCategory(category)
	key := asciiLower("_" + category + "." + item)
	if iv, ok := v.items[key]; ok {
		return iv
	}
	iv := NewItemValidator(category, item, mandatory)
	v.items[key] = iv
	if cv, ok := v.categories[asciiLower(category)]; ok {
		cv.AddItem(iv)
	}
	return iv
}

// SetItemType resolves typeCode against the installed types and attaches
// it to the (category, item) validator, creating the item if it has not
// been registered yet.
func (v *Validator) SetItemType(category, item, typeCode string) error {
	t, ok := v.types[typeCode]
	if !ok {
		return &cerr.DictionaryError{Message: fmt.Sprintf("unknown type code %q for %s.%s", typeCode, category, item)}
	}
	iv := v.AddItem(category, item, false)
	iv.SetType(t)
	return nil
}

// SetItemEnum installs the enumeration for (category, item).
func (v *Validator) SetItemEnum(category, item string, values []string) {
	v.AddItem(category, item, false).SetEnum(values)
}

// AddAlias registers aliasTag as an additional synonym for canonicalTag;
// ColumnMeta resolves through this mapping.
func (v *Validator) AddAlias(aliasTag, canonicalTag string) {
	v.aliases[asciiLower(aliasTag)] = asciiLower(canonicalTag)
}

// AddLink installs a link group and propagates the parent's item type to
// any child item in the group that does not already have one.
func (v *Validator) AddLink(groupID, parentCategory, childCategory string, parentKeys, childKeys []string) error {
	parentCategory = bareCategory(parentCategory)
	childCategory = bareCategory(childCategory)
	link, err := NewLinkValidator(groupID, parentCategory, childCategory, parentKeys, childKeys)
	if err != nil {
		return err
	}
	v.links = append(v.links, link)

	for i, pk := range link.ParentKeys {
		ck := link.ChildKeys[i]
		parentItem, ok := v.items[asciiLower("_"+parentCategory+"."+pk)]
		if !ok || parentItem.Type == nil {
			continue
		}
		childItem := v.AddItem(childCategory, ck, false)
		if childItem.Type == nil {
			childItem.SetType(parentItem.Type)
		}
	}
	return nil
}

// KnownCategory reports whether name has been declared. A leading
// underscore (the form store.Category.Name always carries) is accepted
// interchangeably with the bare dictionary form.
func (v *Validator) KnownCategory(name string) bool {
	_, ok := v.categories[asciiLower(bareCategory(name))]
	return ok
}

func (v *Validator) resolveTag(category, item string) (string, bool) {
	tag := asciiLower("_" + bareCategory(category) + "." + item)
	if canon, ok := v.aliases[tag]; ok {
		return canon, true
	}
	if _, ok := v.items[tag]; ok {
		return tag, true
	}
	return tag, false
}

// ColumnMeta implements store.FileValidator, resolving tag aliases.
// category arrives in store's "_name" form; resolveTag normalizes it.
func (v *Validator) ColumnMeta(category, item string) (bool, store.ColumnValidator, bool) {
	tag, ok := v.resolveTag(category, item)
	if !ok {
		return false, nil, false
	}
	iv, ok := v.items[tag]
	if !ok {
		return false, nil, false
	}
	return iv.Mandatory, iv, true
}

// KeyNormalizerFor implements store.FileValidator.
func (v *Validator) KeyNormalizerFor(category string) (store.KeyNormalizer, bool) {
	cv, ok := v.categories[asciiLower(bareCategory(category))]
	if !ok || len(cv.Keys()) == 0 {
		return nil, false
	}
	return cv, true
}

// LinkSpecs implements store.FileValidator. ParentCategory/ChildCategory
// are emitted in store's "_name" form since DataBlock.updateLinks looks
// categories up by store.Category.Name directly.
func (v *Validator) LinkSpecs() []store.LinkSpec {
	specs := make([]store.LinkSpec, 0, len(v.links))
	for _, l := range v.links {
		specs = append(specs, store.LinkSpec{
			GroupID:        l.GroupID,
			ParentCategory: "_" + bareCategory(l.ParentCategory),
			ChildCategory:  "_" + bareCategory(l.ChildCategory),
			ParentKeys:     l.ParentKeys,
			ChildKeys:      l.ChildKeys,
		})
	}
	return specs
}

// bareCategory strips a leading underscore so category names can be
// passed around either in the dictionary's bare form ("atom_site") or
// store's tag-derived form ("_atom_site") without the two drifting.
func bareCategory(name string) string {
	return strings.TrimPrefix(name, "_")
}
