package validate

import "cif/internal/text"

// CategoryValidator carries a category's primary-key item list and
// mandatory-item set. It implements store.KeyNormalizer directly, so a
// store.Category can use it both for uniqueness enforcement and for
// per-item key comparison.
type CategoryValidator struct {
	Name      string
	keys      []string
	Mandatory []string

	items map[string]*ItemValidator // lower(item) -> validator, for fold lookup
}

// NewCategoryValidator creates a category validator with the given
// primary-key item names, in key order.
func NewCategoryValidator(name string, keys []string) *CategoryValidator {
	return &CategoryValidator{Name: name, keys: append([]string(nil), keys...), items: make(map[string]*ItemValidator)}
}

// AddItem registers iv as this category's validator for its item, so
// Normalize can consult the item's type when folding a key value.
func (cv *CategoryValidator) AddItem(iv *ItemValidator) {
	cv.items[asciiLower(iv.Item)] = iv
}

// Keys returns the ordered primary-key item names (store.KeyNormalizer).
func (cv *CategoryValidator) Keys() []string { return cv.keys }

// Normalize folds value into a stable hash/compare key per item's
// comparison discipline: UChar items fold case, everything else only
// collapses space runs (store.KeyNormalizer).
func (cv *CategoryValidator) Normalize(item, value string) string {
	if iv, ok := cv.items[asciiLower(item)]; ok && iv.Type != nil && iv.Type.Primitive == UChar {
		return text.CollapseSpaces(asciiLower(value))
	}
	return text.CollapseSpaces(value)
}
