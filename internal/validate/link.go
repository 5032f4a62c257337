package validate

import "cif/internal/cerr"

// LinkValidator is one parent/child join declaration: an ordered list of
// parent item names paired with an equal-length list of child item
// names, grouped under a link_group_id so a dictionary can declare
// several independent link groups between the same two categories.
type LinkValidator struct {
	GroupID        string
	ParentCategory string
	ChildCategory  string
	ParentKeys     []string
	ChildKeys      []string
}

// NewLinkValidator validates that parentKeys and childKeys have equal
// length before constructing the link: a link group is a strict 1:1
// correspondence between parent and child key items.
func NewLinkValidator(groupID, parentCategory, childCategory string, parentKeys, childKeys []string) (*LinkValidator, error) {
	if len(parentKeys) != len(childKeys) {
		return nil, &cerr.LinkError{
			ParentCategory: parentCategory,
			ChildCategory:  childCategory,
			Message:        "parent and child key lists have different lengths",
		}
	}
	return &LinkValidator{
		GroupID:        groupID,
		ParentCategory: parentCategory,
		ChildCategory:  childCategory,
		ParentKeys:     append([]string(nil), parentKeys...),
		ChildKeys:      append([]string(nil), childKeys...),
	}, nil
}
