package store

import (
	"testing"

	"cif/internal/cellstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndexUnknownReturnsLen(t *testing.T) {
	cat := NewCategory("_atom_site")
	cat.EnsureColumn("id")
	cat.EnsureColumn("label")
	assert.Equal(t, 2, cat.IndexOf("nope"))
	assert.Equal(t, 0, cat.IndexOf("id"))
	assert.Equal(t, 1, cat.IndexOf("Label"))
}

func TestEnsureColumnIdempotent(t *testing.T) {
	cat := NewCategory("_atom_site")
	i1, err := cat.EnsureColumn("id")
	require.NoError(t, err)
	i2, err := cat.EnsureColumn("ID")
	require.NoError(t, err)
	assert.Equal(t, i1, i2)
	assert.Equal(t, 1, cat.Len())
}

func TestDataBlockEmplaceIsIdempotent(t *testing.T) {
	b := NewDataBlock("1ABC")
	c1 := b.Emplace("_atom_site")
	c2 := b.Emplace("_Atom_Site")
	assert.Same(t, c1, c2)
	assert.Len(t, b.Categories(), 1)
}

func TestDataBlockPromote(t *testing.T) {
	b := NewDataBlock("1ABC")
	b.Emplace("_atom_site")
	b.Emplace("_entry")
	b.Emplace("_cell")
	b.Promote("_entry")

	names := make([]string, 0, 3)
	for _, c := range b.Categories() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"_entry", "_atom_site", "_cell"}, names)
}

func TestFileAddDataBlockRejectsDuplicateName(t *testing.T) {
	f := NewFile()
	assert.True(t, f.AddDataBlock(NewDataBlock("1abc")))
	assert.False(t, f.AddDataBlock(NewDataBlock("1ABC")))
	assert.Len(t, f.DataBlocks(), 1)
}

type stubColumnValidator struct{ err error }

func (s stubColumnValidator) Validate(string) error { return s.err }
func (s stubColumnValidator) Compare(a, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

type stubKeyNormalizer struct{ keys []string }

func (s stubKeyNormalizer) Keys() []string                   { return s.keys }
func (s stubKeyNormalizer) Normalize(_, value string) string { return value }

type stubValidator struct {
	strict bool
	known  map[string]bool
	keys   map[string][]string
	links  []LinkSpec
}

func (v stubValidator) Name() string                   { return "stub" }
func (v stubValidator) Version() string                { return "1" }
func (v stubValidator) Strict() bool                   { return v.strict }
func (v stubValidator) KnownCategory(name string) bool { return v.known[name] }
func (v stubValidator) ColumnMeta(category, item string) (bool, ColumnValidator, bool) {
	if !v.known[category+"."+item] {
		return false, nil, false
	}
	return false, nil, true
}
func (v stubValidator) KeyNormalizerFor(category string) (KeyNormalizer, bool) {
	keys, ok := v.keys[category]
	if !ok {
		return nil, false
	}
	return stubKeyNormalizer{keys: keys}, true
}
func (v stubValidator) LinkSpecs() []LinkSpec { return v.links }

func TestEnsureColumnStrictRejectsUnknownTag(t *testing.T) {
	cat := NewCategory("_atom_site")
	cat.SetValidator(stubValidator{strict: true, known: map[string]bool{"_atom_site": true}})
	_, err := cat.EnsureColumn("bogus")
	assert.Error(t, err)
}

func TestEnsureColumnNonStrictWarns(t *testing.T) {
	cat := NewCategory("_atom_site")
	cat.SetValidator(stubValidator{strict: false, known: map[string]bool{"_atom_site": true}})
	idx, err := cat.EnsureColumn("bogus")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Len(t, cat.Warnings, 1)
}

func TestPrimaryKeyLookup(t *testing.T) {
	cat := NewCategory("_atom_site")
	idIdx, _ := cat.EnsureColumn("id")
	cat.SetValidator(stubValidator{
		known: map[string]bool{"_atom_site": true},
		keys:  map[string][]string{"_atom_site": {"id"}},
	})

	r1 := rowWith(idIdx, "1")
	r2 := rowWith(idIdx, "2")
	cat.AppendRow(r1)
	cat.AppendRow(r2)

	found, ok := cat.FindByKeyValues([]string{"1"})
	require.True(t, ok)
	assert.Same(t, r1, found)

	dup := rowWith(idIdx, "2")
	existing, collide := cat.FindByRow(dup)
	require.True(t, collide)
	assert.Same(t, r2, existing)
}

func TestDataBlockUpdateLinksResolvesSiblingCategories(t *testing.T) {
	b := NewDataBlock("1abc")
	b.Emplace("_entity")
	b.Emplace("_entity_poly")

	v := stubValidator{
		known: map[string]bool{"_entity": true, "_entity_poly": true},
		links: []LinkSpec{{
			GroupID:        "entity",
			ParentCategory: "_entity",
			ChildCategory:  "_entity_poly",
			ParentKeys:     []string{"id"},
			ChildKeys:      []string{"entity_id"},
		}},
	}
	b.SetValidator(v)

	parent, _ := b.Category("_entity")
	child, _ := b.Category("_entity_poly")
	require.Len(t, parent.ParentLinks, 1)
	require.Len(t, child.ChildLinks, 1)
	assert.Same(t, child, parent.ParentLinks[0].Child)
	assert.Same(t, parent, child.ChildLinks[0].Parent)
}

func rowWith(col int, value string) *cellstore.Row {
	r := &cellstore.Row{}
	r.Set(col, value)
	return r
}
