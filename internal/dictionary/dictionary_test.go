package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDictionary declares one type, one category with a single-item
// primary key, one mandatory typed+enumerated item, an optional item
// declared under an alias, and a grouped link back to a child category — enough to exercise every
// install pass in one document.
const sampleDictionary = `
data_TEST_DIC
_dictionary.title TEST_DIC
_dictionary.version 1.0

save_uchar_type
_item_type_list.code       uchar
_item_type_list.primitive_code uchar
_item_type_list.construct  .
save_

save_entity
_category.id entity
_category_key.name '_entity.id'
save_

save_entity_poly
_category.id entity_poly
save_

save__entity.id
_item.name           '_entity.id'
_item.category_id    entity
_item.mandatory_code yes
_item_type.code       uchar
loop_
_item_enumeration.value
polymer
non-polymer
save_

save__entity.auth_id
_item.name           '_entity.auth_id'
_item.category_id    entity
_item.mandatory_code no
_item_aliases.alias_name '_entity.author_id'
save_

save__entity_poly.entity_id
_item.name           '_entity_poly.entity_id'
_item.category_id    entity_poly
_item.mandatory_code yes
save_

loop_
_pdbx_item_linked_group_list.link_group_id
_pdbx_item_linked_group_list.parent_name
_pdbx_item_linked_group_list.child_name
g1 '_entity.id' '_entity_poly.entity_id'
`

func TestBuildValidatorFromSampleDictionary(t *testing.T) {
	v, err := Load(strings.NewReader(sampleDictionary), true)
	require.NoError(t, err)

	assert.Equal(t, "TEST_DIC", v.Name())
	assert.Equal(t, "1.0", v.Version())

	assert.True(t, v.KnownCategory("entity"))
	assert.True(t, v.KnownCategory("_entity"))

	mandatory, cv, ok := v.ColumnMeta("_entity", "id")
	require.True(t, ok)
	assert.True(t, mandatory)
	require.NotNil(t, cv)
	assert.NoError(t, cv.Validate("polymer"))
	assert.Error(t, cv.Validate("gas"))

	kn, ok := v.KeyNormalizerFor("_entity")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, kn.Keys())

	childMandatory, childCV, ok := v.ColumnMeta("_entity_poly", "entity_id")
	require.True(t, ok)
	assert.True(t, childMandatory)
	require.NotNil(t, childCV)

	specs := v.LinkSpecs()
	require.Len(t, specs, 1)
	assert.Equal(t, "g1", specs[0].GroupID)
	assert.Equal(t, "_entity", specs[0].ParentCategory)
	assert.Equal(t, "_entity_poly", specs[0].ChildCategory)
	assert.Equal(t, []string{"id"}, specs[0].ParentKeys)
	assert.Equal(t, []string{"entity_id"}, specs[0].ChildKeys)
}

func TestBuildValidatorResolvesAlias(t *testing.T) {
	v, err := Load(strings.NewReader(sampleDictionary), true)
	require.NoError(t, err)

	mandatory, cv, ok := v.ColumnMeta("_entity", "author_id")
	require.True(t, ok)
	assert.False(t, mandatory)
	assert.NotNil(t, cv)
}

func TestLoadAcceptsSaveFrames(t *testing.T) {
	_, err := Load(strings.NewReader("data_X\nsave_y\n_a.b 1\nsave_\n"), false)
	assert.NoError(t, err, "dictionary.Load must accept save_ frames, unlike the plain-file parser")
}

func TestDictionaryMetaMissingYieldsEmptyStrings(t *testing.T) {
	v, err := Load(strings.NewReader("data_BARE\n_entry.id 1\n"), false)
	require.NoError(t, err)
	assert.Equal(t, "", v.Name())
	assert.Equal(t, "", v.Version())
}
