package parse

import (
	"strings"
	"testing"

	"cif/internal/cellstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoopSeedScenario(t *testing.T) {
	src := "data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 mies\n"
	file, err := NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)

	block, ok := file.DataBlock("TEST")
	require.True(t, ok)
	cat, ok := block.Category("_t")
	require.True(t, ok)
	require.Equal(t, 3, cat.NumRows())

	idIdx := cat.IndexOf("id")
	nIdx := cat.IndexOf("n")
	rows := cat.Rows()
	v, ok := rows[0].Get(nIdx)
	require.True(t, ok)
	assert.Equal(t, "aap", v)
	idVal, _ := rows[0].Get(idIdx)
	assert.Equal(t, "1", idVal)
}

func TestParseLoopWithInapplicableAndUnknown(t *testing.T) {
	src := "data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 mies  4 .  5 ?\n"
	file, err := NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)

	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")
	require.Equal(t, 5, cat.NumRows())

	nIdx := cat.IndexOf("n")
	rows := cat.Rows()
	v4, ok4 := rows[3].Get(nIdx)
	_, ok5 := rows[4].Get(nIdx)
	require.True(t, ok4)
	assert.Equal(t, cellstore.Inapplicable, v4)
	assert.False(t, ok5, "explicit '?' leaves the cell absent rather than storing a marker")
}

func TestParseLoopHeterogeneousCategoryIsFatal(t *testing.T) {
	src := "data_TEST\nloop_ _t.id _u.n\n1 aap\n"
	_, err := NewParser().Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParseLoopValueCountNotMultipleIsFatal(t *testing.T) {
	src := "data_TEST\nloop_ _t.id _t.n\n1 aap 2\n"
	_, err := NewParser().Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParseSingletonTagValueAccumulates(t *testing.T) {
	src := "data_TEST\n_entry.id 1ABC\n_entry.title 'Some Title'\n"
	file, err := NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)

	block, _ := file.DataBlock("TEST")
	cat, ok := block.Category("_entry")
	require.True(t, ok)
	require.Equal(t, 1, cat.NumRows())

	row := cat.Head()
	idVal, _ := row.Get(cat.IndexOf("id"))
	assert.Equal(t, "1ABC", idVal)
}

func TestParseRejectsSaveFrameOutsideDictionary(t *testing.T) {
	src := "data_TEST\nsave_frame1\n_a.b 1\nsave_\n"
	_, err := NewParser().Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParseDictionaryAllowsSaveFrame(t *testing.T) {
	src := "data_DIC\nsave_frame1\n_item.name '_a.b'\nsave_\n"
	file, frames, err := NewParser().ParseDictionary(strings.NewReader(src))
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Contains(t, frames, "frame1")
}

func TestParseGlobalFrameDiscarded(t *testing.T) {
	src := "global_\n_ignored.tag value\ndata_TEST\n_a.b 1\n"
	file, err := NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)
	_, ok := file.DataBlock("TEST")
	assert.True(t, ok)
}

func TestParseDuplicateDataBlockNameIsFatal(t *testing.T) {
	src := "data_A\n_a.b 1\ndata_A\n_a.b 2\n"
	_, err := NewParser().Parse(strings.NewReader(src))
	assert.Error(t, err)
}

func TestIndexAndParseSingleDataBlock(t *testing.T) {
	src := []byte("data_A\n_a.x 1\ndata_B\n_b.y 2\ndata_C\n_c.z 3\n")
	index, err := IndexDataBlocks(src)
	require.NoError(t, err)
	require.Contains(t, index, "B")

	block, err := ParseSingleDataBlock(src, "B", index)
	require.NoError(t, err)
	cat, ok := block.Category("_b")
	require.True(t, ok)
	v, ok := cat.Head().Get(cat.IndexOf("y"))
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestParseSingleDataBlockUnknownName(t *testing.T) {
	src := []byte("data_A\n_a.x 1\n")
	_, err := ParseSingleDataBlock(src, "NOPE", nil)
	assert.Error(t, err)
}

func TestParseNumericClassification(t *testing.T) {
	src := "data_TEST\nloop_ _t.a _t.b _t.c _t.d\n1.0 -.2e11 1.3e-10 3.000000\n"
	file, err := NewParser().Parse(strings.NewReader(src))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")
	row := cat.Head()
	for _, col := range []string{"a", "b", "c", "d"} {
		v, ok := row.Get(cat.IndexOf(col))
		require.True(t, ok)
		assert.NotEmpty(t, v)
	}
}
