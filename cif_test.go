package cif

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryUpdateSaveRoundTrip(t *testing.T) {
	src := "data_XYZ\nloop_ _atom_site.id _atom_site.type_symbol\n1 C  2 N  3 O\n"
	file, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	block, ok := file.DataBlock("XYZ")
	require.True(t, ok)
	cat, ok := block.Category("_atom_site")
	require.True(t, ok)

	row, err := Find1(Eq("type_symbol", StringValue("N")), cat)
	require.NoError(t, err)

	require.NoError(t, SetCell(cat, row, cat.IndexOf("type_symbol"), "F"))

	n, err := Exists(Eq("type_symbol", StringValue("N")), cat)
	require.NoError(t, err)
	assert.False(t, n)

	var b strings.Builder
	require.NoError(t, Save(&b, file, nil))
	assert.Contains(t, b.String(), "F")
}

func TestErrDuplicateKeyAccessible(t *testing.T) {
	file, err := Parse(strings.NewReader("data_T\nloop_ _t.id\n1\n"))
	require.NoError(t, err)
	v := NewValidator("t", "1", true)
	v.AddCategory("t", []string{"id"})
	file.SetValidator(v)

	block, _ := file.DataBlock("T")
	cat, _ := block.Category("_t")

	_, err = Emplace(cat, []ItemValue{{Item: "id", Value: "1"}})
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
