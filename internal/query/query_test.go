package query

import (
	"strings"
	"testing"

	"cif/internal/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionSeedScenario(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 mies  4 .  5 ?\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	it, err := Find(IsEmpty("n"), cat)
	require.NoError(t, err)
	assert.Equal(t, 2, it.Count(), "row 4 ('.') and row 5 (absent '?') both count as empty")
}

func TestKeyEqualsAndNotEquals(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 aap\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	it, err := Find(Eq("n", StringValue("aap")), cat)
	require.NoError(t, err)
	assert.Equal(t, 2, it.Count())

	it2, err := Find(NotEq("n", StringValue("aap")), cat)
	require.NoError(t, err)
	assert.Equal(t, 1, it2.Count())
}

func TestKeyMatchesRegex(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.id _t.n\n1 aap  2 noot  3 mies\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	rows, err := Project(MatchesRegex("n", "^.a"), cat, "id", "n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "aap"}, rows[0])
}

func TestAnyEqualsScansEveryColumn(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a _t.b\nx y  y x  z z\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	it, err := Find(AnyEq(StringValue("y")), cat)
	require.NoError(t, err)
	assert.Equal(t, 2, it.Count())
}

func TestAndOrComposition(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a _t.b\n1 x  2 x  1 y\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	cond := AndC(Eq("a", StringValue("1")), Eq("b", StringValue("x")))
	it, err := Find(cond, cat)
	require.NoError(t, err)
	assert.Equal(t, 1, it.Count())

	orCond := OrC(Eq("a", StringValue("2")), Eq("b", StringValue("y")))
	it2, err := Find(orCond, cat)
	require.NoError(t, err)
	assert.Equal(t, 2, it2.Count())
}

func TestAllMatchesEveryRow(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a\n1  2  3\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	it, err := Find(AllC(), cat)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Count())
}

func TestFind1ErrorsOnZeroOrManyMatches(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a\n1  1  2\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	_, err = Find1(Eq("a", StringValue("1")), cat)
	assert.Error(t, err)

	row, err := Find1(Eq("a", StringValue("2")), cat)
	require.NoError(t, err)
	require.NotNil(t, row)

	_, err = Find1(Eq("a", StringValue("9")), cat)
	assert.Error(t, err)
}

func TestExistsShortCircuits(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a\n1  2  3\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	ok, err := Exists(Eq("a", StringValue("2")), cat)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(Eq("a", StringValue("9")), cat)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyCompareWithoutTypeIsLexical(t *testing.T) {
	file, err := parse.NewParser().Parse(strings.NewReader(
		"data_TEST\nloop_ _t.a\n2  10  3\n"))
	require.NoError(t, err)
	block, _ := file.DataBlock("TEST")
	cat, _ := block.Category("_t")

	// No validator attached: lexical compare treats "10" < "2".
	it, err := Find(Cmp("a", Greater, StringValue("5")), cat)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Count(), "lexical compare: \"10\" and \"2\"/\"3\" all sort below \"5\"")
}
