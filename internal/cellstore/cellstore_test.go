package cellstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellSmallAndLargeText(t *testing.T) {
	r := &Row{}
	r.Set(0, "aap")
	r.Set(1, strings.Repeat("x", 40))

	v0, ok := r.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "aap", v0)

	v1, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, strings.Repeat("x", 40), v1)
}

func TestCellMissingIsNotEmpty(t *testing.T) {
	r := &Row{}
	r.Set(0, "")
	_, hasEmpty := r.Get(0)
	assert.True(t, hasEmpty)

	_, hasMissing := r.Get(5)
	assert.False(t, hasMissing)
}

func TestRowOverwrite(t *testing.T) {
	r := &Row{}
	r.Set(0, "short")
	r.Set(0, strings.Repeat("y", 50))
	v, _ := r.Get(0)
	assert.Equal(t, strings.Repeat("y", 50), v)
	r.Set(0, "short-again")
	v, _ = r.Get(0)
	assert.Equal(t, "short-again", v)
}

func TestRowDelete(t *testing.T) {
	r := &Row{}
	r.Set(0, "a")
	r.Set(1, "b")
	r.Delete(0)
	_, ok := r.Get(0)
	assert.False(t, ok)
	v, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestRowClone(t *testing.T) {
	r := &Row{}
	r.Set(0, "a")
	r.Set(1, strings.Repeat("z", 20))
	clone := r.Clone()

	clone.Set(0, "changed")
	orig, _ := r.Get(0)
	assert.Equal(t, "a", orig)
	changed, _ := clone.Get(0)
	assert.Equal(t, "changed", changed)

	v1, _ := clone.Get(1)
	assert.Equal(t, strings.Repeat("z", 20), v1)
}

func TestListAppendInsertRemove(t *testing.T) {
	l := &List{}
	r1, r2, r3 := &Row{}, &Row{}, &Row{}
	l.Append(r1)
	l.Append(r3)
	l.InsertAfter(r1, r2)

	assert.Equal(t, []*Row{r1, r2, r3}, l.All())
	assert.Equal(t, 3, l.Len())

	l.Remove(r2)
	assert.Equal(t, []*Row{r1, r3}, l.All())
	assert.Equal(t, 2, l.Len())

	l.Remove(r1)
	assert.Equal(t, []*Row{r3}, l.All())
	assert.Equal(t, r3, l.Head())
}
