package docarena_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/foldline/foldline/docarena"
	"github.com/foldline/foldline/style"
)

func TestArenaTextInterning(t *testing.T) {
	a := docarena.New()

	k1 := a.MustText("hello")
	k2 := a.MustText("hello")
	assert.EqualValuesf(t, k1, k2, "two Text calls with equal content should intern to the same key")

	k3 := a.MustText("world")
	assert.Truef(t, k1 != k3, "Text calls with different content should intern to different keys")
}

func TestArenaTextRejectsNewline(t *testing.T) {
	a := docarena.New()
	_, err := a.Text("hello\nworld")
	require.NotNil(t, err)
}

func TestArenaTextClassIsPartOfIdentity(t *testing.T) {
	a := docarena.New()

	plain := a.MustText("x")
	classed := a.MustTextWithClass("x", style.Keyword)
	assert.Truef(t, plain != classed, "Text and TextWithClass for equal content but different class must not share a key")

	again := a.MustTextWithClass("x", style.Keyword)
	assert.EqualValuesf(t, classed, again, "two TextWithClass calls with equal content and class should intern to the same key")
}

func TestArenaNewlineIsShared(t *testing.T) {
	a := docarena.New()
	n1 := a.Newline()
	n2 := a.Newline()
	assert.EqualValuesf(t, n1, n2, "Newline should intern to a single shared key")
}

func TestArenaConcatInterning(t *testing.T) {
	a := docarena.New()
	x := a.MustText("x")
	y := a.MustText("y")

	c1 := a.Concat(x, y)
	c2 := a.Concat(x, y)
	assert.EqualValuesf(t, c1, c2, "Concat with equal children in equal order should intern to the same key")

	c3 := a.Concat(y, x)
	assert.Truef(t, c1 != c3, "Concat is order sensitive")
}

func TestArenaNestRejectsNegative(t *testing.T) {
	a := docarena.New()
	x := a.MustText("x")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Nest(-1, ...) should panic, got none")
		}
	}()
	a.Nest(-1, x)
}

func TestArenaNestAndFlattenInterning(t *testing.T) {
	a := docarena.New()
	x := a.MustText("x")

	assert.EqualValuesf(t, a.Nest(2, x), a.Nest(2, x), "Nest with equal k and child should intern to the same key")
	assert.Truef(t, a.Nest(2, x) != a.Nest(3, x), "Nest with different k should intern to different keys")

	assert.EqualValuesf(t, a.Flatten(x), a.Flatten(x), "Flatten with equal child should intern to the same key")
}

func TestArenaChoiceInterning(t *testing.T) {
	a := docarena.New()
	x := a.MustText("x")
	y := a.MustText("y")

	assert.EqualValuesf(t, a.Choice(x, y), a.Choice(x, y), "Choice with equal branches should intern to the same key")
	assert.Truef(t, a.Choice(x, y) != a.Choice(y, x), "Choice is order sensitive")
}

func TestArenaNeverCreatesCycles(t *testing.T) {
	// By construction every constructor only accepts Keys already returned
	// by a prior call, so a document can never refer to itself. This test
	// pins that property for the one case where it would be tempting to
	// break it: nesting a document inside a Concat that also contains it.
	a := docarena.New()
	x := a.MustText("x")
	c := a.Concat(x, a.Nest(1, x))

	doc, ok := a.Lookup(c)
	require.Truef(t, ok, "Lookup of a just-interned key should succeed")
	assert.EqualValuesf(t, doc.Kind, docarena.KindConcat, "expected a Concat node")
	for _, child := range doc.Children {
		assert.Truef(t, child != c, "a child must never equal its own parent key")
	}
}

func TestArenaLookupUnknownKey(t *testing.T) {
	a := docarena.New()
	_, ok := a.Lookup(docarena.Key(999))
	assert.Truef(t, !ok, "Lookup of an unknown key should report ok=false")
}

func TestSideTable(t *testing.T) {
	st := docarena.NewSideTable[string](2)

	_, ok := st.Get(docarena.Key(0))
	assert.Truef(t, !ok, "unset entries should report ok=false")

	st.Set(docarena.Key(0), "zero")
	got, ok := st.Get(docarena.Key(0))
	require.Truef(t, ok, "Get after Set")
	assert.EqualValuesf(t, got, "zero", "Get after Set")

	// Growing past the table's initial size must not panic or lose data.
	st.Set(docarena.Key(5), "five")
	got, ok = st.Get(docarena.Key(5))
	require.Truef(t, ok, "Get after Set past initial bounds")
	assert.EqualValuesf(t, got, "five", "Get after Set past initial bounds")

	got, ok = st.Get(docarena.Key(0))
	require.Truef(t, ok, "earlier entries survive growth")
	assert.EqualValuesf(t, got, "zero", "earlier entries survive growth")
}
