package renderer_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/foldline/foldline/docarena"
	"github.com/foldline/foldline/renderer"
	"github.com/foldline/foldline/style"
)

// recordingWriter is a minimal renderer.Writer that reconstructs plain text
// output, for asserting on the shape the renderer produces without a real
// I/O-backed writer.
type recordingWriter struct {
	sb    strings.Builder
	level int
}

func (w *recordingWriter) Indent() error {
	w.level++
	return nil
}

func (w *recordingWriter) Dedent() error {
	w.level--
	return nil
}

func (w *recordingWriter) Newline() error {
	w.sb.WriteByte('\n')
	for range w.level {
		w.sb.WriteString("  ")
	}
	return nil
}

func (w *recordingWriter) Emit(text string, _ style.Class) error {
	w.sb.WriteString(text)
	return nil
}

func TestRenderConcatAndText(t *testing.T) {
	a := docarena.New()
	doc := a.Concat(a.MustText("foo"), a.MustText("bar"))

	w := &recordingWriter{}
	err := renderer.Render(a, doc, w)
	require.NoError(t, err)
	assert.EqualValuesf(t, w.sb.String(), "foobar", "Concat emits children in order")
}

func TestRenderNewlineAndIndent(t *testing.T) {
	a := docarena.New()
	doc := a.Nest(2, a.Concat(a.MustText("a"), a.Newline(), a.MustText("b")))

	w := &recordingWriter{}
	err := renderer.Render(a, doc, w)
	require.NoError(t, err)
	assert.EqualValuesf(t, w.sb.String(), "a\n    b", "Nest(2, ...) indents by two levels (two spaces each) after the newline")
}

func TestRenderFlattenTurnsNewlineIntoSpace(t *testing.T) {
	a := docarena.New()
	doc := a.Flatten(a.Concat(a.MustText("a"), a.Newline(), a.MustText("b")))

	w := &recordingWriter{}
	err := renderer.Render(a, doc, w)
	require.NoError(t, err)
	assert.EqualValuesf(t, w.sb.String(), "a b", "Flatten renders inner newlines as a single space")
}

func TestRenderChoiceIsFatal(t *testing.T) {
	a := docarena.New()
	doc := a.Choice(a.MustText("a"), a.MustText("b"))

	w := &recordingWriter{}
	err := renderer.Render(a, doc, w)
	require.NotNil(t, err)

	var invariantErr *renderer.InvariantError
	assert.Truef(t, asInvariantError(err, &invariantErr), "a Choice node reaching the renderer must be a fatal InvariantError")
}

func TestRenderUnknownKeyIsFatal(t *testing.T) {
	// A genuine cycle can't be constructed through docarena's interning
	// discipline (a node's children must already be interned before it
	// can exist), so this exercises the sibling fatal path: an unknown key.
	a := docarena.New()
	w := &recordingWriter{}
	err := renderer.Render(a, docarena.Key(999), w)
	require.NotNil(t, err)

	var invariantErr *renderer.InvariantError
	assert.Truef(t, asInvariantError(err, &invariantErr), "an unknown key must be a fatal InvariantError")
}

func asInvariantError(err error, target **renderer.InvariantError) bool {
	e, ok := err.(*renderer.InvariantError)
	if !ok {
		return false
	}
	*target = e
	return true
}
