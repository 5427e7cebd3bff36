package writer_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/foldline/foldline/style"
	"github.com/foldline/foldline/writer"
)

func TestPlainIgnoresClass(t *testing.T) {
	var sb strings.Builder
	p := writer.NewPlain(&sb, "  ")

	require.NoError(t, p.Indent())
	require.NoError(t, p.Emit("x", style.Keyword))
	require.NoError(t, p.Newline())
	require.NoError(t, p.Emit("y", style.None))

	assert.EqualValuesf(t, sb.String(), "x\n  y", "Plain must emit text verbatim with no styling")
}

func TestPlainDedentAtZeroLevelErrors(t *testing.T) {
	var sb strings.Builder
	p := writer.NewPlain(&sb, "  ")
	err := p.Dedent()
	require.NotNil(t, err)
}

func TestStyledWrapsKnownClasses(t *testing.T) {
	var sb strings.Builder
	s := writer.NewStyled(&sb, "  ")

	require.NoError(t, s.Emit("if", style.Keyword))
	got := sb.String()
	assert.Truef(t, strings.Contains(got, "if"), "styled output must still contain the literal text")
	assert.Truef(t, strings.HasPrefix(got, "\x1b["), "styled output for a known class must start with an ANSI escape")
	assert.Truef(t, strings.HasSuffix(got, "\x1b[0m"), "styled output must reset afterwards")
}

func TestStyledPassesThroughEmptyText(t *testing.T) {
	var sb strings.Builder
	s := writer.NewStyled(&sb, "  ")
	require.NoError(t, s.Emit("", style.Keyword))
	assert.EqualValuesf(t, sb.String(), "", "empty text should not produce an escape-only write")
}

func TestResolveColour(t *testing.T) {
	assert.EqualValuesf(t, writer.ResolveColour(writer.Always, 0), true, "Always must always be true")
	assert.EqualValuesf(t, writer.ResolveColour(writer.Never, 0), false, "Never must always be false")
}
