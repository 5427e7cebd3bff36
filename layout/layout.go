// Package layout provides an ergonomic builder facade over [docarena],
// [resolver], and [renderer]: a chain-call API for callers that don't want
// to drive the arena directly.
//
// A [Doc] is resolved by the Pareto-optimal resolver (or, via
// [Doc.RenderTryCatch], the speculative alternative), not by a single
// fits-or-breaks test — the document algebra supports genuine cost-based
// trade-offs, not just a yes/no fit test.
package layout

import (
	"github.com/foldline/foldline/cost"
	"github.com/foldline/foldline/docarena"
	"github.com/foldline/foldline/renderer"
	"github.com/foldline/foldline/resolver"
	"github.com/foldline/foldline/style"
)

// Doc accumulates a document via chained method calls. The zero value is
// not usable; create one with [NewDoc].
type Doc struct {
	arena      *docarena.Arena
	maxWidth   int
	indentUnit int
	pending    []docarena.Key
}

// NewDoc creates a document that will be resolved against maxWidth columns.
func NewDoc(maxWidth int) *Doc {
	return &Doc{arena: docarena.New(), maxWidth: maxWidth, indentUnit: 4}
}

// WithIndentUnit sets the number of columns per indent level recorded in
// the [resolver.Config] that [Doc.Render] and [Doc.RenderTryCatch] build.
// Neither the resolver, which reasons about indent levels, nor the renderer
// consults it: the writer passed to Render indents with its own unit.
// Returns d for chaining.
func (d *Doc) WithIndentUnit(n int) *Doc {
	d.indentUnit = n
	return d
}

func (d *Doc) child() *Doc {
	return &Doc{arena: d.arena, maxWidth: d.maxWidth, indentUnit: d.indentUnit}
}

// Text adds literal text content. Panics if content contains a newline;
// use [Doc.Break] for line breaks.
func (d *Doc) Text(content string) *Doc {
	d.pending = append(d.pending, d.arena.MustText(content))
	return d
}

// TextWithClass adds literal text content styled as class.
func (d *Doc) TextWithClass(content string, class style.Class) *Doc {
	d.pending = append(d.pending, d.arena.MustTextWithClass(content, class))
	return d
}

// Space adds a single unstyled space.
func (d *Doc) Space() *Doc {
	return d.Text(" ")
}

// Break adds count newlines. count must be positive.
func (d *Doc) Break(count int) *Doc {
	if count <= 0 {
		panic("layout: Break: count must be positive")
	}
	for range count {
		d.pending = append(d.pending, d.arena.Newline())
	}
	return d
}

// Group marks body's content as preferring a single line: it is built as
// Choice(Flatten(body), body), so the resolver may pick either the
// flattened or the naturally-broken rendering of body, whichever is
// cheaper within the width limit.
func (d *Doc) Group(body func(*Doc)) *Doc {
	c := d.child()
	body(c)
	sub := c.finish()
	d.pending = append(d.pending, d.arena.Choice(d.arena.Flatten(sub), sub))
	return d
}

// Indent increases the indent level applied to body's content by columns
// levels.
func (d *Doc) Indent(columns int, body func(*Doc)) *Doc {
	c := d.child()
	body(c)
	sub := c.finish()
	d.pending = append(d.pending, d.arena.Nest(columns, sub))
	return d
}

// Flatten forces every Newline strictly inside body to render as a single
// space.
func (d *Doc) Flatten(body func(*Doc)) *Doc {
	c := d.child()
	body(c)
	sub := c.finish()
	d.pending = append(d.pending, d.arena.Flatten(sub))
	return d
}

// Choice adds an explicit choice point between two alternative layouts,
// for callers that want direct control instead of [Doc.Group]'s
// flatten-or-not convention.
func (d *Doc) Choice(first, second func(*Doc)) *Doc {
	ca := d.child()
	first(ca)
	cb := d.child()
	second(cb)
	d.pending = append(d.pending, d.arena.Choice(ca.finish(), cb.finish()))
	return d
}

func (d *Doc) finish() docarena.Key {
	switch len(d.pending) {
	case 0:
		return d.arena.MustText("")
	case 1:
		return d.pending[0]
	default:
		return d.arena.Concat(d.pending...)
	}
}

// Root returns the accumulated, unresolved document key. Mostly useful for
// tests that want to drive [resolver] or [renderer] directly.
func (d *Doc) Root() docarena.Key {
	return d.finish()
}

// Arena returns the arena backing d.
func (d *Doc) Arena() *docarena.Arena {
	return d.arena
}

// Render resolves d with the Pareto-optimal resolver against c (or
// [cost.Overflow]{} if c is nil) and writes the result through w.
func (d *Doc) Render(w renderer.Writer, c cost.Cost) error {
	if c == nil {
		c = cost.Overflow{}
	}
	cfg := resolver.Config{MaxWidth: d.maxWidth, IndentUnit: d.indentUnit, Cost: c}
	resolved, err := resolver.Resolve(d.arena, cfg, d.finish())
	if err != nil {
		return err
	}
	return renderer.Render(d.arena, resolved, w)
}

// RenderTryCatch resolves d with the speculative try/catch resolver instead
// of the Pareto-optimal one, treating every [Doc.Group] and [Doc.Choice] as
// try-first-then-catch. Appropriate only when choice points don't need to
// be jointly cost-minimised.
func (d *Doc) RenderTryCatch(w renderer.Writer) error {
	cfg := resolver.Config{MaxWidth: d.maxWidth, IndentUnit: d.indentUnit}
	resolved, err := resolver.ResolveTryCatch(d.arena, cfg, d.finish())
	if err != nil {
		return err
	}
	return renderer.Render(d.arena, resolved, w)
}
