// Package resolver implements the recursive, memoised computation that
// picks the minimum-cost, width-respecting layout for every choice point in
// a document. It is single-threaded and purely compute-bound — it performs
// no I/O and holds no state beyond the arena, cost monoid, and memo table
// passed to or created for one call.
package resolver

import (
	"fmt"
	"unicode/utf8"

	"github.com/foldline/foldline/cost"
	"github.com/foldline/foldline/docarena"
	"github.com/foldline/foldline/measureset"
)

// InvariantError reports a malformed document graph: a cycle, a reference
// to an unknown interned key, or any other condition that indicates a bug
// in how the document was built rather than in the input being formatted.
// It is always fatal; the resolver never attempts to recover from it.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "resolver: invariant violation: " + e.Msg
}

// Config holds the printing parameters that apply for an entire resolve
// call: the page width limit and the cost monoid to minimise against.
// MaxWidth and IndentUnit mirror the "max_width" and "indent" configuration
// options; IndentUnit is not consulted by the resolver itself
// (indentation is tracked in indent *levels*, not columns, until the
// renderer expands them) but is carried here so callers have one place to
// configure both.
type Config struct {
	MaxWidth   int
	IndentUnit int
	Cost       cost.Cost
}

// Context is the immutable printing context threaded through a resolve
// call: the column the current line starts at, the indent level to apply
// after a Newline, and whether an enclosing Flatten is in effect.
type Context struct {
	Column        int
	CurrentIndent int
	Flatten       bool
}

// Initial is the printing context a top-level [Resolve] call starts from:
// column 0, no indent, not flattened.
var Initial = Context{}

type memoEntry struct {
	ctx    Context
	result measureset.Set
}

type resolver struct {
	arena  *docarena.Arena
	config Config
	memo   *docarena.SideTable[[]memoEntry]
}

// Resolve picks the minimum-cost layout for root under the initial context
// (column 0, indent 0, not flattened) and returns the resulting choice-free
// document key. Ties in cost are impossible to observe here because a clean
// measure set is strictly ordered by cost; when only a tainted best-effort
// result is available, that result is returned instead of an error — width
// exhaustion is not a failure.
func Resolve(arena *docarena.Arena, config Config, root docarena.Key) (docarena.Key, error) {
	r := &resolver{
		arena:  arena,
		config: config,
		memo:   docarena.NewSideTable[[]memoEntry](arena.Len()),
	}
	set, err := r.resolve(root, Initial)
	if err != nil {
		return 0, err
	}
	return set.Best().Doc, nil
}

// ResolveAt exposes resolve at an arbitrary printing context, for testing
// and for callers embedding a sub-document into a larger, already-laid-out
// one.
func ResolveAt(arena *docarena.Arena, config Config, key docarena.Key, ctx Context) (measureset.Set, error) {
	r := &resolver{
		arena:  arena,
		config: config,
		memo:   docarena.NewSideTable[[]memoEntry](arena.Len()),
	}
	return r.resolve(key, ctx)
}

func (r *resolver) resolve(key docarena.Key, ctx Context) (measureset.Set, error) {
	if cached, ok := r.lookupMemo(key, ctx); ok {
		return cached, nil
	}

	doc, ok := r.arena.Lookup(key)
	if !ok {
		return measureset.Set{}, &InvariantError{Msg: fmt.Sprintf("unknown document key %d", key)}
	}

	var (
		result measureset.Set
		err    error
	)
	switch doc.Kind {
	case docarena.KindText:
		result = r.resolveText(key, ctx, doc.Text)
	case docarena.KindNewline:
		result, err = r.resolveNewline(key, ctx)
	case docarena.KindConcat:
		result, err = r.resolveConcat(ctx, doc.Children)
	case docarena.KindNest:
		result, err = r.resolveNest(ctx, doc.Indent, doc.Child)
	case docarena.KindFlatten:
		result, err = r.resolveFlatten(ctx, doc.Child)
	case docarena.KindChoice:
		result, err = r.resolveChoice(ctx, doc.A, doc.B)
	default:
		return measureset.Set{}, &InvariantError{Msg: fmt.Sprintf("unknown document kind %v for key %d", doc.Kind, key)}
	}
	if err != nil {
		return measureset.Set{}, err
	}

	r.storeMemo(key, ctx, result)
	return result, nil
}

func (r *resolver) fits(column, indent int) bool {
	return column <= r.config.MaxWidth && indent <= r.config.MaxWidth
}

// resolveText produces a single measure for a Text leaf: clean if it fits
// within the width and indent limits, tainted otherwise. Width is measured
// in characters, not bytes, so multi-byte UTF-8 content is not overcounted.
func (r *resolver) resolveText(key docarena.Key, ctx Context, text string) measureset.Set {
	length := utf8.RuneCountInString(text)
	m := measureset.Measure{
		LastLineWidth: ctx.Column + length,
		Cost:          r.config.Cost.Text(ctx.Column, length, r.config.MaxWidth),
		Doc:           key,
	}
	if ctx.Column+length <= r.config.MaxWidth && ctx.CurrentIndent <= r.config.MaxWidth {
		return measureset.Clean(m)
	}
	return measureset.Tainted(m)
}

// resolveNewline produces a single measure for a line break: clean if the
// break point fits, tainted otherwise. In flatten mode a Newline behaves as
// a single space emitted at the current column.
func (r *resolver) resolveNewline(key docarena.Key, ctx Context) (measureset.Set, error) {
	if ctx.Flatten {
		spaceKey, err := r.arena.Text(" ")
		if err != nil {
			return measureset.Set{}, &InvariantError{Msg: err.Error()}
		}
		return r.resolveText(spaceKey, ctx, " "), nil
	}

	m := measureset.Measure{
		LastLineWidth: ctx.CurrentIndent,
		Cost:          r.config.Cost.Newline(),
		Doc:           key,
	}
	if r.fits(ctx.Column, ctx.CurrentIndent) {
		return measureset.Clean(m), nil
	}
	return measureset.Tainted(m), nil
}

// resolveConcat folds left over the children, advancing
// column to each surviving measure's last-line width before resolving the
// next child, combining costs left-to-right, and merging across all
// surviving measures at each step.
func (r *resolver) resolveConcat(ctx Context, children []docarena.Key) (measureset.Set, error) {
	if len(children) == 0 {
		empty, err := r.arena.Text("")
		if err != nil {
			return measureset.Set{}, &InvariantError{Msg: err.Error()}
		}
		return r.resolveText(empty, ctx, ""), nil
	}

	running, err := r.resolve(children[0], ctx)
	if err != nil {
		return measureset.Set{}, err
	}

	for _, child := range children[1:] {
		// running.IsTainted() applies to every m below, since a tainted Set
		// is always a singleton: if the measure this step advances from is
		// itself a best-effort one, the step it produces is best-effort too,
		// no matter how cleanly child resolves from that position.
		stepTainted := running.IsTainted()
		var (
			next  measureset.Set
			first = true
		)
		for _, m := range running.Measures() {
			childCtx := Context{Column: m.LastLineWidth, CurrentIndent: ctx.CurrentIndent, Flatten: ctx.Flatten}
			childSet, err := r.resolve(child, childCtx)
			if err != nil {
				return measureset.Set{}, err
			}
			base := m
			lifted := measureset.Lift(childSet, func(cm measureset.Measure) measureset.Measure {
				return measureset.Measure{
					LastLineWidth: cm.LastLineWidth,
					Cost:          base.Cost.Combine(cm.Cost),
					Doc:           r.arena.Concat(base.Doc, cm.Doc),
				}
			})
			if stepTainted {
				lifted = measureset.Taint(lifted)
			}
			if first {
				next = lifted
				first = false
			} else {
				next = measureset.Merge(next, lifted)
			}
		}
		running = next
	}

	return running, nil
}

// resolveNest evaluates child with the indent level raised by k, then wraps
// every resulting document in Nest(k, ·). Width and cost are unaffected by
// the wrapper itself.
func (r *resolver) resolveNest(ctx Context, k int, child docarena.Key) (measureset.Set, error) {
	childCtx := Context{Column: ctx.Column, CurrentIndent: ctx.CurrentIndent + k, Flatten: ctx.Flatten}
	childSet, err := r.resolve(child, childCtx)
	if err != nil {
		return measureset.Set{}, err
	}
	return measureset.Lift(childSet, func(m measureset.Measure) measureset.Measure {
		return measureset.Measure{
			LastLineWidth: m.LastLineWidth,
			Cost:          m.Cost,
			Doc:           r.arena.Nest(k, m.Doc),
		}
	}), nil
}

// resolveFlatten evaluates child with flatten forced on, then wraps every
// resulting document in Flatten(·). A Flatten nested inside another Flatten
// is idempotent because the child context's Flatten is simply set to true
// again.
func (r *resolver) resolveFlatten(ctx Context, child docarena.Key) (measureset.Set, error) {
	childCtx := Context{Column: ctx.Column, CurrentIndent: ctx.CurrentIndent, Flatten: true}
	childSet, err := r.resolve(child, childCtx)
	if err != nil {
		return measureset.Set{}, err
	}
	return measureset.Lift(childSet, func(m measureset.Measure) measureset.Measure {
		return measureset.Measure{
			LastLineWidth: m.LastLineWidth,
			Cost:          m.Cost,
			Doc:           r.arena.Flatten(m.Doc),
		}
	}), nil
}

// resolveChoice evaluates both branches under the identical context and
// merges the two measure sets. Choice never appears in the output
// documents of measures: both branches already resolved to choice-free
// documents before this merge.
func (r *resolver) resolveChoice(ctx Context, a, b docarena.Key) (measureset.Set, error) {
	sa, err := r.resolve(a, ctx)
	if err != nil {
		return measureset.Set{}, err
	}
	sb, err := r.resolve(b, ctx)
	if err != nil {
		return measureset.Set{}, err
	}
	return measureset.Merge(sa, sb), nil
}

func (r *resolver) lookupMemo(key docarena.Key, ctx Context) (measureset.Set, bool) {
	entries, ok := r.memo.Get(key)
	if !ok {
		return measureset.Set{}, false
	}
	for _, e := range entries {
		if e.ctx == ctx {
			return e.result, true
		}
	}
	return measureset.Set{}, false
}

func (r *resolver) storeMemo(key docarena.Key, ctx Context, result measureset.Set) {
	entries, _ := r.memo.Get(key)
	r.memo.Set(key, append(entries, memoEntry{ctx: ctx, result: result}))
}
