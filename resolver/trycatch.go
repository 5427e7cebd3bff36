package resolver

import (
	"fmt"
	"unicode/utf8"

	"github.com/foldline/foldline/docarena"
)

// speculativeContext is the mutable printing context driven by
// [ResolveTryCatch]. Unlike [Context], which is threaded immutably through
// the Pareto resolver, this context accumulates effects as the single
// left-to-right walk proceeds, tracking whether the walk has overflowed the
// width limit (Tainted) and whether it is currently inside a speculative
// try (Trying) so that a try is never re-attempted once backtracking is
// already underway for an enclosing one.
//
// This is the independent try/catch speculative resolver: a single walk
// that optimistically commits to each Choice's first branch and only
// re-walks the second branch if the first one's own scope breached the
// width limit.
type speculativeContext struct {
	column        int
	currentIndent int
	flatten       bool
	trying        bool
	tainted       bool
}

// newline is only called for an unflattened Newline; the flattened case is
// handled by the caller pushing a single space instead.
func (c *speculativeContext) newline(maxWidth int) {
	c.column = c.currentIndent
	if c.column > maxWidth {
		c.tainted = true
	}
}

func (c *speculativeContext) push(length, maxWidth int) {
	c.column += length
	if c.column > maxWidth {
		c.tainted = true
	}
}

// ResolveTryCatch is the alternative resolver appropriate when every Choice
// in the document is a binary try/catch pair independent of later choices:
// it performs a single left-to-right walk that speculatively
// commits to each Choice's first (try) branch, backtracking to the second
// (catch) branch only when the try branch overflows the width limit within
// its own scope. This is strictly weaker than [Resolve] — it does not
// search for a globally cost-minimal layout across multiple choice points —
// but it is cheaper and sufficient when the builder guarantees that
// independence.
func ResolveTryCatch(arena *docarena.Arena, config Config, root docarena.Key) (docarena.Key, error) {
	ctx := &speculativeContext{}
	return walkTryCatch(arena, config, root, ctx)
}

func walkTryCatch(arena *docarena.Arena, config Config, key docarena.Key, ctx *speculativeContext) (docarena.Key, error) {
	doc, ok := arena.Lookup(key)
	if !ok {
		return 0, &InvariantError{Msg: fmt.Sprintf("unknown document key %d", key)}
	}

	switch doc.Kind {
	case docarena.KindText:
		ctx.push(utf8.RuneCountInString(doc.Text), config.MaxWidth)
		return key, nil

	case docarena.KindNewline:
		if ctx.flatten {
			ctx.push(1, config.MaxWidth)
			return arena.Text(" ")
		}
		ctx.newline(config.MaxWidth)
		return key, nil

	case docarena.KindConcat:
		newChildren := make([]docarena.Key, len(doc.Children))
		for i, child := range doc.Children {
			newChild, err := walkTryCatch(arena, config, child, ctx)
			if err != nil {
				return 0, err
			}
			newChildren[i] = newChild
		}
		return arena.Concat(newChildren...), nil

	case docarena.KindNest:
		ctx.currentIndent += doc.Indent
		newChild, err := walkTryCatch(arena, config, doc.Child, ctx)
		ctx.currentIndent -= doc.Indent
		if err != nil {
			return 0, err
		}
		return arena.Nest(doc.Indent, newChild), nil

	case docarena.KindFlatten:
		flattenedCtx := *ctx
		flattenedCtx.flatten = true
		newChild, err := walkTryCatch(arena, config, doc.Child, &flattenedCtx)
		if err != nil {
			return 0, err
		}
		flattenedCtx.flatten = ctx.flatten
		*ctx = flattenedCtx
		return arena.Flatten(newChild), nil

	case docarena.KindChoice:
		// The try branch is judged only by an overflow inside its own scope,
		// not by one that happened before this Choice.
		tryCtx := *ctx
		tryCtx.trying = true
		tryCtx.tainted = false
		newTry, err := walkTryCatch(arena, config, doc.A, &tryCtx)
		if err != nil {
			return 0, err
		}
		if tryCtx.tainted && !ctx.trying {
			catchCtx := *ctx
			newCatch, err := walkTryCatch(arena, config, doc.B, &catchCtx)
			if err != nil {
				return 0, err
			}
			*ctx = catchCtx
			return newCatch, nil
		}
		tryCtx.trying = ctx.trying
		tryCtx.tainted = tryCtx.tainted || ctx.tainted
		*ctx = tryCtx
		return newTry, nil

	default:
		return 0, &InvariantError{Msg: fmt.Sprintf("unknown document kind %v for key %d", doc.Kind, key)}
	}
}
