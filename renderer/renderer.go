// Package renderer walks a choice-free document and emits it as styled text
// through a [Writer]. The renderer never inspects a Choice node: documents
// reaching it must already have had every choice point resolved, whether by
// [resolver.Resolve], [resolver.ResolveTryCatch], or a builder that simply
// never introduced a Choice in the first place.
package renderer

import (
	"fmt"

	"github.com/foldline/foldline/docarena"
	"github.com/foldline/foldline/style"
)

// Writer is the renderer's collaborator: it owns the actual output stream
// and decides how indentation and styling classes are realised (spaces vs.
// tabs, ANSI colour vs. none, ...). A Writer is single-threaded and may
// buffer; it reports its own failures by returning an error, which aborts
// the render and is surfaced verbatim to the caller.
type Writer interface {
	// Indent increases the writer's indent level by one.
	Indent() error
	// Dedent decreases the writer's indent level by one. Callers never
	// dedent below zero.
	Dedent() error
	// Newline ends the current line and begins a new one at the current
	// indent level.
	Newline() error
	// Emit writes text, styled according to class, at the current
	// position.
	Emit(text string, class style.Class) error
}

// InvariantError reports a document that cannot be rendered because it is
// malformed: a cycle, a Choice node (the resolver must remove every
// Choice before rendering), or a reference to an unknown interned key.
// It is always fatal.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "renderer: invariant violation: " + e.Msg
}

// Render walks root (assumed choice-free) and emits it through w.
func Render(arena *docarena.Arena, root docarena.Key, w Writer) error {
	r := &renderer{arena: arena, w: w, visiting: make(map[docarena.Key]bool)}
	return r.render(root, false)
}

type renderer struct {
	arena    *docarena.Arena
	w        Writer
	visiting map[docarena.Key]bool
}

func (r *renderer) render(key docarena.Key, flatten bool) error {
	if r.visiting[key] {
		return &InvariantError{Msg: fmt.Sprintf("cycle detected at document key %d", key)}
	}
	doc, ok := r.arena.Lookup(key)
	if !ok {
		return &InvariantError{Msg: fmt.Sprintf("unknown document key %d", key)}
	}

	r.visiting[key] = true
	defer delete(r.visiting, key)

	switch doc.Kind {
	case docarena.KindText:
		return r.w.Emit(doc.Text, doc.Class)

	case docarena.KindNewline:
		if flatten {
			return r.w.Emit(" ", style.None)
		}
		return r.w.Newline()

	case docarena.KindConcat:
		for _, child := range doc.Children {
			if err := r.render(child, flatten); err != nil {
				return err
			}
		}
		return nil

	case docarena.KindNest:
		for range doc.Indent {
			if err := r.w.Indent(); err != nil {
				return err
			}
		}
		renderErr := r.render(doc.Child, flatten)
		for range doc.Indent {
			if err := r.w.Dedent(); err != nil && renderErr == nil {
				renderErr = err
			}
		}
		return renderErr

	case docarena.KindFlatten:
		return r.render(doc.Child, true)

	case docarena.KindChoice:
		return &InvariantError{Msg: fmt.Sprintf("Choice node reached renderer at document key %d", key)}

	default:
		return &InvariantError{Msg: fmt.Sprintf("unknown document kind %v for key %d", doc.Kind, key)}
	}
}
