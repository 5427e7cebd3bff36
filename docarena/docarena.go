// Package docarena implements the interning store and document algebra that
// underlie the layout resolver: a directed acyclic graph of documents,
// deduplicated by structural equality, addressed by small dense [Key]
// values.
//
// A [Document] is one of six constructors: Text, Newline, Concat, Nest,
// Flatten, or Choice. Builders never see the graph directly — they call
// [Arena.Text], [Arena.Newline], [Arena.Concat], [Arena.Nest],
// [Arena.Flatten], and [Arena.Choice], each of which returns a [Key] that
// can only ever refer to already-interned documents. That ordering
// constraint is what keeps the arena acyclic: nothing can intern a document
// that points at itself, because its children must exist first.
package docarena

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/foldline/foldline/internal/assert"
	"github.com/foldline/foldline/style"
)

// Kind identifies which of the six document constructors a node is.
type Kind int

const (
	KindText Kind = iota
	KindNewline
	KindConcat
	KindNest
	KindFlatten
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNewline:
		return "Newline"
	case KindConcat:
		return "Concat"
	case KindNest:
		return "Nest"
	case KindFlatten:
		return "Flatten"
	case KindChoice:
		return "Choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key is an opaque, stable identifier for an interned [Document]. Keys are
// dense small integers valid only within the [Arena] that produced them; a
// Key from one arena must never be looked up in another.
type Key int

// invalidKey is returned only alongside an error, by Arena methods that
// reject their input; it never refers to a document, unlike Key(0), which
// is a valid one.
const invalidKey Key = -1

// Document is the data behind a [Key], as returned by [Arena.Lookup]. Only
// the fields relevant to Kind are meaningful; the rest are zero.
type Document struct {
	Kind Kind

	// Text holds the literal content for KindText. It never contains '\n'.
	Text string

	// Class names the syntactic role a builder attached to this Text leaf
	// for the writer to style by. Two Text leaves with equal content but
	// different Class are distinct documents: Class is part of a Text
	// node's identity, not a side-channel, so that interning by content
	// never conflates differently-styled occurrences of the same string.
	Class style.Class

	// Children holds the ordered operands for KindConcat.
	Children []Key

	// Indent holds the additional indent levels for KindNest; Child holds
	// its body. For KindFlatten only Child is meaningful.
	Indent int
	Child  Key

	// A and B hold the two branches of a KindChoice node.
	A, B Key
}

// Arena owns the interned documents created for a single formatting run. It
// is not safe for concurrent use; independent formatting runs must use
// independent arenas.
type Arena struct {
	nodes []Document
	dedup map[string]Key
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{dedup: make(map[string]Key)}
}

// Len returns the number of distinct interned documents.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Lookup returns the document stored at key. It is total over every key an
// Arena method has ever returned; ok is false only for a key from a
// different arena or past Len().
func (a *Arena) Lookup(key Key) (Document, bool) {
	if key < 0 || int(key) >= len(a.nodes) {
		return Document{}, false
	}
	return a.nodes[key], true
}

func (a *Arena) intern(canonical string, doc Document) Key {
	if key, ok := a.dedup[canonical]; ok {
		return key
	}
	key := Key(len(a.nodes))
	a.nodes = append(a.nodes, doc)
	a.dedup[canonical] = key
	return key
}

// Text interns a leaf of literal content with no particular styling class.
// Returns an error if s contains a newline; builders that want line breaks
// must use [Arena.Newline] instead, per the document algebra's Text
// invariant.
func (a *Arena) Text(s string) (Key, error) {
	return a.TextWithClass(s, style.None)
}

// TextWithClass is [Arena.Text] with an explicit styling class for the
// writer to use. Returns an error if s contains a newline.
func (a *Arena) TextWithClass(s string, class style.Class) (Key, error) {
	if strings.ContainsRune(s, '\n') {
		return invalidKey, fmt.Errorf("docarena: Text content must not contain a newline: %q", s)
	}
	canonical := fmt.Sprintf("t:%d:%s", class, s)
	return a.intern(canonical, Document{Kind: KindText, Text: s, Class: class}), nil
}

// MustText is Text but panics on error, for builders that construct text
// from constants known not to contain newlines.
func (a *Arena) MustText(s string) Key {
	key, err := a.Text(s)
	if err != nil {
		panic(err)
	}
	return key
}

// MustTextWithClass is TextWithClass but panics on error.
func (a *Arena) MustTextWithClass(s string, class style.Class) Key {
	key, err := a.TextWithClass(s, class)
	if err != nil {
		panic(err)
	}
	return key
}

// newlineCanonical is the dedup string of the single interned Newline node;
// Newline carries no payload so every call can share one key.
var newlineCanonical = "n:"

// Newline interns a single line break.
func (a *Arena) Newline() Key {
	if key, ok := a.dedup[newlineCanonical]; ok {
		return key
	}
	return a.intern(newlineCanonical, Document{Kind: KindNewline})
}

// Concat interns an ordered sequence of documents. An empty or
// single-element Concat is interned like any other sequence; callers that
// want to avoid the indirection can special-case those themselves.
func (a *Arena) Concat(children ...Key) Key {
	var sb strings.Builder
	sb.WriteString("c:")
	for _, c := range children {
		sb.WriteString(strconv.Itoa(int(c)))
		sb.WriteByte(',')
	}
	cs := make([]Key, len(children))
	copy(cs, children)
	return a.intern(sb.String(), Document{Kind: KindConcat, Children: cs})
}

// Nest interns child wrapped so that k additional indent units apply to any
// Newline strictly inside it. k must be non-negative: the document algebra
// never validates or assigns meaning to negative nest increments, so
// passing one is a caller bug, not a recoverable condition.
func (a *Arena) Nest(k int, child Key) Key {
	assert.That(k >= 0, "docarena: Nest: k must be non-negative, got %d", k)
	canonical := fmt.Sprintf("i:%d:%d", k, child)
	return a.intern(canonical, Document{Kind: KindNest, Indent: k, Child: child})
}

// Flatten interns child so that every Newline strictly inside it (unless
// shadowed by a nested Flatten) behaves as a single space.
func (a *Arena) Flatten(child Key) Key {
	canonical := fmt.Sprintf("f:%d", child)
	return a.intern(canonical, Document{Kind: KindFlatten, Child: child})
}

// Choice interns a choice point between two documents, denoted a <|> b in
// the document algebra. The resolver must select exactly one branch; Choice
// never appears in a resolved (choice-free) document.
func (a *Arena) Choice(first, second Key) Key {
	canonical := fmt.Sprintf("o:%d:%d", first, second)
	return a.intern(canonical, Document{Kind: KindChoice, A: first, B: second})
}

// SideTable is a sparse, Key-indexed auxiliary store sized to an arena's
// length. It is used by the resolver to memoise results without forcing a
// dense allocation proportional to the arena for every axis of
// memoisation. Lookups must check presence before use, since a SideTable
// need not be fully populated.
type SideTable[T any] struct {
	values  []T
	present []bool
}

// NewSideTable creates a side-table able to hold entries for keys in
// [0, size).
func NewSideTable[T any](size int) *SideTable[T] {
	return &SideTable[T]{
		values:  make([]T, size),
		present: make([]bool, size),
	}
}

// Get returns the value stored for key and whether it was present.
func (s *SideTable[T]) Get(key Key) (T, bool) {
	if key < 0 || int(key) >= len(s.values) {
		var zero T
		return zero, false
	}
	return s.values[key], s.present[key]
}

// Set stores value for key, growing the table if key falls outside its
// current bounds (the arena may have interned new documents since the
// table was created).
func (s *SideTable[T]) Set(key Key, value T) {
	if int(key) >= len(s.values) {
		grown := make([]T, key+1)
		copy(grown, s.values)
		s.values = grown
		presentGrown := make([]bool, key+1)
		copy(presentGrown, s.present)
		s.present = presentGrown
	}
	s.values[key] = value
	s.present[key] = true
}
