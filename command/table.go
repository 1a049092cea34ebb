package command

import (
	"sort"
	"strings"
)

type handlerKind int

const (
	pointHandler handlerKind = iota + 1
	rangeHandler
)

// PointFunc consumes the single token following its keyword.
type PointFunc[S any] func(state S, arg string) error

// RangeFunc consumes a variable number of tokens starting at pos and returns
// the cursor just past the last token it used.
type RangeFunc[S any] func(state S, tokens []string, pos int) (int, error)

// Handler is either a point handler or a range handler.
type Handler[S any] struct {
	kind   handlerKind
	point  PointFunc[S]
	ranged RangeFunc[S]
}

// Point wraps fn as a point handler.
func Point[S any](fn PointFunc[S]) Handler[S] {
	return Handler[S]{kind: pointHandler, point: fn}
}

// Range wraps fn as a range handler.
func Range[S any](fn RangeFunc[S]) Handler[S] {
	return Handler[S]{kind: rangeHandler, ranged: fn}
}

// Entry is a keyword's argument requirement and handler.
type Entry[S any] struct {
	// Arity is the minimum number of tokens that must follow the keyword.
	Arity   int
	Handler Handler[S]
}

// Table maps upper-cased keywords to entries.
type Table[S any] struct {
	entries  map[string]Entry[S]
	keywords []string
}

// NewTable builds a table; keys are upper-cased. It panics on an entry
// without a handler or a point handler with an arity below one, since the
// point handler always receives the token after its keyword.
func NewTable[S any](entries map[string]Entry[S]) *Table[S] {
	t := &Table[S]{entries: make(map[string]Entry[S], len(entries))}
	for keyword, entry := range entries {
		upper := strings.ToUpper(keyword)
		switch {
		case entry.Handler.kind == 0:
			panic("command: keyword " + upper + " has no handler")
		case entry.Handler.kind == pointHandler && entry.Arity < 1:
			panic("command: point keyword " + upper + " needs an arity of at least 1")
		}
		t.entries[upper] = entry
		t.keywords = append(t.keywords, upper)
	}
	sort.Strings(t.keywords)
	return t
}

// Lookup finds keyword case-insensitively.
func (t *Table[S]) Lookup(keyword string) (Entry[S], bool) {
	entry, ok := t.entries[strings.ToUpper(keyword)]
	return entry, ok
}

// Keywords returns the sorted keyword list. The slice must not be modified.
func (t *Table[S]) Keywords() []string {
	return t.keywords
}
