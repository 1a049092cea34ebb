// Package command implements the token-driven dispatch engine shared by the
// magic commands and the chart language.
//
// A line is split into whitespace separated tokens which are consumed through
// an integer cursor. Every parser level owns a static Table mapping an
// upper-cased keyword to an Entry: the number of tokens the keyword needs and
// a Handler that consumes them. Handlers are either point handlers, which
// receive exactly the token following the keyword, or range handlers, which
// receive the whole stream plus the cursor and report how far they read. Range
// handlers are how nested parsers are composed:
//
//	table := command.NewTable(map[string]command.Entry[*state]{
//		"WIDTH":   {Arity: 1, Handler: command.Point(setWidth)},
//		"X_FIELD": {Arity: 1, Handler: command.Range(parseField)},
//	})
//	next, err := command.Loop(table, s, tokens, 0)
//	if err == nil {
//		err = command.RequireEnd(tokens, next)
//	}
//
// Tables are built once and never mutated, so they are safe for concurrent use.
package command
