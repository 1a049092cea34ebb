package command

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Step dispatches the keyword at tokens[pos]. When the token is not in the
// table matched is false and the cursor is returned unchanged.
func Step[S any](table *Table[S], state S, tokens []string, pos int) (next int, matched bool, err error) {
	if pos >= len(tokens) {
		return pos, false, nil
	}

	keyword := strings.ToUpper(tokens[pos])
	entry, ok := table.Lookup(keyword)
	if !ok {
		return pos, false, nil
	}

	remaining := len(tokens) - (pos + 1)
	if remaining < entry.Arity {
		return pos, true, &ParseError{
			Kind:     KindMissingArguments,
			Keyword:  keyword,
			Position: pos,
			Message:  missingMessage(keyword, entry.Arity, remaining),
		}
	}

	switch entry.Handler.kind {
	case pointHandler:
		if err := entry.Handler.point(state, tokens[pos+1]); err != nil {
			return pos, true, annotate(err, keyword, tokens[pos+1], pos+1)
		}
		return pos + 2, true, nil
	case rangeHandler:
		next, err := entry.Handler.ranged(state, tokens, pos+1)
		if err != nil {
			return pos, true, annotate(err, keyword, "", pos+1)
		}
		return next, true, nil
	default:
		return pos, true, errors.AssertionFailedf("keyword %s has no handler", keyword)
	}
}

// Loop runs Step until the end of the stream or the first unmatched token and
// returns the cursor where it stopped.
func Loop[S any](table *Table[S], state S, tokens []string, pos int) (int, error) {
	for pos < len(tokens) {
		next, matched, err := Step(table, state, tokens, pos)
		if err != nil {
			return next, err
		}
		if !matched {
			return pos, nil
		}
		pos = next
	}
	return pos, nil
}

// RequireEnd reports an incomplete consumption error unless pos is at the end
// of tokens. The error also matches ErrUnrecognizedCommand for the token that
// stopped the loop.
func RequireEnd(tokens []string, pos int) error {
	if pos >= len(tokens) {
		return nil
	}
	return &ParseError{
		Kind:     KindIncompleteConsumption,
		Token:    tokens[pos],
		Position: pos,
		Message:  "unexpected trailing input starting at \"" + tokens[pos] + "\"",
		Err:      UnrecognizedCommand(tokens[pos], pos),
	}
}

// annotate fills in the keyword and position of a handler failure without
// overwriting what a nested parser already recorded.
func annotate(err error, keyword, token string, pos int) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		if perr.Keyword == "" {
			perr.Keyword = keyword
			if token != "" {
				perr.Position = pos
			}
		}
		return err
	}
	return &ParseError{
		Kind:     KindInvalidValue,
		Keyword:  keyword,
		Token:    token,
		Position: pos,
		Err:      err,
	}
}
