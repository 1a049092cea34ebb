package vegalite

import (
	"strings"

	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
)

var markTable = command.NewTable(map[string]command.Entry[*model.MarkSpec]{
	"COLOR": {Arity: 1, Handler: command.Point(func(m *model.MarkSpec, arg string) error {
		return m.SetColor(arg)
	})},
})

// MarkKinds lists the accepted mark kinds, upper-cased.
func MarkKinds() []string {
	kinds := make([]string, 0, int(model.MarkTrail))
	for k := model.MarkArc; k <= model.MarkTrail; k++ {
		kinds = append(kinds, strings.ToUpper(k.String()))
	}
	return kinds
}

// ParseMark selects the mark kind at tokens[pos] then reads its styling.
func ParseMark(tokens []string, pos int) (int, *model.MarkSpec, error) {
	if pos >= len(tokens) {
		return pos, nil, &command.ParseError{
			Kind:     command.KindMissingArguments,
			Position: pos,
			Message:  "expected a mark kind",
		}
	}
	kind, ok := model.ParseMarkKind(tokens[pos])
	if !ok {
		return pos, nil, command.InvalidValue(tokens[pos], pos, MarkKinds()...)
	}

	mark := &model.MarkSpec{Kind: kind}
	next, err := command.Loop(markTable, mark, tokens, pos+1)
	if err != nil {
		return next, nil, err
	}
	return next, mark, nil
}

// MarkKeywords lists the mark level vocabulary.
func MarkKeywords() []string {
	return markTable.Keywords()
}
