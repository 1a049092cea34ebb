package vegalite

import (
	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
)

func dimension(set func(*model.ChartSpec, *int)) command.Handler[*model.ChartSpec] {
	return command.Point(func(c *model.ChartSpec, arg string) error {
		v, err := command.Int(arg)
		if err != nil {
			return err
		}
		set(c, &v)
		return nil
	})
}

func encoding(set func(*model.ChartSpec, *model.FieldSpec)) command.Handler[*model.ChartSpec] {
	return command.Range(func(c *model.ChartSpec, tokens []string, pos int) (int, error) {
		next, field, err := ParseField(tokens, pos)
		if err != nil {
			return pos, err
		}
		set(c, field)
		return next, nil
	})
}

var chartTable = command.NewTable(map[string]command.Entry[*model.ChartSpec]{
	"WIDTH":   {Arity: 1, Handler: dimension(func(c *model.ChartSpec, v *int) { c.Width = v })},
	"HEIGHT":  {Arity: 1, Handler: dimension(func(c *model.ChartSpec, v *int) { c.Height = v })},
	"X_FIELD": {Arity: 1, Handler: encoding(func(c *model.ChartSpec, f *model.FieldSpec) { c.X = f })},
	"Y_FIELD": {Arity: 1, Handler: encoding(func(c *model.ChartSpec, f *model.FieldSpec) { c.Y = f })},
	"MARK": {Arity: 1, Handler: command.Range(func(c *model.ChartSpec, tokens []string, pos int) (int, error) {
		next, mark, err := ParseMark(tokens, pos)
		if err != nil {
			return pos, err
		}
		c.Mark = mark
		return next, nil
	})},
	"GRID": {Arity: 1, Handler: command.Point(func(c *model.ChartSpec, arg string) error {
		grid, err := command.Bool(arg)
		if err != nil {
			return err
		}
		c.Axis.Grid = grid
		return nil
	})},
	"TITLE": {Arity: 1, Handler: command.Point(func(c *model.ChartSpec, arg string) error {
		c.Axis.Title = []string{arg}
		return nil
	})},
})

// Parse builds a chart specification from the tokens that follow the
// %XVEGA_PLOT keyword. Every token must be consumed.
func Parse(tokens []string) (*model.ChartSpec, error) {
	spec := model.NewChartSpec()
	next, err := command.Loop(chartTable, spec, tokens, 0)
	if err != nil {
		return nil, err
	}
	if err := command.RequireEnd(tokens, next); err != nil {
		return nil, err
	}
	return spec, nil
}

// ChartKeywords lists the chart level vocabulary.
func ChartKeywords() []string {
	return chartTable.Keywords()
}

// Keywords lists every keyword of every level, including mark kinds.
func Keywords() []string {
	var all []string
	all = append(all, ChartKeywords()...)
	all = append(all, FieldKeywords()...)
	all = append(all, BinKeywords()...)
	all = append(all, MarkKeywords()...)
	all = append(all, MarkKinds()...)
	return all
}
