package vegalite

import (
	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
)

var scaleNames = []string{"QUANTITATIVE", "NOMINAL", "ORDINAL", "TEMPORAL"}

var fieldTable = command.NewTable(map[string]command.Entry[*model.FieldSpec]{
	"TYPE": {Arity: 1, Handler: command.Point(func(f *model.FieldSpec, arg string) error {
		scale, ok := model.ParseScaleType(arg)
		if !ok {
			return command.InvalidValue(arg, 0, scaleNames...)
		}
		f.Type = scale
		return nil
	})},
	"BIN": {Arity: 1, Handler: command.Range(func(f *model.FieldSpec, tokens []string, pos int) (int, error) {
		if enabled, ok := command.ParseBool(tokens[pos]); ok {
			f.SetBinFlag(enabled)
			return pos + 1, nil
		}
		next, bin, err := ParseBin(tokens, pos)
		if err != nil {
			return pos, err
		}
		f.SetBin(bin)
		return next, nil
	})},
	"AGGREGATE": {Arity: 1, Handler: command.Point(func(f *model.FieldSpec, arg string) error {
		agg, ok := model.ParseAggregate(arg)
		if !ok {
			return command.InvalidValue(arg, 0, "an aggregate such as sum, mean or count")
		}
		f.Aggregate = agg
		return nil
	})},
	"TIME_UNIT": {Arity: 1, Handler: command.Point(func(f *model.FieldSpec, arg string) error {
		unit, ok := model.ParseTimeUnit(arg)
		if !ok {
			return command.InvalidValue(arg, 0, "a time unit such as year, month or hours")
		}
		f.TimeUnit = unit
		return nil
	})},
})

// ParseField binds the column named at tokens[pos] and reads the field
// attributes that follow it. The returned cursor points past the last
// attribute so the caller can continue with sibling keywords.
func ParseField(tokens []string, pos int) (int, *model.FieldSpec, error) {
	if pos >= len(tokens) {
		return pos, nil, &command.ParseError{
			Kind:     command.KindMissingArguments,
			Position: pos,
			Message:  "expected a field name",
		}
	}
	field := model.NewFieldSpec(tokens[pos])
	next, err := command.Loop(fieldTable, field, tokens, pos+1)
	if err != nil {
		return next, nil, err
	}
	return next, field, nil
}

// FieldKeywords lists the field level vocabulary.
func FieldKeywords() []string {
	return fieldTable.Keywords()
}
