package vegalite

import (
	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
)

// binParser counts attributes so an empty BIN clause can be rejected.
type binParser struct {
	spec  *model.BinSpec
	count int
}

func binFloat(set func(*model.BinSpec, *float64)) command.Handler[*binParser] {
	return command.Point(func(b *binParser, arg string) error {
		v, err := command.Float(arg)
		if err != nil {
			return err
		}
		set(b.spec, &v)
		b.count++
		return nil
	})
}

func binBool(set func(*model.BinSpec, *bool)) command.Handler[*binParser] {
	return command.Point(func(b *binParser, arg string) error {
		v, err := command.Bool(arg)
		if err != nil {
			return err
		}
		set(b.spec, &v)
		b.count++
		return nil
	})
}

var binTable = command.NewTable(map[string]command.Entry[*binParser]{
	"ANCHOR":  {Arity: 1, Handler: binFloat(func(s *model.BinSpec, v *float64) { s.Anchor = v })},
	"BASE":    {Arity: 1, Handler: binFloat(func(s *model.BinSpec, v *float64) { s.Base = v })},
	"MINSTEP": {Arity: 1, Handler: binFloat(func(s *model.BinSpec, v *float64) { s.MinStep = v })},
	"STEP":    {Arity: 1, Handler: binFloat(func(s *model.BinSpec, v *float64) { s.Step = v })},
	"BINNED":  {Arity: 1, Handler: binBool(func(s *model.BinSpec, v *bool) { s.Binned = v })},
	"NICE":    {Arity: 1, Handler: binBool(func(s *model.BinSpec, v *bool) { s.Nice = v })},
	"MAXBINS": {Arity: 1, Handler: command.Point(func(b *binParser, arg string) error {
		v, err := command.Int(arg)
		if err != nil {
			return err
		}
		b.spec.MaxBins = &v
		b.count++
		return nil
	})},
})

// ParseBin reads bin attributes starting at pos. At least one attribute is
// required.
func ParseBin(tokens []string, pos int) (int, *model.BinSpec, error) {
	b := &binParser{spec: &model.BinSpec{}}
	next, err := command.Loop(binTable, b, tokens, pos)
	if err != nil {
		return next, nil, err
	}
	if b.count == 0 {
		return pos, nil, command.EmptyBinClause(pos)
	}
	return next, b.spec, nil
}

// BinKeywords lists the bin level vocabulary.
func BinKeywords() []string {
	return binTable.Keywords()
}
