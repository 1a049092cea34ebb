package sqlkernel

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/domain/model"
	"github.com/nao1215/sqlkernel/engine"
	"github.com/nao1215/sqlkernel/vegalite"
)

// action runs a parsed magic command with the kernel lock held.
type action func(ctx context.Context, k *Kernel) ([]Output, error)

// magicLine collects the action chosen by the magic table. Parsing finishes
// before the action runs, so a malformed line has no side effects.
type magicLine struct {
	action action
}

func (m *magicLine) set(a action) {
	m.action = a
}

var magicTable = command.NewTable(map[string]command.Entry[*magicLine]{
	"LOAD": {Arity: 1, Handler: command.Range(func(m *magicLine, tokens []string, pos int) (int, error) {
		path := tokens[pos]
		next := pos + 1
		mode := engine.ModeReadWrite
		if next < len(tokens) {
			parsed, err := engine.ParseMode(tokens[next])
			if err != nil {
				return next, command.InvalidValue(tokens[next], next, "RW", "R")
			}
			mode = parsed
			next++
		}
		m.set(loadDatabase(path, mode))
		return next, nil
	})},
	"CREATE": {Arity: 1, Handler: command.Point(func(m *magicLine, path string) error {
		m.set(createDatabase(path))
		return nil
	})},
	"DELETE": {Arity: 0, Handler: command.Range(func(m *magicLine, _ []string, pos int) (int, error) {
		m.set(deleteDatabase)
		return pos, nil
	})},
	"TABLE_EXISTS": {Arity: 1, Handler: command.Point(func(m *magicLine, name string) error {
		m.set(tableExists(name))
		return nil
	})},
	"IS_UNENCRYPTED": {Arity: 0, Handler: command.Range(func(m *magicLine, _ []string, pos int) (int, error) {
		m.set(isUnencrypted)
		return pos, nil
	})},
	"GET_INFO": {Arity: 0, Handler: command.Range(func(m *magicLine, _ []string, pos int) (int, error) {
		m.set(getInfo)
		return pos, nil
	})},
	"BACKUP": {Arity: 1, Handler: command.Point(func(m *magicLine, dest string) error {
		m.set(backupDatabase(dest))
		return nil
	})},
	"IMPORT": {Arity: 1, Handler: command.Range(func(m *magicLine, tokens []string, pos int) (int, error) {
		file := tokens[pos]
		next := pos + 1
		table := ""
		if next < len(tokens) {
			table = tokens[next]
			next++
		}
		m.set(importFile(file, table))
		return next, nil
	})},
	"XVEGA_PLOT": {Arity: 0, Handler: command.Range(func(m *magicLine, tokens []string, pos int) (int, error) {
		chart, query, found := command.SplitQuery(tokens[pos:])
		if !found || len(query) == 0 {
			return pos, &command.ParseError{
				Kind:     command.KindMissingArguments,
				Position: pos + len(chart),
				Message:  "expected " + command.QueryDelimiter + " followed by a query",
				Err:      ErrMissingQuery,
			}
		}
		spec, err := vegalite.Parse(chart)
		if err != nil {
			// positions are relative to the chart tokens; make every
			// parse error in the chain point into the whole line
			for e := err; e != nil; e = errors.UnwrapOnce(e) {
				if perr, ok := e.(*command.ParseError); ok {
					perr.Position += pos
				}
			}
			return pos, err
		}
		m.set(plotChart(spec, command.JoinQuery(query)))
		return len(tokens), nil
	})},
})

// MagicKeywords lists the magic commands, without the % prefix.
func MagicKeywords() []string {
	return magicTable.Keywords()
}

// parseMagic resolves a magic line to its action. The whole line must be
// consumed.
func parseMagic(line command.Line) (action, error) {
	if line.Keyword() == "" {
		return nil, command.ErrEmptyInput
	}
	m := &magicLine{}
	next, matched, err := command.Step(magicTable, m, line.Tokens, 0)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errors.WithHint(command.UnrecognizedCommand(command.MagicPrefix+line.Keyword(), 0),
			"magic commands are %"+strings.Join(MagicKeywords(), ", %"))
	}
	if err := command.RequireEnd(line.Tokens, next); err != nil {
		return nil, err
	}
	return m.action, nil
}

func (k *Kernel) executeMagic(ctx context.Context, line command.Line) ([]Output, error) {
	run, err := parseMagic(line)
	if err != nil {
		return nil, err
	}
	k.logger.Debugw("running magic command", "keyword", line.Keyword())
	return run(ctx, k)
}

func loadDatabase(path string, mode engine.Mode) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := engine.Open(ctx, path, mode, k.logger)
		if err != nil {
			return nil, NewErrorContext("load", path).Error(err)
		}
		k.replaceDatabase(db)
		return display(textBundle("Loaded %s (%s)", path, mode)), nil
	}
}

func createDatabase(path string) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := engine.Create(ctx, path, k.logger)
		if err != nil {
			return nil, NewErrorContext("create", path).Error(err)
		}
		k.replaceDatabase(db)
		return display(textBundle("Created %s", path)), nil
	}
}

func deleteDatabase(_ context.Context, k *Kernel) ([]Output, error) {
	db, err := k.requireDatabase()
	if err != nil {
		return nil, err
	}
	if err := db.Delete(); err != nil {
		return nil, NewErrorContext("delete", db.Path()).Error(err)
	}
	k.db = nil
	return display(textBundle("Deleted %s", db.Path())), nil
}

func tableExists(name string) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := k.requireDatabase()
		if err != nil {
			return nil, err
		}
		exists, err := db.TableExists(ctx, name)
		if err != nil {
			return nil, NewErrorContext("table lookup", db.Path()).WithTable(name).Error(err)
		}
		if exists {
			return result(textBundle("The table %s exists.", name)), nil
		}
		return result(textBundle("The table %s doesn't exist.", name)), nil
	}
}

func isUnencrypted(_ context.Context, k *Kernel) ([]Output, error) {
	db, err := k.requireDatabase()
	if err != nil {
		return nil, err
	}
	plain, err := db.IsUnencrypted()
	if err != nil {
		return nil, NewErrorContext("header check", db.Path()).Error(err)
	}
	if plain {
		return result(textBundle("The database is unencrypted.")), nil
	}
	return result(textBundle("The database is encrypted.")), nil
}

func getInfo(_ context.Context, k *Kernel) ([]Output, error) {
	db, err := k.requireDatabase()
	if err != nil {
		return nil, err
	}
	info, err := db.HeaderInfo()
	if err != nil {
		return nil, NewErrorContext("header read", db.Path()).Error(err)
	}
	bundle, err := k.renderer.render(info.ToTable())
	if err != nil {
		return nil, err
	}
	return result(bundle), nil
}

func backupDatabase(dest string) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := k.requireDatabase()
		if err != nil {
			return nil, err
		}
		if err := db.Backup(ctx, dest); err != nil {
			return nil, NewErrorContext("backup", db.Path()).WithDetails("destination: " + dest).Error(err)
		}
		return display(textBundle("Backed up %s to %s", db.Path(), dest)), nil
	}
}

func importFile(file, table string) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := k.requireDatabase()
		if err != nil {
			return nil, err
		}
		res, err := db.Import(ctx, file, table)
		if err != nil {
			return nil, NewErrorContext("import", db.Path()).WithTable(table).WithDetails("file: " + file).Error(err)
		}
		return display(textBundle("Imported %d rows into %s (%d columns)", res.Rows, res.Table, len(res.Columns))), nil
	}
}

func plotChart(spec *model.ChartSpec, query string) action {
	return func(ctx context.Context, k *Kernel) ([]Output, error) {
		db, err := k.requireDatabase()
		if err != nil {
			return nil, err
		}
		data, err := db.Query(ctx, query)
		if err != nil {
			return nil, NewErrorContext("chart query", db.Path()).Error(err)
		}
		spec.Data = data
		doc, err := vegalite.Render(spec, nil)
		if err != nil {
			return nil, err
		}
		return display(chartBundle(doc)), nil
	}
}

func display(b Bundle) []Output {
	return []Output{{Type: OutputDisplayData, Data: b}}
}

func result(b Bundle) []Output {
	return []Output{{Type: OutputExecuteResult, Data: b}}
}
