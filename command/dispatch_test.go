package command

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	size  int
	names []string
	flags []string
}

var recorderKeywords = map[string]bool{"SIZE": true, "NAMES": true, "FLAG": true, "FAIL": true}

var recorderTable = NewTable(map[string]Entry[*recorder]{
	"size": {Arity: 1, Handler: Point(func(r *recorder, arg string) error {
		n, err := Int(arg)
		if err != nil {
			return err
		}
		r.size = n
		return nil
	})},
	"NAMES": {Arity: 1, Handler: Range(func(r *recorder, tokens []string, pos int) (int, error) {
		for pos < len(tokens) && !recorderKeywords[strings.ToUpper(tokens[pos])] {
			r.names = append(r.names, tokens[pos])
			pos++
		}
		return pos, nil
	})},
	"FLAG": {Arity: 0, Handler: Range(func(r *recorder, _ []string, pos int) (int, error) {
		r.flags = append(r.flags, "flag")
		return pos, nil
	})},
	"FAIL": {Arity: 1, Handler: Point(func(*recorder, string) error {
		return errors.New("boom")
	})},
})

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	for _, keyword := range []string{"size", "Size", "SIZE"} {
		entry, ok := recorderTable.Lookup(keyword)
		assert.True(t, ok, keyword)
		assert.Equal(t, 1, entry.Arity)
	}
	_, ok := recorderTable.Lookup("unknown")
	assert.False(t, ok)
	assert.Equal(t, []string{"FAIL", "FLAG", "NAMES", "SIZE"}, recorderTable.Keywords())
}

func TestNewTable_RejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "command: point keyword NAME needs an arity of at least 1", func() {
		NewTable(map[string]Entry[*recorder]{
			"name": {Arity: 0, Handler: Point(func(*recorder, string) error { return nil })},
		})
	})
	assert.PanicsWithValue(t, "command: keyword EMPTY has no handler", func() {
		NewTable(map[string]Entry[*recorder]{"empty": {Arity: 1}})
	})
	assert.NotPanics(t, func() {
		NewTable(map[string]Entry[*recorder]{
			"flag": {Arity: 0, Handler: Range(func(_ *recorder, _ []string, pos int) (int, error) { return pos, nil })},
		})
	})
}

func TestStep(t *testing.T) {
	t.Parallel()

	t.Run("point handler advances by two", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		next, matched, err := Step(recorderTable, r, []string{"size", "4", "rest"}, 0)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, 2, next)
		assert.Equal(t, 4, r.size)
	})

	t.Run("range handler cursor is adopted", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		next, matched, err := Step(recorderTable, r, []string{"NAMES", "a", "b", "SIZE", "1"}, 0)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, 3, next)
		assert.Equal(t, []string{"a", "b"}, r.names)
	})

	t.Run("starts at the given cursor", func(t *testing.T) {
		t.Parallel()
		next, matched, err := Step(recorderTable, &recorder{}, []string{"x", "SIZE", "1"}, 1)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, 3, next)
	})

	t.Run("unmatched leaves cursor", func(t *testing.T) {
		t.Parallel()
		next, matched, err := Step(recorderTable, &recorder{}, []string{"x"}, 0)
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Equal(t, 0, next)
	})

	t.Run("missing arguments names the keyword", func(t *testing.T) {
		t.Parallel()
		_, _, err := Step(recorderTable, &recorder{}, []string{"size"}, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingArguments))

		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "SIZE", perr.Keyword)
		assert.Contains(t, err.Error(), "SIZE")
	})

	t.Run("zero arity at end of stream", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		next, matched, err := Step(recorderTable, r, []string{"flag"}, 0)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, 1, next)
		assert.Len(t, r.flags, 1)
	})

	t.Run("handler errors become invalid values", func(t *testing.T) {
		t.Parallel()
		_, _, err := Step(recorderTable, &recorder{}, []string{"FAIL", "x"}, 0)
		assert.True(t, errors.Is(err, ErrInvalidValue))
		assert.Contains(t, err.Error(), "boom")

		_, _, err = Step(recorderTable, &recorder{}, []string{"SIZE", "big"}, 0)
		assert.True(t, errors.Is(err, ErrInvalidValue))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "SIZE", perr.Keyword)
		assert.Equal(t, "big", perr.Token)
		assert.Equal(t, 1, perr.Position)
	})
}

func TestLoop(t *testing.T) {
	t.Parallel()

	t.Run("consumes the whole stream", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		tokens := []string{"SIZE", "3", "names", "x", "y", "FLAG"}
		next, err := Loop(recorderTable, r, tokens, 0)
		require.NoError(t, err)
		assert.Equal(t, len(tokens), next)
		assert.NoError(t, RequireEnd(tokens, next))
		assert.Equal(t, 3, r.size)
		assert.Equal(t, []string{"x", "y"}, r.names)
	})

	t.Run("stops at first unknown token", func(t *testing.T) {
		t.Parallel()
		tokens := []string{"SIZE", "3", "FOO", "1"}
		next, err := Loop(recorderTable, &recorder{}, tokens, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, next)

		err = RequireEnd(tokens, next)
		assert.True(t, errors.Is(err, ErrIncompleteConsumption))
		assert.True(t, errors.Is(err, ErrUnrecognizedCommand))
		assert.False(t, errors.Is(err, ErrMissingArguments))
		assert.Contains(t, err.Error(), "FOO")
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()
		r := &recorder{}
		_, err := Loop(recorderTable, r, []string{"SIZE", "1", "SIZE", "2"}, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, r.size)
	})

	t.Run("empty stream", func(t *testing.T) {
		t.Parallel()
		next, err := Loop(recorderTable, &recorder{}, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, next)
	})
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"true", "TRUE", "True"} {
		v, err := Bool(token)
		require.NoError(t, err)
		assert.True(t, v)
	}
	v, ok := ParseBool("false")
	assert.True(t, ok)
	assert.False(t, v)
	_, ok = ParseBool("yes")
	assert.False(t, ok)
	_, err := Bool("1")
	assert.True(t, errors.Is(err, ErrInvalidValue))

	n, err := Int("400")
	require.NoError(t, err)
	assert.Equal(t, 400, n)
	_, err = Int("4.5")
	assert.True(t, errors.Is(err, ErrInvalidValue))

	f, err := Float("0.5")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 1e-9)
	_, err = Float("half")
	assert.True(t, errors.Is(err, ErrInvalidValue))
	for _, token := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity"} {
		_, err = Float(token)
		assert.True(t, errors.Is(err, ErrInvalidValue), token)
	}
}

func TestParseError_Error(t *testing.T) {
	t.Parallel()

	err := &ParseError{Kind: KindMissingArguments, Keyword: "HEIGHT", Message: "HEIGHT expects 1 argument(s), got 0"}
	assert.Equal(t, "missing_arguments (HEIGHT): HEIGHT expects 1 argument(s), got 0", err.Error())

	wrapped := &ParseError{Kind: KindInvalidValue, Err: errors.New("bad")}
	assert.Equal(t, "invalid_value: bad", wrapped.Error())
	assert.True(t, errors.Is(EmptyBinClause(3), ErrEmptyBinClause))
}
