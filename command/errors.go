package command

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind classifies a ParseError.
type Kind string

// Parse error kinds
const (
	KindMissingArguments      Kind = "missing_arguments"
	KindInvalidValue          Kind = "invalid_value"
	KindUnrecognizedCommand   Kind = "unrecognized_command"
	KindIncompleteConsumption Kind = "incomplete_consumption"
	KindEmptyBinClause        Kind = "empty_bin_clause"
)

var (
	// ErrEmptyInput is returned when a line holds no tokens
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingArguments is matched by errors for keywords lacking arguments
	ErrMissingArguments = errors.New("missing arguments")

	// ErrInvalidValue is matched by errors for tokens outside an accepted set
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnrecognizedCommand is matched by errors for unknown keywords
	ErrUnrecognizedCommand = errors.New("unrecognized command")

	// ErrIncompleteConsumption is matched when a line has unparsed trailing tokens
	ErrIncompleteConsumption = errors.New("incomplete consumption")

	// ErrEmptyBinClause is matched when BIN is followed by neither a boolean nor a bin attribute
	ErrEmptyBinClause = errors.New("empty bin clause")
)

var kindSentinels = map[Kind]error{
	KindMissingArguments:      ErrMissingArguments,
	KindInvalidValue:          ErrInvalidValue,
	KindUnrecognizedCommand:   ErrUnrecognizedCommand,
	KindIncompleteConsumption: ErrIncompleteConsumption,
	KindEmptyBinClause:        ErrEmptyBinClause,
}

// ParseError is a structured failure raised while parsing a command line.
type ParseError struct {
	Kind Kind
	// Keyword is the command whose arguments failed, if any.
	Keyword string
	// Token is the offending token, if any.
	Token    string
	Position int
	Message  string
	Err      error
}

// Error implements error.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Keyword != "" {
		b.WriteString(" (")
		b.WriteString(e.Keyword)
		b.WriteString(")")
	}
	switch {
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *ParseError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// InvalidValue reports that token is not one of the accepted literals.
func InvalidValue(token string, pos int, accepted ...string) *ParseError {
	msg := fmt.Sprintf("%q is not a valid value", token)
	switch len(accepted) {
	case 0:
	case 1:
		msg += ", expected " + accepted[0]
	default:
		msg += ", expected one of " + strings.Join(accepted, ", ")
	}
	return &ParseError{
		Kind:     KindInvalidValue,
		Token:    token,
		Position: pos,
		Message:  msg,
	}
}

// EmptyBinClause reports a BIN keyword that set nothing.
func EmptyBinClause(pos int) *ParseError {
	return &ParseError{
		Kind:     KindEmptyBinClause,
		Keyword:  "BIN",
		Position: pos,
		Message:  "BIN must be followed by TRUE, FALSE or at least one bin attribute",
	}
}

// UnrecognizedCommand reports a keyword missing from the active table.
func UnrecognizedCommand(token string, pos int) *ParseError {
	return &ParseError{
		Kind:     KindUnrecognizedCommand,
		Token:    token,
		Position: pos,
		Message:  fmt.Sprintf("unknown command %q", token),
	}
}

func missingMessage(keyword string, want, got int) string {
	return fmt.Sprintf("%s expects %d argument(s), got %d", keyword, want, got)
}
