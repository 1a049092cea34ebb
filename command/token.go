package command

import "strings"

const (
	// MagicPrefix introduces a control command in a cell.
	MagicPrefix = "%"
	// QueryDelimiter separates chart tokens from the query that feeds the chart.
	QueryDelimiter = "<>"
)

// sanitizer drops line terminators, NUL and the DOS end-of-file marker.
var sanitizer = strings.NewReplacer("\n", "", "\r", "", "\x00", "", "\x1A", "")

// Sanitize removes control characters that never belong to a command line.
func Sanitize(line string) string {
	return sanitizer.Replace(line)
}

// Tokenize splits a sanitized line on runs of whitespace.
func Tokenize(line string) []string {
	return strings.Fields(Sanitize(line))
}

// IsMagic reports whether line is a control command.
func IsMagic(line string) bool {
	return strings.HasPrefix(Sanitize(line), MagicPrefix)
}

// Line is a tokenized cell.
type Line struct {
	Tokens []string
	Magic  bool
}

// Keyword returns the first token, or "" for an empty line.
func (l Line) Keyword() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return l.Tokens[0]
}

// Parse tokenizes a cell. For magic lines the prefix is stripped and the
// command keyword is upper-cased; a bare "%" leaves an empty first token.
func Parse(line string) Line {
	tokens := Tokenize(line)
	magic := len(tokens) > 0 && strings.HasPrefix(tokens[0], MagicPrefix)
	if magic {
		tokens[0] = strings.ToUpper(strings.TrimPrefix(tokens[0], MagicPrefix))
	}
	return Line{Tokens: tokens, Magic: magic}
}

// SplitQuery splits tokens on the first QueryDelimiter. When the delimiter is
// absent chart holds every token and found is false.
func SplitQuery(tokens []string) (chart, query []string, found bool) {
	for i, token := range tokens {
		if token == QueryDelimiter {
			return tokens[:i], tokens[i+1:], true
		}
	}
	return tokens, nil, false
}

// JoinQuery rebuilds query text from its tokens with single spaces.
func JoinQuery(tokens []string) string {
	return strings.Join(tokens, " ")
}
