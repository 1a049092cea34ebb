package sqlkernel

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/nao1215/sqlkernel/command"
	"github.com/nao1215/sqlkernel/vegalite"
)

// sqlKeywords are offered when completing raw SQL.
var sqlKeywords = []string{
	"ALTER", "AND", "AS", "ASC", "ATTACH", "BEGIN", "BETWEEN", "BY", "CASE",
	"COMMIT", "COUNT", "CREATE", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE",
	"END", "EXISTS", "FROM", "GROUP", "HAVING", "IN", "INDEX", "INSERT", "INTO",
	"IS", "JOIN", "LEFT", "LIKE", "LIMIT", "NOT", "NULL", "OFFSET", "ON", "OR",
	"ORDER", "PRAGMA", "ROLLBACK", "SELECT", "SET", "TABLE", "THEN", "UNION",
	"UPDATE", "VALUES", "VIEW", "WHEN", "WHERE", "WITH",
}

// CompleteReply holds completion candidates for the word that ends at the
// cursor. CursorStart and CursorEnd are rune offsets of that word.
type CompleteReply struct {
	Matches     []string
	CursorStart int
	CursorEnd   int
}

// Complete suggests keywords for the word before cursor, a rune offset into
// code. Magic cells complete magic and chart keywords; SQL cells complete SQL
// keywords and the tables of the current database. After X_FIELD or Y_FIELD
// the column names of every table are offered instead.
func (k *Kernel) Complete(ctx context.Context, code string, cursor int) CompleteReply {
	runes := []rune(code)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	word := string(runes[start:cursor])
	reply := CompleteReply{Matches: []string{}, CursorStart: start, CursorEnd: cursor}
	if word == "" {
		return reply
	}

	var candidates []string
	switch {
	case command.IsMagic(code) && isFieldKeyword(previousWord(runes[:start])):
		candidates = k.columnNames(ctx)
	case command.IsMagic(code) && strings.HasPrefix(word, command.MagicPrefix):
		for _, keyword := range MagicKeywords() {
			candidates = append(candidates, command.MagicPrefix+keyword)
		}
	case command.IsMagic(code):
		candidates = append(candidates, vegalite.Keywords()...)
	default:
		candidates = append(candidates, sqlKeywords...)
		candidates = append(candidates, k.tableNames(ctx)...)
	}
	seen := make(map[string]bool)
	upper := strings.ToUpper(word)
	for _, candidate := range candidates {
		if seen[candidate] || !strings.HasPrefix(strings.ToUpper(candidate), upper) {
			continue
		}
		seen[candidate] = true
		reply.Matches = append(reply.Matches, candidate)
	}
	sort.Strings(reply.Matches)
	return reply
}

func (k *Kernel) tableNames(ctx context.Context) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.db == nil {
		return nil
	}
	names, err := k.db.Tables(ctx)
	if err != nil {
		k.logger.Debugw("table completion unavailable", "error", err)
		return nil
	}
	return names
}

func (k *Kernel) columnNames(ctx context.Context) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.db == nil {
		return nil
	}
	tables, err := k.db.Tables(ctx)
	if err != nil {
		k.logger.Debugw("column completion unavailable", "error", err)
		return nil
	}
	var names []string
	for _, table := range tables {
		columns, err := k.db.Columns(ctx, table)
		if err != nil {
			k.logger.Debugw("column completion unavailable", "table", table, "error", err)
			continue
		}
		names = append(names, columns...)
	}
	return names
}

// previousWord returns the last whitespace separated token of before.
func previousWord(before []rune) string {
	fields := strings.Fields(string(before))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func isFieldKeyword(word string) bool {
	return strings.EqualFold(word, "X_FIELD") || strings.EqualFold(word, "Y_FIELD")
}

func isWordRune(r rune) bool {
	return r == '_' || r == '%' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
