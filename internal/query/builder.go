// Package query assembles parameterized SQL. Clauses are written with '?'
// placeholders; Build renumbers them to PostgreSQL's $1..$n so callers never
// track argument positions by hand. Values never reach the SQL text.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Builder accumulates clauses and their arguments.
type Builder struct {
	clauses []string
	args    []any
}

// Add appends a clause whose '?' markers are bound to args in order.
func (b *Builder) Add(clause string, args ...any) *Builder {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
	return b
}

// Len returns the number of clauses added.
func (b *Builder) Len() int {
	return len(b.clauses)
}

// Build joins the clauses with sep between head and tail, appends tailArgs
// for markers in tail, and numbers every marker. It fails when the number
// of markers and arguments differ.
func (b *Builder) Build(head, sep, tail string, tailArgs ...any) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString(strings.Join(b.clauses, sep))
	sb.WriteString(tail)

	args := make([]any, 0, len(b.args)+len(tailArgs))
	args = append(args, b.args...)
	args = append(args, tailArgs...)

	sql, err := Number(sb.String(), len(args))
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

// Number replaces each '?' in sql with $1, $2, ... and checks that exactly
// nargs markers were present.
func Number(sql string, nargs int) (string, error) {
	var (
		sb strings.Builder
		n  int
	)
	sb.Grow(len(sql) + nargs*2)
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			sb.WriteByte(sql[i])
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	if n != nargs {
		return "", fmt.Errorf("query: %d placeholders but %d arguments", n, nargs)
	}
	return sb.String(), nil
}
