package shared

import (
	"strconv"
	"strings"
)

// Predicates accumulates WHERE clauses for list queries. Column names come from
// code; every user-supplied value is bound as a positional argument.
type Predicates struct {
	clauses []string
	args    []any
}

// Arg binds v and returns its placeholder.
func (p *Predicates) Arg(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Add appends a raw clause that must already reference its placeholders.
func (p *Predicates) Add(clause string) {
	p.clauses = append(p.clauses, clause)
}

// Equal adds "column = $n".
func (p *Predicates) Equal(column string, v any) {
	p.Add(column + " = " + p.Arg(v))
}

// Search matches term as a substring of any column, case-insensitively. An
// empty term adds nothing.
func (p *Predicates) Search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	ph := p.Arg("%" + EscapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + ph
	}
	p.Add("(" + strings.Join(parts, " OR ") + ")")
}

// Where renders the accumulated clauses, or "" when there are none.
func (p *Predicates) Where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// Args returns the bound values in placeholder order.
func (p *Predicates) Args() []any {
	return p.args
}

// EscapeLike escapes LIKE wildcards so term matches literally.
func EscapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
