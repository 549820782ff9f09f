package query

import (
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
)

// Query is a rendered statement: SQL text with "?" placeholders and the
// arguments bound to them, in order. A Query is never modified after Build.
type Query struct {
	sel  sq.SelectBuilder
	sql  string
	args []any
}

func newQuery(sel sq.SelectBuilder) (Query, error) {
	sql, args, err := sel.ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("query: render: %w", err)
	}
	return Query{sel: sel, sql: sql, args: args}, nil
}

// SQL returns the statement text.
func (q Query) SQL() string { return q.sql }

// Args returns a copy of the bound arguments.
func (q Query) Args() []any { return slices.Clone(q.args) }

// String renders the query for logs.
func (q Query) String() string {
	return fmt.Sprintf("%s %v", q.sql, q.args)
}

// Count wraps the query so it returns the number of rows it would produce.
func (q Query) Count() (Query, error) {
	return newQuery(sq.Select("COUNT(*)").FromSelect(q.sel, "q"))
}

// Page wraps the query to return at most limit rows after skipping offset.
// A limit of zero or less means no limit.
func (q Query) Page(limit, offset int) (Query, error) {
	if limit <= 0 && offset <= 0 {
		return q, nil
	}
	sel := sq.Select("*").FromSelect(q.sel, "q")
	switch {
	case limit <= 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		sel = sel.Suffix(fmt.Sprintf("LIMIT -1 OFFSET %d", offset))
	case offset <= 0:
		sel = sel.Limit(uint64(limit))
	default:
		sel = sel.Limit(uint64(limit)).Offset(uint64(offset))
	}
	return newQuery(sel)
}

// Rebind renders the query with the given squirrel placeholder format,
// e.g. sq.Dollar for "$1, $2".
func (q Query) Rebind(format sq.PlaceholderFormat) (Query, error) {
	return newQuery(q.sel.PlaceholderFormat(format))
}
