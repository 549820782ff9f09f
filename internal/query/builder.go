package query

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ErrNoTable is returned by Build when From was never called.
var ErrNoTable = errors.New("query: table name must be specified using From")

// JoinType selects the SQL join flavour.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

func (t JoinType) String() string {
	switch t {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL OUTER JOIN"
	default:
		return "INNER JOIN"
	}
}

const (
	connAnd = "AND"
	connOr  = "OR"
)

// condition is one WHERE predicate and the connector placed before it.
// Grouped predicates are wrapped in parentheses.
type condition struct {
	connector string
	pred      sq.Sqlizer
	grouped   bool
}

type joinClause struct {
	table string
	typ   JoinType
	left  string
	right string
}

// Builder accumulates the parts of a SELECT statement and renders them with
// squirrel. Every value is bound through a "?" placeholder; Build returns the
// SQL text together with the arguments in placeholder order.
type Builder struct {
	columns    []string
	table      string
	joins      []joinClause
	where      []condition
	groupBy    []string
	having     string
	havingArgs []any
	orderBy    []string
	limit      *int
	offset     *int
	errs       []error
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Select appends columns or expressions to the select list.
func (b *Builder) Select(columns ...string) *Builder {
	b.columns = append(b.columns, columns...)
	return b
}

// SelectAll replaces the select list with "*".
func (b *Builder) SelectAll() *Builder {
	b.columns = append(b.columns[:0], "*")
	return b
}

// SelectMax appends MAX(expr), aliased when alias is non-empty.
func (b *Builder) SelectMax(expr, alias string) *Builder {
	return b.selectAggregate("MAX", expr, alias)
}

// SelectMin appends MIN(expr), aliased when alias is non-empty.
func (b *Builder) SelectMin(expr, alias string) *Builder {
	return b.selectAggregate("MIN", expr, alias)
}

// SelectSum appends SUM(expr), aliased when alias is non-empty.
func (b *Builder) SelectSum(expr, alias string) *Builder {
	return b.selectAggregate("SUM", expr, alias)
}

// SelectCount appends COUNT(expr), aliased when alias is non-empty.
func (b *Builder) SelectCount(expr, alias string) *Builder {
	return b.selectAggregate("COUNT", expr, alias)
}

func (b *Builder) selectAggregate(fn, expr, alias string) *Builder {
	agg := fmt.Sprintf("%s(%s)", fn, expr)
	if alias != "" {
		agg += " AS " + alias
	}
	b.columns = append(b.columns, agg)
	return b
}

// From sets the source table. The table may carry an alias ("Timesheets t").
func (b *Builder) From(table string) *Builder {
	b.table = table
	return b
}

// Where adds "column op ?" joined with AND.
func (b *Builder) Where(column string, op Op, value any) *Builder {
	return b.addSimple(connAnd, column, op, value)
}

// OrWhere adds "column op ?" joined with OR.
func (b *Builder) OrWhere(column string, op Op, value any) *Builder {
	return b.addSimple(connOr, column, op, value)
}

func (b *Builder) addSimple(conn, column string, op Op, value any) *Builder {
	op = op.normalize()
	if !op.Valid() {
		b.errs = append(b.errs, fmt.Errorf("query: unknown operator %q for column %s", string(op), column))
	}
	return b.add(conn, sq.Expr(column+" "+string(op)+" ?", value))
}

// WhereLike adds "column LIKE ?". The pattern is bound as given, wildcards included.
func (b *Builder) WhereLike(column, pattern string) *Builder {
	return b.add(connAnd, sq.Like{column: pattern})
}

// WhereIn adds "column IN (?,...)" with one placeholder per value.
// An empty value list renders "(1=0)" and matches nothing.
func (b *Builder) WhereIn(column string, values ...any) *Builder {
	if values == nil {
		values = []any{}
	}
	return b.add(connAnd, sq.Eq{column: values})
}

// WhereBetween adds "column BETWEEN ? AND ?".
func (b *Builder) WhereBetween(column string, start, end any) *Builder {
	return b.add(connAnd, sq.Expr(column+" BETWEEN ? AND ?", start, end))
}

// WhereNull adds "column IS NULL".
func (b *Builder) WhereNull(column string) *Builder {
	return b.add(connAnd, sq.Eq{column: nil})
}

// WhereNotNull adds "column IS NOT NULL".
func (b *Builder) WhereNotNull(column string) *Builder {
	return b.add(connAnd, sq.NotEq{column: nil})
}

// WhereExpr adds a parenthesised squirrel condition joined with AND. The
// condition must render with "?" placeholders.
func (b *Builder) WhereExpr(cond sq.Sqlizer) *Builder {
	b.where = append(b.where, condition{connector: connAnd, pred: cond, grouped: true})
	return b
}

func (b *Builder) add(conn string, pred sq.Sqlizer) *Builder {
	b.where = append(b.where, condition{connector: conn, pred: pred})
	return b
}

// Join adds "<type> table ON left = right".
func (b *Builder) Join(table, left, right string, typ JoinType) *Builder {
	b.joins = append(b.joins, joinClause{table: table, typ: typ, left: left, right: right})
	return b
}

// InnerJoin is Join with JoinInner.
func (b *Builder) InnerJoin(table, left, right string) *Builder {
	return b.Join(table, left, right, JoinInner)
}

// LeftJoin is Join with JoinLeft.
func (b *Builder) LeftJoin(table, left, right string) *Builder {
	return b.Join(table, left, right, JoinLeft)
}

// RightJoin is Join with JoinRight.
func (b *Builder) RightJoin(table, left, right string) *Builder {
	return b.Join(table, left, right, JoinRight)
}

// FullJoin is Join with JoinFull.
func (b *Builder) FullJoin(table, left, right string) *Builder {
	return b.Join(table, left, right, JoinFull)
}

// OrderBy appends an ordering column.
func (b *Builder) OrderBy(column string, ascending bool) *Builder {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	b.orderBy = append(b.orderBy, column+" "+dir)
	return b
}

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

// Having sets the HAVING clause. Its placeholders are bound after the WHERE arguments.
func (b *Builder) Having(clause string, args ...any) *Builder {
	b.having = clause
	b.havingArgs = args
	return b
}

// Limit sets the LIMIT.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		b.errs = append(b.errs, fmt.Errorf("query: negative limit %d", n))
	}
	b.limit = &n
	return b
}

// Offset sets the OFFSET.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		b.errs = append(b.errs, fmt.Errorf("query: negative offset %d", n))
	}
	b.offset = &n
	return b
}

// Build renders the statement.
func (b *Builder) Build() (Query, error) {
	if len(b.errs) > 0 {
		return Query{}, errors.Join(b.errs...)
	}
	if b.table == "" {
		return Query{}, ErrNoTable
	}

	columns := b.columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	sel := sq.Select(columns...).From(b.table)

	for _, j := range b.joins {
		sel = sel.JoinClause(fmt.Sprintf("%s %s ON %s = %s", j.typ, j.table, j.left, j.right))
	}

	if len(b.where) > 0 {
		where, err := b.whereExpr()
		if err != nil {
			return Query{}, err
		}
		sel = sel.Where(where)
	}

	if len(b.groupBy) > 0 {
		sel = sel.GroupBy(b.groupBy...)
	}
	if b.having != "" {
		if err := checkPlaceholders(b.having, b.havingArgs); err != nil {
			return Query{}, err
		}
		sel = sel.Having(b.having, b.havingArgs...)
	}
	if len(b.orderBy) > 0 {
		sel = sel.OrderBy(b.orderBy...)
	}
	if b.limit != nil {
		sel = sel.Limit(uint64(*b.limit))
	}
	if b.offset != nil {
		sel = sel.Offset(uint64(*b.offset))
	}
	return newQuery(sel)
}

// whereExpr joins the conditions left to right with their connectors into
// one expression.
func (b *Builder) whereExpr() (sq.Sqlizer, error) {
	var (
		sb   strings.Builder
		args []any
	)
	for i, c := range b.where {
		clause, cargs, err := c.pred.ToSql()
		if err != nil {
			return nil, fmt.Errorf("query: where condition: %w", err)
		}
		if err := checkPlaceholders(clause, cargs); err != nil {
			return nil, err
		}
		if i > 0 {
			sb.WriteString(" " + c.connector + " ")
		}
		if c.grouped {
			clause = "(" + clause + ")"
		}
		sb.WriteString(clause)
		args = append(args, cargs...)
	}
	return sq.Expr(sb.String(), args...), nil
}

// checkPlaceholders verifies that clause binds exactly len(args) values.
func checkPlaceholders(clause string, args []any) error {
	if n := placeholders(clause); n != len(args) {
		return fmt.Errorf("query: %d placeholders but %d arguments in %q", n, len(args), clause)
	}
	return nil
}

// placeholders counts the "?" markers of clause outside quoted literals.
func placeholders(clause string) int {
	var (
		n     int
		quote rune
	)
	for _, r := range clause {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
		}
	}
	return n
}
