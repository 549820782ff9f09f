package query

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectDefaults(t *testing.T) {
	q, err := New().From("Clients").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Clients", q.SQL())
	assert.Empty(t, q.Args())
}

func TestBuildRequiresTable(t *testing.T) {
	_, err := New().Select("Id").Build()
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestBuildClauseOrder(t *testing.T) {
	q, err := New().
		Select("p.ClientId", "SUM(p.HourlyWage) AS Total").
		From("Projects p").
		LeftJoin("Clients c", "p.ClientId", "c.Id").
		Where("p.HourlyWage", OpGt, 10).
		GroupBy("p.ClientId").
		Having("SUM(p.HourlyWage) > ?", 100).
		OrderBy("Total", false).
		Limit(5).
		Offset(10).
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT p.ClientId, SUM(p.HourlyWage) AS Total FROM Projects p"+
			" LEFT JOIN Clients c ON p.ClientId = c.Id"+
			" WHERE p.HourlyWage > ?"+
			" GROUP BY p.ClientId"+
			" HAVING SUM(p.HourlyWage) > ?"+
			" ORDER BY Total DESC"+
			" LIMIT 5 OFFSET 10",
		q.SQL())
	assert.Equal(t, []any{10, 100}, q.Args())
}

func TestBuildWhereConnectors(t *testing.T) {
	q, err := New().
		From("Timesheets t").
		Where("t.ProjectId", OpEq, 1).
		OrWhere("t.ProjectId", OpEq, 2).
		WhereNull("t.Note").
		WhereNotNull("t.StatusId").
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM Timesheets t WHERE t.ProjectId = ? OR t.ProjectId = ? AND t.Note IS NULL AND t.StatusId IS NOT NULL",
		q.SQL())
	assert.Equal(t, []any{1, 2}, q.Args())
}

func TestWhereInExpandsPlaceholders(t *testing.T) {
	q, err := New().From("Timesheets").WhereIn("StatusId", 1, 3, 4).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Timesheets WHERE StatusId IN (?,?,?)", q.SQL())
	assert.Equal(t, []any{1, 3, 4}, q.Args())
}

func TestWhereInEmptyMatchesNothing(t *testing.T) {
	q, err := New().From("Timesheets").WhereIn("StatusId").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Timesheets WHERE (1=0)", q.SQL())
	assert.Empty(t, q.Args())
}

func TestWhereBetweenAndLike(t *testing.T) {
	q, err := New().
		From("Invoices").
		WhereBetween("IssueDate", "2024-01-01", "2024-01-31").
		WhereLike("Number", "INV-2024-01%").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Invoices WHERE IssueDate BETWEEN ? AND ? AND Number LIKE ?", q.SQL())
	assert.Equal(t, []any{"2024-01-01", "2024-01-31", "INV-2024-01%"}, q.Args())
}

func TestWhereExprUsesSquirrel(t *testing.T) {
	q, err := New().
		From("Clients").
		Where("Id", OpGt, 0).
		WhereExpr(sq.Or{sq.Eq{"Name": "Acme"}, sq.Eq{"ContactName": nil}}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Clients WHERE Id > ? AND ((Name = ? OR ContactName IS NULL))", q.SQL())
	assert.Equal(t, []any{0, "Acme"}, q.Args())
}

func TestUnknownOperatorFails(t *testing.T) {
	_, err := New().From("Clients").Where("Id", Op("~="), 1).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestOperatorIsNormalized(t *testing.T) {
	q, err := New().From("Clients").Where("Name", "like", "a%").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Clients WHERE Name LIKE ?", q.SQL())
}

func TestNegativeLimitFails(t *testing.T) {
	_, err := New().From("Clients").Limit(-1).Build()
	assert.ErrorContains(t, err, "negative limit")
}

func TestNegativeOffsetFails(t *testing.T) {
	_, err := New().From("Clients").Offset(-1).Build()
	assert.ErrorContains(t, err, "negative offset")
}

func TestQuotedQuestionMarkIsNotPlaceholder(t *testing.T) {
	q, err := New().
		Select("'?' AS Mark", "Name").
		From("Clients").
		Where("Name", OpNeq, "?").
		WhereExpr(sq.Expr("Note <> '?' AND Id > ?", 3)).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT '?' AS Mark, Name FROM Clients WHERE Name != ? AND (Note <> '?' AND Id > ?)", q.SQL())
	assert.Equal(t, []any{"?", 3}, q.Args())
}

func TestHavingPlaceholderMismatchFails(t *testing.T) {
	_, err := New().From("Projects").GroupBy("ClientId").Having("COUNT(*) > ? AND SUM(HourlyWage) > ?", 1).Build()
	assert.ErrorContains(t, err, "2 placeholders but 1 arguments")
}

func TestJoinTypes(t *testing.T) {
	q, err := New().
		From("a").
		InnerJoin("b", "a.Id", "b.AId").
		RightJoin("c", "a.Id", "c.AId").
		FullJoin("d", "a.Id", "d.AId").
		Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM a INNER JOIN b ON a.Id = b.AId RIGHT JOIN c ON a.Id = c.AId FULL OUTER JOIN d ON a.Id = d.AId",
		q.SQL())
}

func TestSelectAllReplacesColumns(t *testing.T) {
	q, err := New().Select("Id", "Name").SelectAll().From("Clients").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Clients", q.SQL())
}

func TestSelectMaxWithFuncs(t *testing.T) {
	expr := Add(Cast(Substr("Number", -3, 0), Integer), 1)
	q, err := New().SelectMax(expr, "").From("Invoices").WhereLike("Number", "INV-2024-05%").Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT MAX(CAST(SUBSTR(Number, -3) AS INTEGER) + 1) FROM Invoices WHERE Number LIKE ?",
		q.SQL())
}

func TestPlaceholderCountMatchesArgs(t *testing.T) {
	b := New().From("Timesheets t").
		Where("t.ProjectId", OpEq, 7).
		WhereIn("t.StatusId", 1, 2).
		WhereBetween("t.Date", "a", "b").
		WhereNull("t.Note").
		OrWhere("t.Id", OpLt, 100).
		Having("COUNT(*) > ?", 1)
	q, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, strings.Count(q.SQL(), "?"), len(q.Args()))
	assert.Equal(t, []any{7, 1, 2, "a", "b", 100, 1}, q.Args())
}

func TestQueryArgsAreCopied(t *testing.T) {
	q, err := New().From("Clients").Where("Id", OpEq, 1).Build()
	require.NoError(t, err)
	args := q.Args()
	args[0] = 99
	assert.Equal(t, []any{1}, q.Args())
}

func TestCountAndRebind(t *testing.T) {
	q, err := New().From("Clients").Where("Id", OpGt, 1).WhereLike("Name", "a%").Build()
	require.NoError(t, err)

	count, err := q.Count()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT * FROM Clients WHERE Id > ? AND Name LIKE ?) AS q", count.SQL())
	assert.Equal(t, q.Args(), count.Args())

	pg, err := q.Rebind(sq.Dollar)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Clients WHERE Id > $1 AND Name LIKE $2", pg.SQL())
	assert.Equal(t, q.Args(), pg.Args())
}

func TestPage(t *testing.T) {
	q, err := New().From("Clients").Where("Id", OpGt, 1).Build()
	require.NoError(t, err)

	unpaged, err := q.Page(0, 0)
	require.NoError(t, err)
	assert.Equal(t, q.SQL(), unpaged.SQL())

	both, err := q.Page(10, 20)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM Clients WHERE Id > ?) AS q LIMIT 10 OFFSET 20", both.SQL())
	assert.Equal(t, []any{1}, both.Args())

	offsetOnly, err := q.Page(0, 5)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM Clients WHERE Id > ?) AS q LIMIT -1 OFFSET 5", offsetOnly.SQL())

	limitOnly, err := q.Page(10, 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM Clients WHERE Id > ?) AS q LIMIT 10", limitOnly.SQL())
}
