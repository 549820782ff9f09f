package spec

import (
	"fmt"
	"regexp"

	"github.com/atlekbai/timesheet/internal/query"
)

// SelectMax selects MAX(CAST(SUBSTR(Column, Start[, Length]) AS DataType) + Increment)
// over the rows of Table whose Column matches the LIKE Pattern.
type SelectMax struct {
	Column    string
	Start     int
	Length    int
	DataType  query.SQLiteType
	Increment int
	Table     string
	Pattern   string
}

func (s SelectMax) Query() (query.Query, error) {
	if err := checkIdent("column", s.Column); err != nil {
		return query.Query{}, err
	}
	if err := checkIdent("table", s.Table); err != nil {
		return query.Query{}, err
	}
	expr := query.Add(query.Cast(query.Substr(s.Column, s.Start, s.Length), s.DataType), s.Increment)
	return query.New().
		SelectMax(expr, "").
		From(s.Table).
		WhereLike(s.Column, s.Pattern).
		Build()
}

func (SelectMax) FilterNames() string { return "" }

var strftimeRe = regexp.MustCompile(`^(%[YmdHMSjWw]|[-/:. ])+$`)

// DistinctTime selects the distinct strftime(Format, Column) values of Table
// in ascending order, e.g. the years that have timesheets.
type DistinctTime struct {
	Column string
	Table  string
	Format string
}

func (s DistinctTime) Query() (query.Query, error) {
	if err := checkIdent("column", s.Column); err != nil {
		return query.Query{}, err
	}
	if err := checkIdent("table", s.Table); err != nil {
		return query.Query{}, err
	}
	if !strftimeRe.MatchString(s.Format) {
		return query.Query{}, fmt.Errorf("unsupported strftime format %q", s.Format)
	}
	return query.New().
		Select(fmt.Sprintf("DISTINCT strftime(%s, %s) AS Value", query.QuoteLit(s.Format), s.Column)).
		From(s.Table).
		OrderBy("Value", true).
		Build()
}

func (DistinctTime) FilterNames() string { return "" }
