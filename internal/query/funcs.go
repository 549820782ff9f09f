package query

import (
	"fmt"
	"strings"
)

// SQLiteType is a storage class usable in CAST expressions.
type SQLiteType int

const (
	Integer SQLiteType = iota
	Real
	Text
	Numeric
	Blob
)

func (t SQLiteType) String() string {
	switch t {
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	case Numeric:
		return "NUMERIC"
	case Blob:
		return "BLOB"
	default:
		return "INTEGER"
	}
}

// Add returns "expr + v".
func Add(expr string, v any) string {
	return fmt.Sprintf("%s + %v", expr, v)
}

// Cast returns "CAST(expr AS TYPE)".
func Cast(expr string, t SQLiteType) string {
	return fmt.Sprintf("CAST(%s AS %s)", expr, t)
}

// Substr returns SUBSTR(column, start) or SUBSTR(column, start, length) when
// length is positive. A negative start counts from the end of the string.
func Substr(column string, start, length int) string {
	if length > 0 {
		return fmt.Sprintf("SUBSTR(%s, %d, %d)", column, start, length)
	}
	return fmt.Sprintf("SUBSTR(%s, %d)", column, start)
}

// Lower returns LOWER(expr).
func Lower(expr string) string {
	return "LOWER(" + expr + ")"
}

// QuoteLit wraps s in single quotes for use as a SQL string literal.
func QuoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
