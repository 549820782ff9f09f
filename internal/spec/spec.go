// Package spec holds the specification objects that turn optional list
// filters into queries and describe which filters are active.
package spec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atlekbai/timesheet/internal/query"
)

// Specification builds the query for a filtered list.
type Specification interface {
	Query() (query.Query, error)
	// FilterNames summarises the active filters, or returns "" when none is set.
	FilterNames() string
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func checkIdent(kind, name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

// filterNames renders the "Filters: A | B" summary.
func filterNames(active ...string) string {
	if len(active) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(active, " | ")
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
