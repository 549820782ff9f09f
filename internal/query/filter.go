package query

import "strings"

// Op is a comparison operator accepted by Where and OrWhere.
type Op string

const (
	OpEq      Op = "="
	OpNeq     Op = "!="
	OpLtGt    Op = "<>"
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpLike    Op = "LIKE"
	OpNotLike Op = "NOT LIKE"
)

var validOps = map[Op]bool{
	OpEq: true, OpNeq: true, OpLtGt: true, OpGt: true, OpGte: true,
	OpLt: true, OpLte: true, OpLike: true, OpNotLike: true,
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	return validOps[op]
}

func (op Op) normalize() Op {
	return Op(strings.ToUpper(strings.TrimSpace(string(op))))
}
