package column

import "github.com/grafana/tracecol/sqlvalue"

// Constraint is a lightweight data constructor pairing a column index, a
// relational operator, and the comparison value (spec §4.4 "Derived
// helpers"). It carries no state or behavior of its own.
type Constraint struct {
	ColIdx int
	Op     sqlvalue.FilterOp
	Value  sqlvalue.Value
}

func Eq(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Eq, v} }
func Ne(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Ne, v} }
func Lt(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Lt, v} }
func Le(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Le, v} }
func Gt(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Gt, v} }
func Ge(colIdx int, v sqlvalue.Value) Constraint        { return Constraint{colIdx, sqlvalue.Ge, v} }
func IsNull(colIdx int) Constraint                      { return Constraint{colIdx, sqlvalue.IsNull, sqlvalue.Null()} }
func IsNotNull(colIdx int) Constraint                   { return Constraint{colIdx, sqlvalue.IsNotNull, sqlvalue.Null()} }
func LikeConstraint(colIdx int, pattern string) Constraint {
	return Constraint{colIdx, sqlvalue.Like, sqlvalue.String(pattern)}
}

// Order is a lightweight data constructor for an ORDER BY term.
type Order struct {
	ColIdx int
	Desc   bool
}

func Ascending(colIdx int) Order  { return Order{colIdx, false} }
func Descending(colIdx int) Order { return Order{colIdx, true} }

// JoinKey names a column usable as an equality join key.
type JoinKey struct {
	ColIdx int
}

func NewJoinKey(colIdx int) JoinKey { return JoinKey{colIdx} }
