package column

import (
	"github.com/grafana/tracecol/rowmap"
	"github.com/grafana/tracecol/sqlvalue"
)

// FilterInto narrows rm in place by the relational predicate (op, value),
// evaluated against this column's values, following the three-tier
// algorithm in priority order: the Id equality fast-path, the Sorted
// binary-search fast-path, and a type-specialized row-by-row scan
// (spec §4.4).
func (c *Column) FilterInto(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	if c.typ == sqlvalue.Id && op == sqlvalue.Eq {
		c.filterIntoIdEqFastPath(value, rm)
		return
	}

	if c.IsSorted() && isSortedFastPathOp(op) {
		if c.valueTypeMatches(value) {
			c.filterIntoSortedFastPath(op, value, rm)
			return
		}
		c.diag.Warnf("sorted_fastpath_type_mismatch", "column", c.name, "op", op.String(), "query_id", c.newQueryID())
	}

	switch c.typ {
	case sqlvalue.Int32:
		c.filterIntoInt32Slow(op, value, rm)
	case sqlvalue.Uint32:
		c.filterIntoUint32Slow(op, value, rm)
	case sqlvalue.Int64:
		c.filterIntoInt64Slow(op, value, rm)
	case sqlvalue.Str:
		c.filterIntoStringSlow(op, value, rm)
	case sqlvalue.Id:
		c.filterIntoIdSlow(op, value, rm)
	}
}

func isSortedFastPathOp(op sqlvalue.FilterOp) bool {
	switch op {
	case sqlvalue.Eq, sqlvalue.Le, sqlvalue.Lt, sqlvalue.Ge, sqlvalue.Gt:
		return true
	default:
		return false
	}
}

// valueTypeMatches reports whether value's tag matches this column's
// external type (Long for numeric/id, String for string). A mismatch
// here sends the caller through the sorted fast-path's fallthrough, not
// an error; FilterInto reports it to the Diagnostics sink (spec §4.4, §7).
func (c *Column) valueTypeMatches(value sqlvalue.Value) bool {
	switch c.typ {
	case sqlvalue.Int32, sqlvalue.Uint32, sqlvalue.Int64, sqlvalue.Id:
		return value.Type() == sqlvalue.TypeLong
	case sqlvalue.Str:
		return value.Type() == sqlvalue.TypeString
	default:
		return false
	}
}

func (c *Column) filterIntoIdEqFastPath(value sqlvalue.Value, rm *rowmap.RowMap) {
	idx, ok := c.IndexOf(value)
	if !ok {
		rm.Intersect(rowmap.Empty())
		return
	}
	rm.Intersect(rowmap.SingleRow(idx))
}

// filterIntoSortedFastPath performs a binary search over the virtual
// iterator [0, row_map().size()) whose k-th value is c.Get(k), using the
// lowerBound/upperBound free functions in place of an iterator object
// (spec §9).
func (c *Column) filterIntoSortedFastPath(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	n := c.rowMap.Size()
	cmp := func(k uint32) int { return compareSqlValues(c.Get(k), value) }

	var lb, ub uint32
	switch op {
	case sqlvalue.Eq:
		lb, ub = lowerBound(n, cmp), upperBound(n, cmp)
		rm.Intersect(rowmap.Range(lb, ub))
	case sqlvalue.Le:
		ub = upperBound(n, cmp)
		rm.Intersect(rowmap.Range(0, ub))
	case sqlvalue.Lt:
		lb = lowerBound(n, cmp)
		rm.Intersect(rowmap.Range(0, lb))
	case sqlvalue.Ge:
		lb = lowerBound(n, cmp)
		rm.Intersect(rowmap.Range(lb, n))
	case sqlvalue.Gt:
		ub = upperBound(n, cmp)
		rm.Intersect(rowmap.Range(ub, n))
	}
}

// compareSqlValues orders a against b following None < Some(_) and,
// for non-null same-type pairs, the natural order of the content.
// a and b are assumed to be comparable (same type, or a is null).
func compareSqlValues(a, b sqlvalue.Value) int {
	if a.IsNull() && b.IsNull() {
		return 0
	}
	if a.IsNull() {
		return -1
	}
	if b.IsNull() {
		return 1
	}
	switch a.Type() {
	case sqlvalue.TypeLong:
		switch {
		case a.Long() < b.Long():
			return -1
		case a.Long() > b.Long():
			return 1
		default:
			return 0
		}
	case sqlvalue.TypeString:
		switch {
		case a.Str() < b.Str():
			return -1
		case a.Str() > b.Str():
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
