package column

import (
	"github.com/grafana/tracecol/rowmap"
	"github.com/grafana/tracecol/sparsevector"
	"github.com/grafana/tracecol/sqlvalue"
	"github.com/grafana/tracecol/stringpool"
)

func (c *Column) filterIntoInt32Slow(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	filterNumericSlow(c.int32s, c.IsNullable(), op, value, rm)
}

func (c *Column) filterIntoUint32Slow(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	filterNumericSlow(c.uint32s, c.IsNullable(), op, value, rm)
}

func (c *Column) filterIntoInt64Slow(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	filterNumericSlow(c.int64s, c.IsNullable(), op, value, rm)
}

// filterNumericSlow implements the type-specialized slow path for the
// three numeric storage kinds (spec §4.4). The nullable arm always
// reads through Vector.Get (null-aware); the non-nullable arm always
// reads through Vector.GetNonNull. This follows the *semantics* spec.md
// §9 calls for rather than the source's literal, inverted arms — see
// the recorded Open Question decision in DESIGN.md.
func filterNumericSlow[T sparsevector.Cell](vec *sparsevector.Vector[T], nullable bool, op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	switch op {
	case sqlvalue.IsNull:
		if !nullable {
			rm.Intersect(rowmap.Empty())
			return
		}
		rm.FilterInto(func(idx uint32) bool {
			_, ok := vec.Get(idx)
			return !ok
		})
		return
	case sqlvalue.IsNotNull:
		if !nullable {
			return
		}
		rm.FilterInto(func(idx uint32) bool {
			_, ok := vec.Get(idx)
			return ok
		})
		return
	case sqlvalue.Like:
		rm.Intersect(rowmap.Empty())
		return
	}

	if value.Type() != sqlvalue.TypeLong {
		rm.Intersect(rowmap.Empty())
		return
	}
	target := value.Long()

	rm.FilterInto(func(idx uint32) bool {
		if nullable {
			v, ok := vec.Get(idx)
			if !ok {
				return compareNullAgainst(op)
			}
			return compareLongOp(op, int64(v), target)
		}
		return compareLongOp(op, int64(vec.GetNonNull(idx)), target)
	})
}

// compareNullAgainst reports whether a null cell satisfies op against
// any non-null target, under None < Some(_).
func compareNullAgainst(op sqlvalue.FilterOp) bool {
	switch op {
	case sqlvalue.Lt, sqlvalue.Le, sqlvalue.Ne:
		return true
	default:
		return false
	}
}

func compareLongOp(op sqlvalue.FilterOp, a, b int64) bool {
	switch op {
	case sqlvalue.Eq:
		return a == b
	case sqlvalue.Ne:
		return a != b
	case sqlvalue.Lt:
		return a < b
	case sqlvalue.Le:
		return a <= b
	case sqlvalue.Gt:
		return a > b
	case sqlvalue.Ge:
		return a >= b
	default:
		return false
	}
}

func (c *Column) filterIntoStringSlow(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	switch op {
	case sqlvalue.IsNull:
		rm.FilterInto(func(idx uint32) bool {
			return c.stringViewAt(idx).IsNull()
		})
		return
	case sqlvalue.IsNotNull:
		rm.FilterInto(func(idx uint32) bool {
			return !c.stringViewAt(idx).IsNull()
		})
		return
	case sqlvalue.Like:
		c.filterIntoLike(value, rm)
		return
	}

	if value.Type() != sqlvalue.TypeString {
		rm.Intersect(rowmap.Empty())
		return
	}
	target := value.Str()

	if op == sqlvalue.Eq || op == sqlvalue.Ne {
		if !c.pool.MayContain([]byte(target)) {
			// target is definitely absent from the pool: no row's
			// interned id can resolve to it.
			if op == sqlvalue.Eq {
				rm.Intersect(rowmap.Empty())
			}
			return
		}
	}

	rm.FilterInto(func(idx uint32) bool {
		cmp := c.stringViewAt(idx).Compare(stringViewOf(target))
		return compareLongOp(op, int64(cmp), 0)
	})
}

func (c *Column) filterIntoLike(value sqlvalue.Value, rm *rowmap.RowMap) {
	if c.matcher == nil {
		c.diag.Warnf("like_unsupported", "column", c.name, "query_id", c.newQueryID())
		return
	}
	if value.Type() != sqlvalue.TypeString {
		rm.Intersect(rowmap.Empty())
		return
	}
	pattern := value.Str()
	rm.FilterInto(func(idx uint32) bool {
		view := c.stringViewAt(idx)
		if view.IsNull() {
			return false
		}
		return c.matcher.Match(view.String(), pattern)
	})
}

func (c *Column) stringViewAt(idx uint32) stringpool.View {
	id, ok := c.strs.Get(idx)
	if !ok {
		return stringpool.View{}
	}
	return c.pool.Get(id)
}

// stringViewOf wraps a plain Go string as a stringpool.View for
// comparison purposes, without going through any pool. The result is
// always a non-null view, even for the empty string: LIKE/relational
// constraint values are never the null sentinel (that's IsNull/
// IsNotNull's job).
func stringViewOf(s string) stringpool.View {
	b := make([]byte, len(s))
	copy(b, s)
	return stringpool.ViewOf(b)
}

func (c *Column) filterIntoIdSlow(op sqlvalue.FilterOp, value sqlvalue.Value, rm *rowmap.RowMap) {
	switch op {
	case sqlvalue.IsNull:
		rm.Intersect(rowmap.Empty())
		return
	case sqlvalue.IsNotNull:
		return
	case sqlvalue.Like:
		rm.Intersect(rowmap.Empty())
		return
	}
	if value.Type() != sqlvalue.TypeLong {
		rm.Intersect(rowmap.Empty())
		return
	}
	target := value.Long()
	rm.FilterInto(func(idx uint32) bool {
		return compareLongOp(op, int64(idx), target)
	})
}
