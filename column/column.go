// Package column implements Column, the typed, nullable-or-not view over
// a storage vector projected through a RowMap (spec §4.4). It is the
// entry point query execution narrows and sorts through.
package column

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/grafana/tracecol/rowmap"
	"github.com/grafana/tracecol/sparsevector"
	"github.com/grafana/tracecol/sqlvalue"
	"github.com/grafana/tracecol/stringpool"
)

// Column binds a name, a ColumnType, a flags set, a reference to backing
// storage, and a RowMap view borrowed from the owning table. It holds no
// owning references; its only mutable state transition is construction
// followed by immutable queryability (spec §4.5).
type Column struct {
	name   string
	typ    sqlvalue.ColumnType
	flags  Flags
	colIdx int
	rowMap *rowmap.RowMap

	int32s  *sparsevector.Vector[int32]
	uint32s *sparsevector.Vector[uint32]
	int64s  *sparsevector.Vector[int64]
	strs    *sparsevector.Vector[stringpool.ID]
	pool    *stringpool.Pool

	diag    Diagnostics
	matcher PatternMatcher
}

// Option configures optional collaborators at construction time.
type Option func(*Column)

// WithDiagnostics overrides the default no-op diagnostics sink.
func WithDiagnostics(d Diagnostics) Option {
	return func(c *Column) { c.diag = d }
}

// WithPatternMatcher supplies the collaborator used for LIKE. Absent
// this option, LIKE is a logged no-op (spec §4.4, §6, §7).
func WithPatternMatcher(m PatternMatcher) Option {
	return func(c *Column) { c.matcher = m }
}

func newColumn(name string, typ sqlvalue.ColumnType, flags Flags, rm *rowmap.RowMap, colIdx int, opts []Option) *Column {
	c := &Column{
		name:   name,
		typ:    typ,
		flags:  flags,
		colIdx: colIdx,
		rowMap: rm,
		diag:   NoopDiagnostics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewInt32Column constructs a column backed by a Vector[int32].
func NewInt32Column(name string, storage *sparsevector.Vector[int32], flags Flags, rm *rowmap.RowMap, colIdx int, opts ...Option) *Column {
	c := newColumn(name, sqlvalue.Int32, flags, rm, colIdx, opts)
	c.int32s = storage
	return c
}

// NewUint32Column constructs a column backed by a Vector[uint32].
func NewUint32Column(name string, storage *sparsevector.Vector[uint32], flags Flags, rm *rowmap.RowMap, colIdx int, opts ...Option) *Column {
	c := newColumn(name, sqlvalue.Uint32, flags, rm, colIdx, opts)
	c.uint32s = storage
	return c
}

// NewInt64Column constructs a column backed by a Vector[int64].
func NewInt64Column(name string, storage *sparsevector.Vector[int64], flags Flags, rm *rowmap.RowMap, colIdx int, opts ...Option) *Column {
	c := newColumn(name, sqlvalue.Int64, flags, rm, colIdx, opts)
	c.int64s = storage
	return c
}

// NewStringColumn constructs a column backed by a Vector[stringpool.ID]
// plus the shared pool that resolves ids to views.
func NewStringColumn(name string, storage *sparsevector.Vector[stringpool.ID], pool *stringpool.Pool, flags Flags, rm *rowmap.RowMap, colIdx int, opts ...Option) *Column {
	c := newColumn(name, sqlvalue.Str, flags, rm, colIdx, opts)
	c.strs = storage
	c.pool = pool
	return c
}

// NewIdColumn constructs a synthetic identity column: no backing
// storage, implicitly NonNull and Sorted, value at row r is
// rm.Get(r) itself (spec §4.4).
func NewIdColumn(rm *rowmap.RowMap, colIdx int, opts ...Option) *Column {
	return newColumn("id", sqlvalue.Id, Sorted|NonNull, rm, colIdx, opts)
}

// Rebind constructs a new Column sharing from's storage, bound to a
// different table's RowMap and column index (spec §4.4 "Rebound").
func Rebind(from *Column, rm *rowmap.RowMap, colIdx int) *Column {
	c := &Column{
		name:    from.name,
		typ:     from.typ,
		flags:   from.flags,
		colIdx:  colIdx,
		rowMap:  rm,
		int32s:  from.int32s,
		uint32s: from.uint32s,
		int64s:  from.int64s,
		strs:    from.strs,
		pool:    from.pool,
		diag:    from.diag,
		matcher: from.matcher,
	}
	if c.diag == nil {
		c.diag = NoopDiagnostics
	}
	return c
}

func (c *Column) Name() string             { return c.name }
func (c *Column) Type() sqlvalue.ColumnType { return c.typ }
func (c *Column) ColIdx() int              { return c.colIdx }
func (c *Column) IsId() bool               { return c.typ == sqlvalue.Id }
func (c *Column) IsSorted() bool           { return c.flags.Has(Sorted) }
func (c *Column) IsNullable() bool         { return !c.flags.Has(NonNull) }
func (c *Column) RowMap() *rowmap.RowMap   { return c.rowMap }

// Eq, Ne, ... return Constraints bound to this column's index.
func (c *Column) Eq(v sqlvalue.Value) Constraint { return Eq(c.colIdx, v) }
func (c *Column) Ne(v sqlvalue.Value) Constraint { return Ne(c.colIdx, v) }
func (c *Column) Lt(v sqlvalue.Value) Constraint { return Lt(c.colIdx, v) }
func (c *Column) Le(v sqlvalue.Value) Constraint { return Le(c.colIdx, v) }
func (c *Column) Gt(v sqlvalue.Value) Constraint { return Gt(c.colIdx, v) }
func (c *Column) Ge(v sqlvalue.Value) Constraint { return Ge(c.colIdx, v) }
func (c *Column) IsNullConstraint() Constraint    { return IsNull(c.colIdx) }
func (c *Column) IsNotNullConstraint() Constraint { return IsNotNull(c.colIdx) }
func (c *Column) JoinKey() JoinKey                { return NewJoinKey(c.colIdx) }

// Get returns the value at row row, in this column's current RowMap
// coordinates (spec §4.4 Get).
func (c *Column) Get(row uint32) sqlvalue.Value {
	return c.getAtStorageIdx(c.rowMap.Get(row))
}

func (c *Column) getAtStorageIdx(storageIdx uint32) sqlvalue.Value {
	switch c.typ {
	case sqlvalue.Id:
		return sqlvalue.Long(int64(storageIdx))
	case sqlvalue.Int32:
		v, ok := c.int32s.Get(storageIdx)
		if !ok {
			return sqlvalue.Null()
		}
		return sqlvalue.Long(int64(v))
	case sqlvalue.Uint32:
		v, ok := c.uint32s.Get(storageIdx)
		if !ok {
			return sqlvalue.Null()
		}
		return sqlvalue.Long(int64(v))
	case sqlvalue.Int64:
		v, ok := c.int64s.Get(storageIdx)
		if !ok {
			return sqlvalue.Null()
		}
		return sqlvalue.Long(v)
	case sqlvalue.Str:
		id, ok := c.strs.Get(storageIdx)
		if !ok {
			return sqlvalue.Null()
		}
		view := c.pool.Get(id)
		if view.IsNull() {
			return sqlvalue.Null()
		}
		return sqlvalue.String(view.String())
	default:
		panic(fmt.Sprintf("column: Get: unhandled column type %v", c.typ))
	}
}

// IndexOf returns the row (in this column's RowMap coordinates) whose
// value equals value, if any (spec §4.4 IndexOf).
func (c *Column) IndexOf(value sqlvalue.Value) (uint32, bool) {
	if c.typ == sqlvalue.Id {
		if value.Type() != sqlvalue.TypeLong {
			return 0, false
		}
		return c.rowMap.IndexOf(uint32(value.Long()))
	}
	if c.typ == sqlvalue.Str {
		if value.Type() != sqlvalue.TypeString {
			return 0, false
		}
		if !c.pool.MayContain([]byte(value.Str())) {
			return 0, false
		}
	}

	n := c.rowMap.Size()
	for k := uint32(0); k < n; k++ {
		if c.Get(k).Equal(value) {
			return k, true
		}
	}
	return 0, false
}

// Size returns the number of rows visible through this column's RowMap.
func (c *Column) Size() uint32 { return c.rowMap.Size() }

func (c *Column) newQueryID() string { return uuid.NewString() }
