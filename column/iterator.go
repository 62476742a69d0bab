package column

import "github.com/grafana/tracecol/sqlvalue"

// Iterator walks a column's values in RowMap order without going
// through Get row-by-row from the caller's side. It adds no semantics
// beyond Get/row_map(); it exists for a future Table/join layer that
// wants a cursor instead of index arithmetic (SUPPLEMENTED FEATURES).
type Iterator struct {
	col *Column
	row uint32
	n   uint32
}

// NewIterator returns an Iterator positioned before the first row of c.
func NewIterator(c *Column) *Iterator {
	return &Iterator{col: c, n: c.Size()}
}

// Next advances the iterator. It returns false once exhausted.
func (it *Iterator) Next() bool {
	if it.row >= it.n {
		return false
	}
	it.row++
	return true
}

// Value returns the value at the iterator's current row. Precondition:
// a prior call to Next returned true.
func (it *Iterator) Value() sqlvalue.Value {
	return it.col.Get(it.row - 1)
}

// StorageIndex returns the storage index the iterator's current row
// projects to, via the column's bound RowMap.
func (it *Iterator) StorageIndex() uint32 {
	return it.col.rowMap.Get(it.row - 1)
}
