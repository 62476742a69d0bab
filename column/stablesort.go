package column

// StableSort orders out — a vector of row positions in this column's
// current RowMap coordinates — by this column's values, preserving the
// relative order of rows with equal keys (spec §4.4 StableSort).
//
// Dispatch on ColumnType happens inside getAtStorageIdx, the same
// switch Get (and through it FilterInto's sorted fast-path) uses; the
// FilterInto slow paths dispatch with their own switch. StableSort
// itself only supplies the comparator and, for desc, negates it.
func (c *Column) StableSort(desc bool, out []uint32) {
	cmp := func(aStorageIdx, bStorageIdx uint32) int {
		return compareSqlValues(c.getAtStorageIdx(aStorageIdx), c.getAtStorageIdx(bStorageIdx))
	}
	if desc {
		inner := cmp
		cmp = func(a, b uint32) int { return -inner(a, b) }
	}
	c.rowMap.StableSort(out, cmp)
}
