package column

// Flags is a bitset of per-column properties (spec §3).
type Flags uint8

const (
	// Sorted marks that values, read under the identity RowMap, are
	// non-decreasing according to the column's comparison semantics.
	Sorted Flags = 1 << iota
	// NonNull marks that no cell of the backing storage is null. Only
	// meaningful for numeric types; string and id columns ignore it.
	NonNull
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
