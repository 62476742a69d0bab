// Package rowmap implements RowMap, the compact representation of a
// subset/permutation of the integer range [0, N) that Column operations
// narrow and sort through (spec §4.3).
package rowmap

import "sort"

type kind uint8

const (
	kindRange kind = iota
	kindBitmap
	kindIndices
)

// RowMap is a strictly increasing sequence of storage indices, or — when
// handed to StableSort as the caller's own index vector rather than as a
// RowMap value — a permutation of such a sequence. Three internal
// representations exist (range, bitmap, explicit indices); which one a
// given RowMap uses is never observable except by cost (spec §9).
type RowMap struct {
	kind kind

	// kindRange
	start, end uint32

	// kindBitmap: bit i (0-based) represents storage index bitOffset+i.
	bitOffset uint32
	bitLen    uint32
	bits      []uint64

	// kindIndices: strictly increasing storage indices.
	indices []uint32
}

// Range returns the RowMap covering storage indices [a, b).
func Range(a, b uint32) RowMap {
	if b <= a {
		return Empty()
	}
	return RowMap{kind: kindRange, start: a, end: b}
}

// SingleRow returns the RowMap containing only storage index i.
func SingleRow(i uint32) RowMap {
	return RowMap{kind: kindRange, start: i, end: i + 1}
}

// Empty returns the RowMap containing no storage indices.
func Empty() RowMap {
	return RowMap{kind: kindRange, start: 0, end: 0}
}

// All returns the identity RowMap over [0, n).
func All(n uint32) RowMap {
	return Range(0, n)
}

// Size returns the number of storage indices in the map.
func (rm RowMap) Size() uint32 {
	switch rm.kind {
	case kindRange:
		return rm.end - rm.start
	case kindBitmap:
		return popcountWords(rm.bits)
	case kindIndices:
		return uint32(len(rm.indices))
	default:
		return 0
	}
}

// Get returns the storage index at position k. Precondition: k < Size().
func (rm RowMap) Get(k uint32) uint32 {
	switch rm.kind {
	case kindRange:
		return rm.start + k
	case kindBitmap:
		return rm.bitOffset + nthSetBit(rm.bits, k)
	case kindIndices:
		return rm.indices[k]
	default:
		panic("rowmap: Get on invalid RowMap")
	}
}

// IndexOf returns the position k such that Get(k) == storageIdx, if any.
func (rm RowMap) IndexOf(storageIdx uint32) (uint32, bool) {
	switch rm.kind {
	case kindRange:
		if storageIdx < rm.start || storageIdx >= rm.end {
			return 0, false
		}
		return storageIdx - rm.start, true
	case kindBitmap:
		if storageIdx < rm.bitOffset || storageIdx >= rm.bitOffset+rm.bitLen {
			return 0, false
		}
		rel := storageIdx - rm.bitOffset
		if !isBitSet(rm.bits, rel) {
			return 0, false
		}
		return rankBefore(rm.bits, rel), true
	case kindIndices:
		i := sort.Search(len(rm.indices), func(i int) bool { return rm.indices[i] >= storageIdx })
		if i < len(rm.indices) && rm.indices[i] == storageIdx {
			return uint32(i), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// FilterInto narrows rm in place, keeping only positions k for which
// pred(Get(k)) holds. Order is preserved: this is a stable filter.
func (rm *RowMap) FilterInto(pred func(storageIdx uint32) bool) {
	n := rm.Size()
	kept := make([]uint32, 0, n)
	for k := uint32(0); k < n; k++ {
		idx := rm.Get(k)
		if pred(idx) {
			kept = append(kept, idx)
		}
	}
	*rm = normalize(kept)
}

// Intersect narrows rm in place by composing it with other: other's
// values are interpreted as positions into rm (not as storage-index
// values in their own right), so the result's k-th storage index is
// rm.Get(other.Get(k)).
//
// This resolves a genuine ambiguity in the source header: the two call
// sites that use Intersect (the Id equality fast-path and the Sorted
// binary-search fast-path) always build `other` out of positions into
// the *current* row_map, not absolute storage indices. Treating
// Intersect as a plain value-set intersection is only correct when rm
// happens to be the identity map; treating it as position-composition
// is correct in general and collapses to value-set intersection exactly
// when rm is the identity, which is why the two read the same in every
// example in spec.md §8. See DESIGN.md.
func (rm *RowMap) Intersect(other RowMap) {
	n := other.Size()
	composed := make([]uint32, 0, n)
	for k := uint32(0); k < n; k++ {
		pos := other.Get(k)
		if pos >= rm.Size() {
			panic("rowmap: Intersect: other references a position outside rm")
		}
		composed = append(composed, rm.Get(pos))
	}
	*rm = normalize(composed)
}

// StableSort sorts out — a caller-owned vector of positions in rm's
// coordinate space — stably, according to cmp applied to the storage
// indices those positions project to. Equal keys retain their relative
// order in out.
func (rm RowMap) StableSort(out []uint32, cmp func(aStorageIdx, bStorageIdx uint32) int) {
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(rm.Get(out[i]), rm.Get(out[j])) < 0
	})
}

func normalize(storageIndices []uint32) RowMap {
	if len(storageIndices) == 0 {
		return Empty()
	}

	contiguous := true
	for i := 1; i < len(storageIndices); i++ {
		if storageIndices[i] != storageIndices[i-1]+1 {
			contiguous = false
			break
		}
	}
	if contiguous {
		return Range(storageIndices[0], storageIndices[len(storageIndices)-1]+1)
	}

	span := storageIndices[len(storageIndices)-1] - storageIndices[0] + 1
	// Promote to a bitmap once the kept set covers at least half of its
	// own span; otherwise an explicit index vector is cheaper. This
	// mirrors the promotion the source leaves as an internal, cost-only
	// decision (spec §9).
	if uint64(len(storageIndices))*2 >= uint64(span) {
		bm := RowMap{
			kind:      kindBitmap,
			bitOffset: storageIndices[0],
			bitLen:    span,
			bits:      make([]uint64, (span+63)/64),
		}
		for _, s := range storageIndices {
			setBit(bm.bits, s-bm.bitOffset)
		}
		return bm
	}

	return RowMap{kind: kindIndices, indices: storageIndices}
}

func setBit(words []uint64, i uint32) {
	words[i/64] |= 1 << (i % 64)
}

func isBitSet(words []uint64, i uint32) bool {
	return words[i/64]&(1<<(i%64)) != 0
}

func popcountWords(words []uint64) uint32 {
	var n uint32
	for _, w := range words {
		n += uint32(popcount64(w))
	}
	return n
}

func popcount64(w uint64) int {
	count := 0
	for w != 0 {
		w &= w - 1
		count++
	}
	return count
}

// rankBefore returns the number of set bits at positions < i.
func rankBefore(words []uint64, i uint32) uint32 {
	var rank uint32
	wordIdx := i / 64
	for w := uint32(0); w < wordIdx; w++ {
		rank += uint32(popcount64(words[w]))
	}
	bit := i % 64
	if bit > 0 {
		mask := uint64(1)<<bit - 1
		rank += uint32(popcount64(words[wordIdx] & mask))
	}
	return rank
}

// nthSetBit returns the storage-relative position of the n-th (0-based)
// set bit.
func nthSetBit(words []uint64, n uint32) uint32 {
	remaining := n
	for wi, w := range words {
		c := uint32(popcount64(w))
		if remaining < c {
			for bit := uint32(0); bit < 64; bit++ {
				if w&(1<<bit) != 0 {
					if remaining == 0 {
						return uint32(wi)*64 + bit
					}
					remaining--
				}
			}
		}
		remaining -= c
	}
	panic("rowmap: nthSetBit: n out of range")
}
