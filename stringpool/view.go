package stringpool

import "bytes"

// View is a byte-slice view onto an interned string (no trailing nul
// byte is stored). A View whose
// Bytes() is nil denotes "no string" — the null marker string columns
// use (spec §4.1).
type View struct {
	data []byte
}

// ViewOf wraps raw bytes as a View without interning them, for
// comparing a caller-supplied value against pool-backed views.
func ViewOf(b []byte) View { return View{data: b} }

// IsNull reports whether this view is the null sentinel. A view of an
// interned empty string is not null.
func (v View) IsNull() bool { return v.data == nil }

// Bytes returns the view's backing bytes, or nil for the null sentinel.
// Callers must not mutate the returned slice: it may be a shared,
// decompressed page buffer.
func (v View) Bytes() []byte { return v.data }

// String renders the view as a Go string. The null sentinel renders as
// the empty string; callers that need to distinguish null from the
// empty string must check IsNull first.
func (v View) String() string {
	if v.data == nil {
		return ""
	}
	return string(v.data)
}

// Compare orders views lexicographically by byte content. A null view
// compares less than any stored view, including the stored empty
// string, per spec §4.1.
func (v View) Compare(other View) int {
	if v.data == nil && other.data == nil {
		return 0
	}
	if v.data == nil {
		return -1
	}
	if other.data == nil {
		return 1
	}
	return bytes.Compare(v.data, other.data)
}
