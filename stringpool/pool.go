// Package stringpool interns variable-length byte strings into small
// integer ids, the shared (process/database-level) backing store string
// columns use (spec §4.1).
package stringpool

import (
	"hash/maphash"
	"strconv"
	"sync"

	"github.com/FastFilter/xorfilter"
	"github.com/klauspost/compress/s2"
	"golang.org/x/sync/singleflight"
)

// ID is a small integer handle returned by Intern. Its zero value is a
// valid id for whatever string was interned first; NullID is the
// reserved sentinel that never gets assigned.
type ID uint32

// NullID is the id string columns store to mean "this row is null,"
// distinguishing it from the id of an interned empty string.
const NullID ID = ^ID(0)

// compressPageBytes is the raw-byte threshold above which a sealed page
// is s2-compressed in memory. Pages below this are kept raw: the fixed
// overhead of a compressed block isn't worth paying for small pages.
const compressPageBytes = 16 * 1024

type entry struct {
	page   int32
	offset int32
	length int32
}

type page struct {
	mu           sync.Mutex
	raw          []byte // nil once sealed and compressed
	compressed   []byte // nil while page is open or too small to compress
	decompressed []byte // lazily rebuilt cache once compressed
}

func (p *page) bytes(sf *singleflight.Group, key string) []byte {
	p.mu.Lock()
	if p.raw != nil {
		b := p.raw
		p.mu.Unlock()
		return b
	}
	if p.decompressed != nil {
		b := p.decompressed
		p.mu.Unlock()
		return b
	}
	compressed := p.compressed
	p.mu.Unlock()

	if compressed == nil {
		// Never sealed and raw is nil: every entry backed by this page
		// was a zero-length append (raw stays nil either way), never an
		// unsealed non-empty page. There's nothing to decompress.
		return []byte{}
	}

	v, _, _ := sf.Do(key, func() (interface{}, error) {
		out, err := s2.Decode(nil, compressed)
		if err != nil {
			// Corrupt in-memory state is a programmer error, not a
			// recoverable query-level condition: the pool never wrote
			// anything it can't read back.
			panic("stringpool: corrupt compressed page: " + err.Error())
		}
		p.mu.Lock()
		p.decompressed = out
		p.mu.Unlock()
		return out, nil
	})
	return v.([]byte)
}

// Pool interns byte strings and hands back small integer ids. The zero
// value is not usable; construct with New.
type Pool struct {
	mu      sync.RWMutex
	dict    map[string]ID
	entries []entry
	pages   []*page
	openPg  int32 // index of the page currently accepting appends

	sf      singleflight.Group
	seed    maphash.Seed
	filter  *xorfilter.Xor8
	version int64 // bumped on every successful Intern of a new string
	builtAt int64 // version the current filter was built against
}

// New creates an empty Pool.
func New() *Pool {
	p := &Pool{
		dict: make(map[string]ID),
		seed: maphash.MakeSeed(),
	}
	p.pages = append(p.pages, &page{})
	return p
}

// Intern returns the id for b, interning it if this is the first time b
// has been seen. Intern is idempotent: repeated calls with equal content
// return the same id.
func (p *Pool) Intern(b []byte) ID {
	key := string(b) // one copy; used both as the dict key and the stored bytes

	p.mu.RLock()
	if id, ok := p.dict[key]; ok {
		p.mu.RUnlock()
		return id
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.dict[key]; ok {
		return id
	}

	pg := p.pages[p.openPg]
	pg.mu.Lock()
	offset := len(pg.raw)
	pg.raw = append(pg.raw, key...)
	length := len(key)
	sealed := false
	if len(pg.raw) >= compressPageBytes {
		p.sealLocked(pg)
		sealed = true
	}
	pg.mu.Unlock()

	id := ID(len(p.entries))
	p.entries = append(p.entries, entry{page: p.openPg, offset: int32(offset), length: int32(length)})
	p.dict[key] = id
	p.version++

	if sealed {
		p.pages = append(p.pages, &page{})
		p.openPg++
	}
	return id
}

// sealLocked compresses pg.raw into pg.compressed and drops the raw
// copy. Caller must hold pg.mu.
func (p *Pool) sealLocked(pg *page) {
	pg.compressed = s2.Encode(nil, pg.raw)
	pg.raw = nil
}

// Get returns the view for id, or the null sentinel view for NullID or
// any id this pool never issued.
func (p *Pool) Get(id ID) View {
	if id == NullID {
		return View{}
	}
	p.mu.RLock()
	if int(id) >= len(p.entries) {
		p.mu.RUnlock()
		return View{}
	}
	e := p.entries[id]
	pg := p.pages[e.page]
	p.mu.RUnlock()

	buf := pg.bytes(&p.sf, pageKey(e.page))
	return View{data: buf[e.offset : e.offset+e.length]}
}

func pageKey(idx int32) string {
	return "page:" + strconv.Itoa(int(idx))
}

// MayContain reports whether b could be an interned string in this pool.
// A false result means b is definitely not interned; a true result may
// be a false positive. The underlying filter is rebuilt lazily (and
// coalesced via singleflight) whenever the pool has grown since it was
// last built, mirroring the block-level presence filters the teacher's
// executor layer hand-rolls with hash/fnv — here backed by a real xor
// filter.
func (p *Pool) MayContain(b []byte) bool {
	filter, err := p.filterFor(b)
	if err != nil || filter == nil {
		// No usable filter (e.g. empty pool, or build failed after
		// retries inside xorfilter for a pathological key set): fall
		// back to "might be present" so callers always fall through to
		// a correct, if slower, scan.
		return true
	}
	return filter.Contains(p.hash(b))
}

func (p *Pool) hash(b []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(p.seed)
	_, _ = h.Write(b)
	return h.Sum64()
}

func (p *Pool) filterFor(_ []byte) (*xorfilter.Xor8, error) {
	p.mu.RLock()
	if p.filter != nil && p.builtAt == p.version {
		f := p.filter
		p.mu.RUnlock()
		return f, nil
	}
	version := p.version
	entries := p.entries
	p.mu.RUnlock()

	if len(entries) == 0 {
		return nil, nil
	}

	v, err, _ := p.sf.Do("filter", func() (interface{}, error) {
		keys := make([]uint64, 0, len(entries))
		for id := range entries {
			view := p.Get(ID(id))
			keys = append(keys, p.hash(view.Bytes()))
		}
		f, err := xorfilter.Populate(keys)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.filter = f
		p.builtAt = version
		p.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*xorfilter.Xor8), nil
}
