package malloc

import "sort"
import "sync"
import "unsafe"

import "github.com/bnclabs/gomalloc/api"

// span is a page-aligned run of contiguous pages obtained from the
// OS. A span is either wholly free, linked under freespans, or carved
// into blocks owned by the central and thread caches.
type span struct {
	addr     uintptr
	numpages int64
	next     *span // chains free spans of the same page count
}

// pageCache hands out page-aligned spans and reclaims returned spans,
// merging each with its forward neighbor when that neighbor is free.
// A single mutex serializes all operations.
type pageCache struct {
	mu        sync.Mutex
	mapper    api.Mapper
	freespans map[int64]*span // page count -> free list head
	sizes     []int64         // sorted page counts present in freespans
	spanmap   map[uintptr]*span
	regions   map[uintptr][]byte // os mappings, for Release
	mapped    int64              // pages obtained from the OS
}

func newPagecache(mapper api.Mapper) *pageCache {
	return &pageCache{
		mapper:    mapper,
		freespans: make(map[int64]*span),
		sizes:     make([]int64, 0, 8),
		spanmap:   make(map[uintptr]*span),
		regions:   make(map[uintptr][]byte),
	}
}

// allocspan return the starting address of a span of exactly
// `numpages` pages, nil if the OS denies memory. Best-fit over the
// free spans, splitting when the fit is not exact.
func (pc *pageCache) allocspan(numpages int64) unsafe.Pointer {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.spanmap == nil {
		panic(ErrorReleased)
	}
	idx := sort.Search(len(pc.sizes), func(i int) bool {
		return pc.sizes[i] >= numpages
	})
	if idx < len(pc.sizes) {
		sp := pc.detachhead(pc.sizes[idx])
		if sp.numpages > numpages { // split off the high pages
			rest := &span{
				addr:     sp.addr + uintptr(numpages*Pagesize),
				numpages: sp.numpages - numpages,
			}
			pc.spanmap[rest.addr] = rest
			pc.pushfree(rest)
			sp.numpages = numpages
		}
		pc.spanmap[sp.addr] = sp
		return unsafe.Pointer(sp.addr)
	}

	block, err := pc.mapper.Map(numpages * Pagesize)
	if err != nil {
		errorf("pagecache.allocspan(%v pages): %v\n", numpages, err)
		return nil
	}
	addr := uintptr(unsafe.Pointer(&block[0]))
	sp := &span{addr: addr, numpages: numpages}
	pc.spanmap[addr] = sp
	pc.regions[addr] = block
	pc.mapped += numpages
	debugf("pagecache mapped %v pages at %x\n", numpages, addr)
	return unsafe.Pointer(sp.addr)
}

// freespan reclaim the span starting at `ptr`. Addresses not mapped
// by this cache are ignored. If the immediate forward neighbor is a
// free span, the two merge before the span is indexed free again.
func (pc *pageCache) freespan(ptr unsafe.Pointer, numpages int64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.spanmap == nil {
		panic(ErrorReleased)
	}
	sp, ok := pc.spanmap[uintptr(ptr)]
	if !ok {
		return
	}
	nextaddr := sp.addr + uintptr(numpages*Pagesize)
	if neighbor, ok := pc.spanmap[nextaddr]; ok && pc.unlinkfree(neighbor) {
		sp.numpages += neighbor.numpages
		delete(pc.spanmap, nextaddr)
	}
	pc.pushfree(sp)
}

// detachhead unlink and return the head span of the free list keyed
// by `pages`, dropping the key when the list empties.
func (pc *pageCache) detachhead(pages int64) *span {
	sp := pc.freespans[pages]
	if sp.next != nil {
		pc.freespans[pages] = sp.next
	} else {
		delete(pc.freespans, pages)
		pc.dropsize(pages)
	}
	sp.next = nil
	return sp
}

// pushfree insert span at the head of the free list for its page
// count.
func (pc *pageCache) pushfree(sp *span) {
	head, ok := pc.freespans[sp.numpages]
	if !ok {
		pc.addsize(sp.numpages)
	}
	sp.next = head
	pc.freespans[sp.numpages] = sp
}

// unlinkfree remove span from the free list it is linked under,
// false when the span is not free.
func (pc *pageCache) unlinkfree(sp *span) bool {
	head, ok := pc.freespans[sp.numpages]
	if !ok {
		return false
	}
	if head == sp {
		pc.detachhead(sp.numpages)
		return true
	}
	for prev := head; prev.next != nil; prev = prev.next {
		if prev.next == sp {
			prev.next = sp.next
			sp.next = nil
			return true
		}
	}
	return false
}

func (pc *pageCache) addsize(pages int64) {
	idx := sort.Search(len(pc.sizes), func(i int) bool {
		return pc.sizes[i] >= pages
	})
	pc.sizes = append(pc.sizes, 0)
	copy(pc.sizes[idx+1:], pc.sizes[idx:])
	pc.sizes[idx] = pages
}

func (pc *pageCache) dropsize(pages int64) {
	idx := sort.Search(len(pc.sizes), func(i int) bool {
		return pc.sizes[i] >= pages
	})
	if idx < len(pc.sizes) && pc.sizes[idx] == pages {
		pc.sizes = append(pc.sizes[:idx], pc.sizes[idx+1:]...)
	}
}

// Info return number of spans tracked, number of free spans and
// total pages obtained from the OS.
func (pc *pageCache) Info() (spans, freespans, mappedpages int64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	spans = int64(len(pc.spanmap))
	for _, head := range pc.freespans {
		for sp := head; sp != nil; sp = sp.next {
			freespans++
		}
	}
	return spans, freespans, pc.mapped
}

// release unmap every region obtained from the OS. Caller shall make
// sure no block carved from this cache is still live.
func (pc *pageCache) release() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	for addr, block := range pc.regions {
		if err := pc.mapper.Unmap(block); err != nil {
			errorf("pagecache.release(%x): %v\n", addr, err)
		}
	}
	pc.freespans, pc.sizes = nil, nil
	pc.spanmap, pc.regions = nil, nil
	pc.mapped = 0
}
