package malloc

import "runtime"
import "sync/atomic"
import "unsafe"

// centralCache holds one free list of uniform blocks per size-class,
// shared by every thread-cache of a Malloc instance. Each list is
// guarded by its own spin lock; operations on different size-classes
// proceed independently. Lists grow by carving spans obtained from
// the page-cache.
type centralCache struct {
	freelists [Freelistsize]unsafe.Pointer // heads, atomic access
	locks     [Freelistsize]int32          // per size-class spin locks
	pages     *pageCache
	spanpages int64
}

func newCentralcache(pages *pageCache, spanpages int64) *centralCache {
	return &centralCache{pages: pages, spanpages: spanpages}
}

// lock spin on the size-class flag, yielding to the scheduler
// between attempts. CAS acquire pairs with the releasing store in
// unlock, so the winner observes every write published by the
// previous holder.
func (cc *centralCache) lock(index int) {
	for !atomic.CompareAndSwapInt32(&cc.locks[index], 0, 1) {
		runtime.Gosched()
	}
}

func (cc *centralCache) unlock(index int) {
	atomic.StoreInt32(&cc.locks[index], 0)
}

// fetchrange detach up to `batchnum` blocks from the size-class list
// and return the head of the detached chain, nil terminated. When the
// list is empty a fresh span is carved; the chain may then be shorter
// than `batchnum` only if the span holds fewer blocks. Returns nil if
// the page-cache cannot supply a span.
func (cc *centralCache) fetchrange(index int, batchnum int64) unsafe.Pointer {
	if index >= Freelistsize || batchnum == 0 {
		return nil
	}

	cc.lock(index)
	defer cc.unlock(index)

	head := atomic.LoadPointer(&cc.freelists[index])
	if head == nil {
		return cc.carvespan(index, batchnum)
	}

	// detach the first batchnum blocks, fewer if the list is shorter.
	var prev unsafe.Pointer
	current, count := head, int64(0)
	for current != nil && count < batchnum {
		prev = current
		current = nextblock(current)
		count++
	}
	if prev != nil {
		setnextblock(prev, nil)
	}
	atomic.StorePointer(&cc.freelists[index], current)
	return head
}

// carvespan obtain a span from the page-cache, slice it into blocks
// of the size-class, chain the first `batchnum` blocks for the caller
// and park the remainder as the new list head. Caller holds the
// size-class lock.
func (cc *centralCache) carvespan(index int, batchnum int64) unsafe.Pointer {
	blocksize := Blocksize(index)
	base, numpages := cc.fetchpages(blocksize)
	if base == nil {
		return nil
	}

	addr := uintptr(base)
	totalblocks := (numpages * Pagesize) / blocksize
	alloc := batchnum
	if totalblocks < alloc {
		alloc = totalblocks
	}
	for i := int64(1); i < alloc; i++ {
		current := unsafe.Pointer(addr + uintptr((i-1)*blocksize))
		setnextblock(current, unsafe.Pointer(addr+uintptr(i*blocksize)))
	}
	setnextblock(unsafe.Pointer(addr+uintptr((alloc-1)*blocksize)), nil)

	if totalblocks > alloc {
		remain := unsafe.Pointer(addr + uintptr(alloc*blocksize))
		for i := alloc + 1; i < totalblocks; i++ {
			current := unsafe.Pointer(addr + uintptr((i-1)*blocksize))
			setnextblock(current, unsafe.Pointer(addr+uintptr(i*blocksize)))
		}
		setnextblock(unsafe.Pointer(addr+uintptr((totalblocks-1)*blocksize)), nil)
		atomic.StorePointer(&cc.freelists[index], remain)
	}
	return base
}

// returnrange splice a chain of `count` free blocks back at the head
// of the size-class list. The chain is self-describing, traversal
// stops at the first nil successor or at `count`, whichever comes
// first.
func (cc *centralCache) returnrange(head unsafe.Pointer, count int64, index int) {
	if head == nil || index >= Freelistsize {
		return
	}

	cc.lock(index)
	defer cc.unlock(index)

	tail, n := head, int64(1)
	for nextblock(tail) != nil && n < count {
		tail = nextblock(tail)
		n++
	}
	setnextblock(tail, atomic.LoadPointer(&cc.freelists[index]))
	atomic.StorePointer(&cc.freelists[index], head)
}

// fetchpages request a span from the page-cache: the instance's
// configured span pages ("spanpages" setting) when the block fits one, otherwise just enough pages to hold
// a single block.
func (cc *centralCache) fetchpages(blocksize int64) (unsafe.Pointer, int64) {
	numpages := (blocksize + Pagesize - 1) / Pagesize
	if blocksize <= cc.spanpages*Pagesize {
		numpages = cc.spanpages
	}
	return cc.pages.allocspan(numpages), numpages
}
