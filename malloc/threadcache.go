package malloc

import "unsafe"

import "github.com/bnclabs/gomalloc/api"

// ThreadCache serves the hot allocate/free path without any
// synchronization. Create one per worker routine with
// (*Malloc).NewCache() and let no other routine touch it. Refills
// from and spills to the central-cache in size-class batches.
type ThreadCache struct {
	freelists     [Freelistsize]unsafe.Pointer
	freelistsizes [Freelistsize]int64
	m             *Malloc
}

var _ api.Cacher = (*ThreadCache)(nil)

// Alloc implement api.Mallocer{} interface. Returns a 64-bit aligned
// block of at least `n` bytes, nil if the OS denies memory. Requests
// above Maxbytes bypass the caches and go to the host allocator.
func (tc *ThreadCache) Alloc(n int64) unsafe.Pointer {
	if n == 0 {
		n = Alignment
	}
	if n > Maxbytes {
		return hostalloc(n)
	}
	index := Blockindex(n)
	if ptr := tc.freelists[index]; ptr != nil {
		tc.freelists[index] = nextblock(ptr)
		tc.freelistsizes[index]--
		return ptr
	}
	return tc.fetchcentral(index)
}

// Free implement api.Mallocer{} interface. `n` shall equal the size
// passed to the Alloc call that returned `ptr`. When the size-class
// list grows past the instance's return threshold, three quarters of
// it spill to the central-cache.
func (tc *ThreadCache) Free(ptr unsafe.Pointer, n int64) {
	if ptr == nil {
		panicerr("malloc.Free(): nil pointer")
	}
	if n > Maxbytes {
		hostfree(ptr)
		return
	}
	index := Blockindex(n)
	setnextblock(ptr, tc.freelists[index])
	tc.freelists[index] = ptr
	tc.freelistsizes[index]++
	if tc.freelistsizes[index] > tc.m.returnthreshold {
		tc.spillcentral(index)
	}
}

// Release implement api.Mallocer{} interface. Drain every free list
// back to the central-cache. The cache is reusable afterwards, blocks
// held by it are not.
func (tc *ThreadCache) Release() {
	for index := 0; index < Freelistsize; index++ {
		if head := tc.freelists[index]; head != nil {
			tc.m.central.returnrange(head, tc.freelistsizes[index], index)
			tc.freelists[index], tc.freelistsizes[index] = nil, 0
		}
	}
}

// Info return the number of blocks and bytes parked in this cache.
func (tc *ThreadCache) Info() (blocks, bytes int64) {
	for index := 0; index < Freelistsize; index++ {
		if n := tc.freelistsizes[index]; n > 0 {
			blocks += n
			bytes += n * Blocksize(index)
		}
	}
	return blocks, bytes
}

// fetchcentral pull a batch of blocks for the size-class, park all
// but the first and return it. The list length is advanced by the
// chain length actually received, the central-cache may return fewer
// blocks than the batch asks for.
func (tc *ThreadCache) fetchcentral(index int) unsafe.Pointer {
	blocksize := Blocksize(index)
	batchnum := batchsize(blocksize, tc.m.batchmaxbytes)
	head := tc.m.central.fetchrange(index, batchnum)
	if head == nil {
		return nil
	}
	received := int64(1)
	for blk := nextblock(head); blk != nil; blk = nextblock(blk) {
		received++
	}
	tc.freelists[index] = nextblock(head)
	tc.freelistsizes[index] += received - 1
	return head
}

// spillcentral keep a quarter of the size-class list, at least one
// block, and return the rest to the central-cache in one chain.
func (tc *ThreadCache) spillcentral(index int) {
	n := tc.freelistsizes[index]
	if n <= 1 {
		return
	}
	keep := n / 4
	if keep < 1 {
		keep = 1
	}
	returncount := n - keep

	split := tc.freelists[index]
	for i := int64(1); i < keep; i++ {
		next := nextblock(split)
		if next == nil { // list shorter than its counter
			keep, returncount = i, 0
			break
		}
		split = next
	}
	head := nextblock(split)
	setnextblock(split, nil)
	tc.freelistsizes[index] = keep
	if returncount > 0 && head != nil {
		tc.m.central.returnrange(head, returncount, index)
	}
}
