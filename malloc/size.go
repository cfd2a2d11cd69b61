package malloc

import "unsafe"

// Roundup size `n` to the next multiple of Alignment. Zero sized
// requests round up to Alignment.
func Roundup(n int64) int64 {
	if n < Alignment {
		n = Alignment
	}
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Blockindex free-list index servicing a request of `n` bytes.
// Index `i` holds blocks of (i+1)*Alignment bytes.
func Blockindex(n int64) int {
	return int(Roundup(n)/Alignment) - 1
}

// Blocksize block size of free-list index `i`.
func Blocksize(index int) int64 {
	return int64(index+1) * Alignment
}

// batchsize number of blocks to move between central-cache and
// thread-cache in one transfer. Small blocks move in larger batches,
// bounded by batchmax bytes, but a batch is never less than one
// block, even when that block alone is larger than batchmax.
func batchsize(blocksize, batchmax int64) int64 {
	var base int64
	switch {
	case blocksize <= 32:
		base = 64
	case blocksize <= 64:
		base = 32
	case blocksize <= 128:
		base = 16
	case blocksize <= 256:
		base = 8
	case blocksize <= 512:
		base = 4
	case blocksize <= 1024:
		base = 2
	default:
		base = 1
	}
	if max := batchmax / blocksize; base > max {
		base = max
	}
	if base < 1 {
		base = 1
	}
	return base
}

// While free, the first machine word of a block addresses the next
// free block in its list, nil terminated.

func nextblock(ptr unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(ptr)
}

func setnextblock(ptr, next unsafe.Pointer) {
	*(*unsafe.Pointer)(ptr) = next
}
