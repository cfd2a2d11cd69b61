package api

import "unsafe"

// Mallocer interface for custom memory management. Allocations are
// size-bearing: the size passed to Free must equal the size passed
// to the Alloc call that returned the pointer.
type Mallocer interface {
	// Alloc a block of `n` bytes. Allocated memory is always 64-bit
	// aligned. Returns nil if the operating system denies memory.
	Alloc(n int64) unsafe.Pointer

	// Free a block of `n` bytes back to the allocator.
	Free(ptr unsafe.Pointer, n int64)

	// Release this allocator and all its resources.
	Release()
}

// Cacher interface for the per-routine caches handed out by an
// allocator instance. A Cacher serves the Mallocer contract without
// synchronization and reports what it holds.
type Cacher interface {
	Mallocer

	// Info return the number of blocks and bytes parked in this
	// cache.
	Info() (blocks, bytes int64)
}

// Mapper interface to obtain page-granular anonymous memory from the
// operating system. Mapped memory is readable, writable and
// zero-initialized.
type Mapper interface {
	// Map `nbytes` of anonymous memory, `nbytes` shall be a multiple
	// of the OS page size.
	Map(nbytes int64) ([]byte, error)

	// Unmap a block previously returned by Map.
	Unmap(block []byte) error
}
