//go:build unix

package malloc

import "golang.org/x/sys/unix"

// sysmapper obtains anonymous memory with mmap. Fresh mappings are
// zero-initialized by the kernel.
type sysmapper struct{}

func (m *sysmapper) Map(nbytes int64) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	return unix.Mmap(-1, 0, int(nbytes), prot, flags)
}

func (m *sysmapper) Unmap(block []byte) error {
	return unix.Munmap(block)
}
