package malloc

//#include <stdlib.h>
import "C"

import "unsafe"

// Bypass path for requests above Maxbytes, serviced by the host
// allocator outside the caches.

func hostalloc(n int64) unsafe.Pointer {
	return C.malloc(C.size_t(n))
}

func hostfree(ptr unsafe.Pointer) {
	C.free(ptr)
}
