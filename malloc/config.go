package malloc

import "errors"
import "fmt"

import s "github.com/bnclabs/gosettings"

// ErrorReleased is panic-ed when the page-cache of an instance whose
// resources have already been Released is asked for, or handed back,
// a span, for example by an allocation that finds no block in the
// thread-cache or the central-cache. Blocks still parked in those
// caches are handed out, and Free is accepted, without this check.
// Callers recovering a panic can compare against it.
var ErrorReleased = errors.New("malloc.released")

// Alignment unit for block sizes, all blocks allocated by this
// package are multiples of Alignment.
const Alignment = int64(8)

// Maxbytes largest request serviced through the caches, larger
// requests go straight to the host allocator.
const Maxbytes = int64(256 * 1024)

// Freelistsize number of block size-classes, one free list per
// multiple of Alignment up to Maxbytes.
const Freelistsize = int(Maxbytes / Alignment)

// Pagesize granularity of memory obtained from the OS.
const Pagesize = int64(4096)

// Spanpages default number of pages the central-cache pulls from the
// page-cache on a refill.
const Spanpages = int64(8)

// Returnthreshold thread-cache free list length beyond which blocks
// spill to the central-cache.
const Returnthreshold = int64(64)

// Batchmaxbytes upper bound, in bytes, on a single central-cache to
// thread-cache transfer.
const Batchmaxbytes = int64(4096)

// Defaultsettings for gomalloc instances:
//
// "spanpages" (int64, default: 8)
//	Number of pages the central-cache requests from the page-cache
//	when a free list runs dry.
//
// "returnthreshold" (int64, default: 64)
//	Thread-cache list length that triggers a spill to the
//	central-cache.
//
// "batchmaxbytes" (int64, default: 4096)
//	Upper bound on the byte size of a central-cache refill batch.
func Defaultsettings() s.Settings {
	return s.Settings{
		"spanpages":       Spanpages,
		"returnthreshold": Returnthreshold,
		"batchmaxbytes":   Batchmaxbytes,
	}
}

func validatesettings(setts s.Settings) {
	if spanpages := setts.Int64("spanpages"); spanpages < 1 {
		panicerr("spanpages %v should be >= 1", spanpages)
	}
	if threshold := setts.Int64("returnthreshold"); threshold < 1 {
		panicerr("returnthreshold %v should be >= 1", threshold)
	}
	batchmax := setts.Int64("batchmaxbytes")
	if batchmax < Alignment {
		panicerr("batchmaxbytes %v should be >= %v", batchmax, Alignment)
	} else if (batchmax % Alignment) != 0 {
		panicerr("batchmaxbytes %v is not multiple of %v", batchmax, Alignment)
	}
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
