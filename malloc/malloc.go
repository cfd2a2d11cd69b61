package malloc

import "sync"

import s "github.com/bnclabs/gosettings"

// Malloc ties one page-cache and one central-cache together and
// manufactures thread-caches that share them. Typically a process
// creates a single instance, or uses Default(), and hands one
// ThreadCache to each worker routine.
type Malloc struct {
	pages   *pageCache
	central *centralCache

	// configuration
	spanpages       int64
	returnthreshold int64
	batchmaxbytes   int64
}

// New create a memory allocator instance with its own page-cache and
// central-cache. Settings not present in `setts` take their value
// from Defaultsettings().
func New(setts s.Settings) *Malloc {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	validatesettings(setts)
	m := &Malloc{
		spanpages:       setts.Int64("spanpages"),
		returnthreshold: setts.Int64("returnthreshold"),
		batchmaxbytes:   setts.Int64("batchmaxbytes"),
	}
	m.pages = newPagecache(&sysmapper{})
	m.central = newCentralcache(m.pages, m.spanpages)
	infof("malloc: new instance spanpages:%v returnthreshold:%v "+
		"batchmaxbytes:%v\n",
		m.spanpages, m.returnthreshold, m.batchmaxbytes)
	return m
}

var defaultm *Malloc
var defaultonce sync.Once

// Default return the process-wide allocator instance, built from
// Defaultsettings() on first use.
func Default() *Malloc {
	defaultonce.Do(func() {
		defaultm = New(nil)
	})
	return defaultm
}

// NewCache create a thread-cache backed by this instance. The
// returned cache is not thread safe, it belongs to exactly one
// worker routine.
func (m *Malloc) NewCache() *ThreadCache {
	return &ThreadCache{m: m}
}

// Info return page-cache accounting: spans tracked, free spans and
// pages obtained from the OS.
func (m *Malloc) Info() (spans, freespans, mappedpages int64) {
	return m.pages.Info()
}

// Release the instance, unmapping every span obtained from the OS.
// Caller shall make sure no block allocated through this instance is
// still live and every thread-cache is Released.
func (m *Malloc) Release() {
	m.pages.release()
	infof("malloc: instance released\n")
}
