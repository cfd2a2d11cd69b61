// Package malloc supplies concurrent memory management for
// small-to-medium objects, with a limited scope:
//
//   - Memory is organized in three tiers, thread-cache, central-cache
//     and page-cache, from hottest to coldest.
//   - ThreadCache instances are not thread safe; create one per
//     worker routine and let no other routine touch it.
//   - Central-cache and page-cache are shared by all thread-caches of
//     a Malloc instance and are safe for concurrent use.
//   - Memory is obtained from the OS in page-aligned spans, carved
//     into fixed-size blocks, and recycled through intrusive free
//     lists until the instance is Released.
//   - Allocations are size-bearing: callers pass the request size to
//     Free as well. There is no per-block metadata.
//   - Blocks allocated by this package are always 64-bit aligned.
//
// Requests above Maxbytes bypass all three tiers and are serviced by
// the host allocator directly.
package malloc

// TODO: page-cache coalesces a returning span only with its forward
// neighbor. Index spans by end address to merge backward as well.
