package main

import "fmt"
import "math/rand"
import "sync"
import "sync/atomic"
import "time"
import "unsafe"

import "github.com/bnclabs/gomalloc/lib"
import "github.com/bnclabs/gomalloc/malloc"
import hm "github.com/dustin/go-humanize"
import "github.com/spf13/cobra"

var stressopts struct {
	routines int
	repeat   int
	maxsize  int64
	seed     int64
}

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressopts.routines, "routines", 4,
		"number of concurrent routines, one thread-cache each")
	cmd.Flags().IntVar(&stressopts.repeat, "repeat", 100000,
		"allocations per routine")
	cmd.Flags().Int64Var(&stressopts.maxsize, "maxsize", 2048,
		"largest block size to allocate")
	cmd.Flags().Int64Var(&stressopts.seed, "seed", 1,
		"random seed for the workload")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Churn random allocations and verify block contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

type stressalloc struct {
	ptr  unsafe.Pointer
	size int64
}

func runStress() error {
	if stressopts.maxsize < malloc.Alignment ||
		stressopts.maxsize > malloc.Maxbytes {
		return fmt.Errorf("maxsize %v out of range", stressopts.maxsize)
	}

	m := malloc.New(nil)
	defer m.Release()

	var wg sync.WaitGroup
	var allocated, failures int64

	classes := stressopts.maxsize / malloc.Alignment
	start := time.Now()
	for n := 0; n < stressopts.routines; n++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()

			tc := m.NewCache()
			fill := byte(n + 1)
			rnd := rand.New(rand.NewSource(stressopts.seed + n))
			live := make([]stressalloc, 0, 1024)
			for i := 0; i < stressopts.repeat; i++ {
				size := (rnd.Int63n(classes) + 1) * malloc.Alignment
				ptr := tc.Alloc(size)
				if ptr == nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				lib.Fillblock(ptr, int(size), fill)
				atomic.AddInt64(&allocated, size)
				live = append(live, stressalloc{ptr, size})
				if rnd.Intn(2) == 1 {
					at := rnd.Intn(len(live))
					if !verifyblock(live[at], fill) {
						atomic.AddInt64(&failures, 1)
					}
					tc.Free(live[at].ptr, live[at].size)
					live = append(live[:at], live[at+1:]...)
				}
			}
			for _, a := range live {
				if !verifyblock(a, fill) {
					atomic.AddInt64(&failures, 1)
				}
				tc.Free(a.ptr, a.size)
			}
			tc.Release()
		}(int64(n))
	}
	wg.Wait()
	took := time.Since(start)

	fmt.Printf("churned %v across %v routines in %v\n",
		hm.IBytes(uint64(allocated)), stressopts.routines, took)
	spans, freespans, mapped := m.Info()
	fmt.Printf("pagecache: %v spans, %v free, %v mapped\n",
		spans, freespans, hm.IBytes(uint64(mapped*malloc.Pagesize)))
	if failures > 0 {
		return fmt.Errorf("%v verification failures", failures)
	}
	fmt.Println("all blocks verified")
	return nil
}

func verifyblock(a stressalloc, fill byte) bool {
	for _, c := range lib.Blockbytes(a.ptr, int(a.size)) {
		if c != fill {
			return false
		}
	}
	return true
}
