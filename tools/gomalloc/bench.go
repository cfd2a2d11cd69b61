package main

import "fmt"
import "strconv"
import "sync"
import "time"

import "github.com/bnclabs/gomalloc/lib"
import "github.com/bnclabs/gomalloc/malloc"
import hm "github.com/dustin/go-humanize"
import "github.com/spf13/cobra"

var benchopts struct {
	routines int
	repeat   int
	sizes    string
}

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchopts.routines, "routines", 4,
		"number of concurrent routines, one thread-cache each")
	cmd.Flags().IntVar(&benchopts.repeat, "repeat", 100000,
		"allocate/free cycles per routine per size")
	cmd.Flags().StringVar(&benchopts.sizes, "sizes", "8,64,512,4096",
		"comma separated block sizes to exercise")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Time the allocator against the runtime allocator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() error {
	sizes, err := parsesizes(benchopts.sizes)
	if err != nil {
		return err
	}

	m := malloc.New(nil)
	defer m.Release()

	ops := int64(benchopts.routines) * int64(benchopts.repeat) * int64(len(sizes))
	took := benchmalloc(m, sizes)
	fmt.Printf("gomalloc: %v ops in %v, %v ns/op\n",
		hm.Comma(ops), took, took.Nanoseconds()/ops)

	took = benchruntime(sizes)
	fmt.Printf("runtime : %v ops in %v, %v ns/op\n",
		hm.Comma(ops), took, took.Nanoseconds()/ops)

	spans, freespans, mapped := m.Info()
	fmt.Printf("pagecache: %v spans, %v free, %v mapped\n",
		spans, freespans, hm.IBytes(uint64(mapped*malloc.Pagesize)))
	return nil
}

func benchmalloc(m *malloc.Malloc, sizes []int64) time.Duration {
	var wg sync.WaitGroup

	start := time.Now()
	for n := 0; n < benchopts.routines; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tc := m.NewCache()
			for i := 0; i < benchopts.repeat; i++ {
				for _, size := range sizes {
					if ptr := tc.Alloc(size); ptr != nil {
						tc.Free(ptr, size)
					}
				}
			}
			tc.Release()
		}()
	}
	wg.Wait()
	return time.Since(start)
}

var benchsink []byte

func benchruntime(sizes []int64) time.Duration {
	var wg sync.WaitGroup

	start := time.Now()
	for n := 0; n < benchopts.routines; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := 0; i < benchopts.repeat; i++ {
				for _, size := range sizes {
					benchsink = make([]byte, size)
				}
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}

func parsesizes(input string) ([]int64, error) {
	sizes := make([]int64, 0, 8)
	for _, field := range lib.Parsecsv(input) {
		size, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %v", field, err)
		} else if size < 1 || size > malloc.Maxbytes {
			return nil, fmt.Errorf("size %v out of range", size)
		}
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes to bench")
	}
	return sizes, nil
}
