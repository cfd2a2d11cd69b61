package main

import "os"

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "gomalloc",
	Short: "Benchmark and stress harness for the gomalloc allocator",
	Long: `gomalloc drives the three-tier caching allocator from the
command line. The bench command times the allocator against the Go
runtime allocator over the same workload, the stress command churns
random-sized allocations across many routines and verifies block
contents.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
