// Command mallocdemo exercises the allocator end to end and prints its
// block lists and leak report.
//
// Pass -v=2 -logtostderr to see arena and mapping events.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/golang/glog"
	"github.com/pavanmanishd/malloc"
	"golang.org/x/exp/slog"
)

var (
	poolSize  = flag.Int("pool", malloc.DefaultPoolSize, "arena size in bytes")
	threshold = flag.Int("threshold", malloc.DefaultMmapThreshold, "requests above this many bytes are mapped")
	ints      = flag.Int("ints", 36770, "number of int32 values in the first allocation")
	leak      = flag.Bool("leak", false, "skip the final frees to show the leak report")
	logBlocks = flag.Bool("log_blocks", false, "also log every block as structured records on stderr")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	a, err := malloc.NewWithConfig(malloc.Config{
		PoolSize:      *poolSize,
		MmapThreshold: *threshold,
		MinSplit:      malloc.DefaultMinSplit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer a.Release()

	if err := run(a); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(a *malloc.Allocator) error {
	const intSize = int(unsafe.Sizeof(int32(0)))

	arr, err := a.Malloc(*ints * intSize)
	if err != nil {
		return err
	}
	values := unsafe.Slice((*int32)(arr), *ints)
	for i := 0; i < 5 && i < len(values); i++ {
		values[i] = int32(i * 10)
	}

	// asking for less than the block holds keeps the pointer
	arr, err = a.Realloc(arr, 10*intSize)
	if err != nil {
		return err
	}
	values = unsafe.Slice((*int32)(arr), 10)
	for i := 5; i < 10; i++ {
		values[i] = int32(i * 10)
	}

	fmt.Print("Reallocated array: ")
	for _, v := range values {
		fmt.Printf("%d ", v)
	}
	fmt.Println()

	zeroed, err := a.Calloc(5, intSize)
	if err != nil {
		return err
	}
	fmt.Print("Calloc'd array: ")
	for _, v := range unsafe.Slice((*int32)(zeroed), 5) {
		fmt.Printf("%d ", v)
	}
	fmt.Println()

	if err := a.Dump(os.Stdout); err != nil {
		return err
	}
	if *logBlocks {
		a.LogBlocks(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if !*leak {
		a.Free(arr)
		a.Free(zeroed)
	}

	fmt.Println()
	if _, err := a.CheckLeaks(os.Stdout); err != nil {
		return err
	}
	if err := a.Check(); err != nil {
		return err
	}
	return a.Dump(os.Stdout)
}
