// Package malloc implements a malloc-style allocator over a fixed arena,
// with large requests mapped straight from the OS.
//
// # Overview
//
// An Allocator owns a single static arena (1 MiB by default) that is
// created on the first allocation and never grows. The arena is carved
// into blocks, each prefixed by a small header recording its size, whether
// it is free, where it came from and which block follows it. Requests are
// served first-fit from that list; a block with enough surplus is split so
// the remainder stays available, and freeing a block merges it with free
// neighbours so the list never holds two adjacent free blocks.
//
// Requests larger than the mmap threshold (128 KiB by
// default) bypass the arena. Each gets its own anonymous mapping, tracked
// in a second list and unmapped on Free.
//
// # Basic Usage
//
//	a := malloc.New()
//	defer a.Release()
//
//	p, err := a.Malloc(64)
//	if err != nil {
//		return err
//	}
//	buf := malloc.Bytes(p) // usable region, at least 64 bytes
//
//	p, err = a.Realloc(p, 256) // contents move, old block is freed
//	a.Free(p)
//
//	// Typed values, zeroed. T must not contain Go pointers.
//	v, err := malloc.Alloc[MyStruct](a)
//	s, err := malloc.AllocSlice[int64](a, 100)
//
// # Configuration
//
//	a := malloc.New(
//		malloc.WithPoolSize(4<<20),
//		malloc.WithMmapThreshold(256<<10),
//	)
//
// All sizes are rounded up to Alignment (8 bytes). Malloc(0) returns a
// minimal non-nil block. Calloc fails with ErrOverflow rather than wrapping
// when count*size overflows.
//
// # Errors
//
// Failures are returned, never retried: ErrOutOfMemory when no arena block
// fits, ErrMapFailed when the OS refuses a mapping. Both are wrapped with
// context; test with errors.Is. Realloc leaves the original block valid
// when it fails.
//
// # Diagnostics
//
//	n, _ := a.CheckLeaks(os.Stdout) // one line per block still allocated
//	a.Dump(os.Stdout)               // both block lists
//	err := a.Check()                // list invariants
//	stats := a.Stats()
//
// # Important Notes
//
//   - Allocator is not goroutine-safe.
//   - Freeing a pointer twice, or one not returned by the same Allocator,
//     is undefined and not detected.
//   - Allocator memory is invisible to the garbage collector; do not store
//     the only reference to Go heap objects in it.
package malloc
