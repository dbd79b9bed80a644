package malloc

import "unsafe"

// Alloc returns a zeroed *T stored in memory owned by a. T must not hold Go
// pointers: the garbage collector does not scan allocator memory. Release
// the value with a.Free(unsafe.Pointer(p)).
func Alloc[T any](a *Allocator) (*T, error) {
	var zero T
	ptr, err := a.Calloc(1, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return (*T)(ptr), nil
}

// AllocSlice allocates a zeroed slice of n elements of type T. The same
// restriction on Go pointers as for Alloc applies. Returns nil if n == 0.
func AllocSlice[T any](a *Allocator, n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	var zero T
	ptr, err := a.Calloc(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(ptr), n), nil
}

// FreeSlice releases a slice obtained from AllocSlice. Empty slices are
// ignored.
func FreeSlice[T any](a *Allocator, s []T) {
	if cap(s) == 0 {
		return
	}
	a.Free(unsafe.Pointer(unsafe.SliceData(s)))
}

// Bytes returns the usable region of the block at ptr as a byte slice.
// The slice is only valid until the block is freed or reallocated.
func Bytes(ptr unsafe.Pointer) []byte {
	if ptr == nil {
		return nil
	}
	return headerOf(ptr).bytes()
}
