package malloc_test

import (
	"fmt"
	"runtime"
	"testing"
	"unsafe"

	"github.com/pavanmanishd/malloc"
)

// BenchmarkAllocationSizes covers the pool path and the mapped path
func BenchmarkAllocationSizes(b *testing.B) {
	sizes := []int{8, 64, 512, 4096, malloc.DefaultMmapThreshold, malloc.DefaultMmapThreshold + 1, 1024 * 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Malloc_%dB", size), func(b *testing.B) {
			a := malloc.New()
			defer a.Release()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				p, err := a.Malloc(size)
				if err != nil {
					b.Fatal(err)
				}
				a.Free(p)
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

// BenchmarkTypedAllocations benchmarks the generic helpers
func BenchmarkTypedAllocations(b *testing.B) {
	type SmallStruct struct {
		A int32
		B int32
	}
	type LargeStruct struct {
		ID   int64
		Data [1016]byte
	}

	b.Run("Malloc_SmallStruct", func(b *testing.B) {
		a := malloc.New()
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s, _ := malloc.Alloc[SmallStruct](a)
			s.A = int32(i)
			a.Free(unsafe.Pointer(s))
		}
	})

	b.Run("Builtin_SmallStruct", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s := &SmallStruct{}
			s.A = int32(i)
		}
	})

	b.Run("Malloc_LargeStruct", func(b *testing.B) {
		a := malloc.New()
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s, _ := malloc.Alloc[LargeStruct](a)
			s.ID = int64(i)
			a.Free(unsafe.Pointer(s))
		}
	})

	b.Run("Builtin_LargeStruct", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s := &LargeStruct{}
			s.ID = int64(i)
		}
	})

	b.Run("Malloc_Slice1000", func(b *testing.B) {
		a := malloc.New()
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s, _ := malloc.AllocSlice[int64](a, 1000)
			s[0] = int64(i)
			malloc.FreeSlice(a, s)
		}
	})

	b.Run("Builtin_Slice1000", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s := make([]int64, 1000)
			s[0] = int64(i)
		}
	})
}

// BenchmarkRequestScoped simulates a request handler that allocates temporary
// buffers and releases them all at the end.
func BenchmarkRequestScoped(b *testing.B) {
	b.Run("Malloc_FreeEach", func(b *testing.B) {
		a := malloc.New()
		defer a.Release()
		ptrs := make([]unsafe.Pointer, 0, 30)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				p1, _ := a.Malloc(1024)
				p2, _ := a.Malloc(2048)
				p3, _ := a.Malloc(512)
				ptrs = append(ptrs, p1, p2, p3)
			}
			for _, p := range ptrs {
				a.Free(p)
			}
			ptrs = ptrs[:0]
		}
	})

	b.Run("Malloc_Reset", func(b *testing.B) {
		a := malloc.New()
		defer a.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				a.Malloc(1024)
				a.Malloc(2048)
				a.Malloc(512)
			}
			a.Reset()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			buffers := make([][]byte, 30)
			for j := 0; j < 10; j++ {
				buffers[j*3] = make([]byte, 1024)
				buffers[j*3+1] = make([]byte, 2048)
				buffers[j*3+2] = make([]byte, 512)
			}
			if i%5 == 0 {
				runtime.GC()
			}
		}
	})
}
