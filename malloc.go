package malloc

import (
	"math"
	"math/bits"
	"unsafe"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Allocator serves allocations from a fixed arena and maps requests above
// the threshold straight from the OS. Not goroutine-safe.
//
// The arena is created on the first allocation and lives until Release.
type Allocator struct {
	cfg         Config
	pool        *pool
	mapped      mappedList
	initialized bool
	released    bool

	allocs int
	frees  int
}

// New creates an Allocator from DefaultConfig adjusted by opts. It panics
// if the resulting configuration is unusable, e.g. a pool size that is not
// a multiple of Alignment. Use NewWithConfig to get an error instead.
func New(opts ...Option) *Allocator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	a, err := NewWithConfig(cfg)
	if err != nil {
		panic(err)
	}
	return a
}

// NewWithConfig creates an Allocator from cfg, rejecting invalid settings.
func NewWithConfig(cfg Config) (*Allocator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Allocator{cfg: cfg}, nil
}

// Config returns the configuration a was created with.
func (a *Allocator) Config() Config {
	return a.cfg
}

// Malloc returns a pointer to at least size writable bytes. The memory is
// not zeroed. Size 0 yields a minimal, non-nil block of Alignment bytes.
//
// Requests up to the mmap threshold come from the arena and fail with
// ErrOutOfMemory once no free block fits; larger ones are mapped from the
// OS and fail with ErrMapFailed. The comparison uses the requested size,
// so a threshold that is not a multiple of Alignment still splits exactly
// at the threshold.
func (a *Allocator) Malloc(size int) (unsafe.Pointer, error) {
	a.panicIfReleased()
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "malloc(%d)", size)
	}
	a.lazyInit()

	if size == 0 {
		size = Alignment
	}
	n := alignUp(uintptr(size))

	var h *header
	if size > a.cfg.MmapThreshold {
		var err error
		if h, err = a.mapped.alloc(n); err != nil {
			return nil, err
		}
	} else if h = a.pool.alloc(n); h == nil {
		return nil, errors.Wrapf(ErrOutOfMemory, "malloc(%d)", size)
	}
	a.allocs++
	return h.payload(), nil
}

// Calloc allocates count*size bytes and zeroes them. It fails with
// ErrOverflow instead of wrapping when the product does not fit in an int.
func (a *Allocator) Calloc(count, size int) (unsafe.Pointer, error) {
	if count < 0 || size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "calloc(%d, %d)", count, size)
	}
	hi, lo := bits.Mul64(uint64(count), uint64(size))
	if hi != 0 || lo > math.MaxInt {
		return nil, errors.Wrapf(ErrOverflow, "calloc(%d, %d)", count, size)
	}
	total := int(lo)
	ptr, err := a.Malloc(total)
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(ptr), total))
	return ptr, nil
}

// Realloc resizes the block at ptr. A nil ptr behaves like Malloc. Blocks
// never shrink: when size fits the current block, ptr comes back unchanged.
// Otherwise the contents move to a new block and the old one is freed. On
// failure ptr is left valid and untouched.
func (a *Allocator) Realloc(ptr unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if ptr == nil {
		return a.Malloc(size)
	}
	a.panicIfReleased()
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "realloc(%p, %d)", ptr, size)
	}
	h := headerOf(ptr)
	if uintptr(size) <= h.size {
		return ptr, nil
	}
	np, err := a.Malloc(size)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(np), h.size), h.bytes())
	a.Free(ptr)
	return np, nil
}

// Free releases a block returned by Malloc, Calloc or Realloc. A nil ptr is
// a no-op. Freeing anything else, or freeing twice, is undefined.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	a.panicIfReleased()
	h := headerOf(ptr)
	switch h.origin {
	case OriginPool:
		a.pool.release(h)
	case OriginMapped:
		if !a.mapped.release(h) {
			return
		}
	default:
		panic("malloc: free of a pointer not returned by this allocator")
	}
	a.frees++
}

// UsableSize returns the payload size of the block at ptr, which may exceed
// the size originally requested. Returns 0 for nil.
func (a *Allocator) UsableSize(ptr unsafe.Pointer) int {
	if ptr == nil {
		return 0
	}
	return int(headerOf(ptr).size)
}

// Reset frees every allocation at once: mapped blocks are unmapped and the
// arena becomes a single free block again. The arena itself is kept.
func (a *Allocator) Reset() {
	a.panicIfReleased()
	a.mapped.releaseAll()
	if a.initialized {
		a.pool.reset()
	}
}

// Release unmaps every mapped block and drops the arena. Any subsequent
// operation panics.
func (a *Allocator) Release() {
	if a.released {
		return
	}
	a.mapped.releaseAll()
	a.pool = nil
	a.initialized = false
	a.released = true
}

// lazyInit creates the arena on first use.
func (a *Allocator) lazyInit() {
	if a.initialized {
		return
	}
	a.pool = newPool(a.cfg.PoolSize, a.cfg.MinSplit)
	a.initialized = true
	if glog.V(1) {
		glog.Infof("malloc: arena of %d bytes initialized, mmap threshold %d", a.cfg.PoolSize, a.cfg.MmapThreshold)
	}
}

func (a *Allocator) panicIfReleased() {
	if a.released {
		panic("malloc: use after Release()")
	}
}
