package malloc

import "unsafe"

// Origin tells which list a block belongs to and how it is released.
type Origin uint8

const (
	// OriginPool marks a block carved from the arena.
	OriginPool Origin = iota + 1
	// OriginMapped marks a block backed by its own OS mapping.
	OriginMapped
)

// String returns "pool", "mmap", or "invalid" for an unknown tag.
func (o Origin) String() string {
	switch o {
	case OriginPool:
		return "pool"
	case OriginMapped:
		return "mmap"
	}
	return "invalid"
}

// header prefixes every payload, pool or mapped. The payload starts
// headerSize bytes after the header.
type header struct {
	size   uintptr // usable payload bytes, a multiple of Alignment
	next   *header // successor in the pool or mapped list
	free   bool    // pool blocks only
	origin Origin
}

// headerSize is the header footprint rounded up to Alignment, so payloads
// stay aligned whenever headers are.
const headerSize = (unsafe.Sizeof(header{}) + Alignment - 1) &^ (Alignment - 1)

// payload returns the user pointer for h.
func (h *header) payload() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(h), headerSize)
}

// bytes returns the whole usable region of h.
func (h *header) bytes() []byte {
	return unsafe.Slice((*byte)(h.payload()), h.size)
}

// end returns the address one past the payload of h.
func (h *header) end() uintptr {
	return uintptr(unsafe.Pointer(h)) + headerSize + h.size
}

// headerOf locates the header of a pointer returned by Malloc.
func headerOf(ptr unsafe.Pointer) *header {
	return (*header)(unsafe.Add(ptr, -int(headerSize)))
}

// alignUp rounds n up to the next multiple of Alignment.
func alignUp(n uintptr) uintptr {
	const mask = Alignment - 1
	return (n + mask) &^ mask
}
