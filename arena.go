package malloc

import "unsafe"

// pool is the fixed arena together with the block list carved from it.
// The list is address ordered and covers the buffer with no gaps: a split
// only ever inserts a successor, a merge only ever removes one.
type pool struct {
	buf      []byte  // backing memory, never resized
	head     *header // first block, always at &buf[0]
	minSplit uintptr // smallest payload worth carving off
}

// newPool creates an arena of size bytes holding a single free block.
func newPool(size, minSplit int) *pool {
	p := &pool{
		buf:      make([]byte, size),
		minSplit: uintptr(minSplit),
	}
	p.reset()
	return p
}

// reset turns the whole arena back into one free block.
func (p *pool) reset() {
	p.head = (*header)(unsafe.Pointer(&p.buf[0]))
	*p.head = header{
		size:   uintptr(len(p.buf)) - headerSize,
		free:   true,
		origin: OriginPool,
	}
}

// alloc hands out the first free block that can hold size bytes, splitting
// it when the surplus can carry a header plus minSplit. Returns nil when
// no block fits.
func (p *pool) alloc(size uintptr) *header {
	for h := p.head; h != nil; h = h.next {
		if !h.free || h.size < size {
			continue
		}
		if h.size >= size+headerSize+p.minSplit {
			p.split(h, size)
		}
		h.free = false
		return h
	}
	return nil
}

// split shrinks h to size and links a free block over the remainder.
func (p *pool) split(h *header, size uintptr) {
	rest := (*header)(unsafe.Add(h.payload(), size))
	*rest = header{
		size:   h.size - size - headerSize,
		next:   h.next,
		free:   true,
		origin: OriginPool,
	}
	h.size = size
	h.next = rest
}

// release returns h to the free list and merges free neighbours.
func (p *pool) release(h *header) {
	h.free = true
	p.coalesce()
}

// coalesce walks the list from the head and folds every free successor
// into a free predecessor. Afterwards no two adjacent blocks are both free.
func (p *pool) coalesce() {
	h := p.head
	for h != nil && h.next != nil {
		if h.free && h.next.free {
			h.size += headerSize + h.next.size
			h.next = h.next.next
			continue
		}
		h = h.next
	}
}

// owns reports whether h lies inside the arena.
func (p *pool) owns(h *header) bool {
	base := uintptr(unsafe.Pointer(&p.buf[0]))
	addr := uintptr(unsafe.Pointer(h))
	return addr >= base && addr < base+uintptr(len(p.buf))
}

// capacity returns the arena size, headers included.
func (p *pool) capacity() int {
	return len(p.buf)
}
