package malloc

import (
	"math"
	"unsafe"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// mappedList tracks live blocks obtained straight from the OS, most
// recent first. A block is in the list iff its mapping is still live.
type mappedList struct {
	head *header
}

// alloc maps headerSize+size bytes and pushes the new block on the list.
func (m *mappedList) alloc(size uintptr) (*header, error) {
	if size > math.MaxInt-headerSize {
		glog.Warningf("malloc: mapping of %d payload bytes exceeds the address space", size)
		return nil, errors.Wrapf(ErrMapFailed, "mapping %d payload bytes (too large)", size)
	}
	total := int(headerSize + size)
	mem, err := mmap(total)
	if err != nil {
		glog.Warningf("malloc: mmap of %d bytes failed: %v", total, err)
		return nil, errors.Wrapf(ErrMapFailed, "mapping %d bytes (%v)", total, err)
	}
	h := (*header)(unsafe.Pointer(&mem[0]))
	*h = header{
		size:   size,
		next:   m.head,
		origin: OriginMapped,
	}
	m.head = h
	if glog.V(2) {
		glog.Infof("malloc: mapped %d bytes at %p", total, h)
	}
	return h, nil
}

// release unlinks h and unmaps it. A block that is not on the list is left
// alone and release reports false.
func (m *mappedList) release(h *header) bool {
	for link := &m.head; *link != nil; link = &(*link).next {
		if *link != h {
			continue
		}
		*link = h.next
		m.unmap(h)
		return true
	}
	glog.Warningf("malloc: %p is not a live mapped block, not unmapping", h.payload())
	return false
}

// releaseAll unmaps every live block and empties the list.
func (m *mappedList) releaseAll() {
	for h := m.head; h != nil; {
		next := h.next
		m.unmap(h)
		h = next
	}
	m.head = nil
}

func (m *mappedList) unmap(h *header) {
	total := int(headerSize + h.size)
	mem := unsafe.Slice((*byte)(unsafe.Pointer(h)), total)
	if err := munmap(mem); err != nil {
		glog.Warningf("malloc: munmap of %d bytes at %p failed: %v", total, h, err)
		return
	}
	if glog.V(2) {
		glog.Infof("malloc: unmapped %d bytes at %p", total, h)
	}
}
