package malloc

import (
	"fmt"
	"io"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// BlockInfo describes one block as seen by Blocks and Dump.
type BlockInfo struct {
	Addr     uintptr // header address
	UserAddr uintptr // payload address, as returned to the caller
	Size     int     // usable payload bytes
	Free     bool
	Origin   Origin
	Next     uintptr // header address of the successor, 0 at the end
}

// Leak is a block still allocated when the leak scan ran.
type Leak struct {
	Addr   uintptr // payload address
	Size   int
	Origin Origin
}

func blockInfo(h *header) BlockInfo {
	return BlockInfo{
		Addr:     uintptr(unsafe.Pointer(h)),
		UserAddr: uintptr(h.payload()),
		Size:     int(h.size),
		Free:     h.free,
		Origin:   h.origin,
		Next:     uintptr(unsafe.Pointer(h.next)),
	}
}

// Blocks returns the pool list in address order followed by the mapped
// list, most recent first.
func (a *Allocator) Blocks() []BlockInfo {
	var out []BlockInfo
	if a.initialized {
		for h := a.pool.head; h != nil; h = h.next {
			out = append(out, blockInfo(h))
		}
	}
	for h := a.mapped.head; h != nil; h = h.next {
		out = append(out, blockInfo(h))
	}
	return out
}

// Leaks returns every used pool block and every live mapped block.
func (a *Allocator) Leaks() []Leak {
	var leaks []Leak
	for _, b := range a.Blocks() {
		if b.Free {
			continue
		}
		leaks = append(leaks, Leak{Addr: b.UserAddr, Size: b.Size, Origin: b.Origin})
	}
	return leaks
}

// CheckLeaks writes one line per leaked block to w, or a single line saying
// nothing leaked, and returns the number of leaks.
func (a *Allocator) CheckLeaks(w io.Writer) (int, error) {
	leaks := a.Leaks()
	var sb strings.Builder
	for _, l := range leaks {
		fmt.Fprintf(&sb, "Leaked %s block at %#x | size: %d bytes\n", l.Origin, l.Addr, l.Size)
	}
	if len(leaks) == 0 {
		sb.WriteString("No memory leaks detected.\n")
	}
	_, err := io.WriteString(w, sb.String())
	return len(leaks), err
}

// Dump writes a human readable listing of both block lists to w.
func (a *Allocator) Dump(w io.Writer) error {
	var sb strings.Builder
	pool, mapped := 0, 0
	sb.WriteString("\n[Pool Memory Blocks]\n")
	for _, b := range a.Blocks() {
		if b.Origin == OriginMapped {
			if mapped == 0 {
				sb.WriteString("\n[MMAP Blocks]\n")
			}
			fmt.Fprintf(&sb, "MMAP Block %d:\n", mapped)
			mapped++
		} else {
			fmt.Fprintf(&sb, "Block %d:\n", pool)
			pool++
		}
		fmt.Fprintf(&sb, "  Addr     : %#x\n", b.Addr)
		fmt.Fprintf(&sb, "  UserAddr : %#x\n", b.UserAddr)
		fmt.Fprintf(&sb, "  Size     : %d bytes\n", b.Size)
		fmt.Fprintf(&sb, "  Status   : %s\n", status(b))
		fmt.Fprintf(&sb, "  Next     : %#x\n", b.Next)
		sb.WriteString("-------------------------\n")
	}
	if mapped == 0 {
		sb.WriteString("\n[MMAP Blocks]\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func status(b BlockInfo) string {
	switch {
	case b.Origin == OriginMapped:
		return "USED (MMAP)"
	case b.Free:
		return "FREE"
	}
	return "USED"
}

// LogBlocks emits one debug record per block to logger.
func (a *Allocator) LogBlocks(logger *slog.Logger) {
	for _, b := range a.Blocks() {
		logger.Debug("malloc block",
			slog.String("origin", b.Origin.String()),
			slog.String("addr", fmt.Sprintf("%#x", b.UserAddr)),
			slog.Int("size", b.Size),
			slog.Bool("free", b.Free),
		)
	}
}

// Check verifies the block lists: pool blocks tile the arena exactly, no
// two neighbours are both free, every size is aligned and every origin tag
// matches its list. It returns the first violation found.
func (a *Allocator) Check() error {
	if a.initialized {
		if err := a.checkPool(); err != nil {
			return err
		}
	}
	limit := 0
	for h := a.mapped.head; h != nil; h = h.next {
		if limit++; limit > 1<<20 {
			return errors.New("mapped list does not terminate")
		}
		if h.origin != OriginMapped {
			return errors.Errorf("mapped block %p has origin %v", h, h.origin)
		}
		if h.free {
			return errors.Errorf("mapped block %p is marked free", h)
		}
		if h.size%Alignment != 0 {
			return errors.Errorf("mapped block %p size %d is not aligned", h, h.size)
		}
	}
	return nil
}

func (a *Allocator) checkPool() error {
	p := a.pool
	want := uintptr(unsafe.Pointer(&p.buf[0]))
	total, blocks := 0, 0
	maxBlocks := p.capacity() / int(headerSize)
	var prev *header
	for h := p.head; h != nil; prev, h = h, h.next {
		if blocks++; blocks > maxBlocks {
			return errors.New("pool list does not terminate")
		}
		if !p.owns(h) {
			return errors.Errorf("pool block %p lies outside the arena", h)
		}
		if addr := uintptr(unsafe.Pointer(h)); addr != want {
			return errors.Errorf("pool block %#x expected at %#x", addr, want)
		}
		if h.origin != OriginPool {
			return errors.Errorf("pool block %p has origin %v", h, h.origin)
		}
		if h.size%Alignment != 0 {
			return errors.Errorf("pool block %p size %d is not aligned", h, h.size)
		}
		if prev != nil && prev.free && h.free {
			return errors.Errorf("adjacent free blocks %p and %p were not merged", prev, h)
		}
		total += int(headerSize + h.size)
		want = h.end()
	}
	if total != p.capacity() {
		return errors.Errorf("pool blocks cover %d bytes, arena holds %d", total, p.capacity())
	}
	return nil
}
