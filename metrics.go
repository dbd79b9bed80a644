package malloc

// Stats contains a snapshot of allocator state. Pool figures are zero
// until the arena is created by the first allocation.
type Stats struct {
	PoolCapacity int     // Arena size in bytes, headers included
	PoolInUse    int     // Payload bytes in used pool blocks
	PoolFree     int     // Payload bytes in free pool blocks
	PoolBlocks   int     // Number of pool blocks, free and used
	FreeBlocks   int     // Number of free pool blocks
	LargestFree  int     // Largest free payload, the biggest request the pool can serve
	MappedBlocks int     // Number of live mapped blocks
	MappedBytes  int     // Payload bytes held by mapped blocks
	Allocs       int     // Successful allocations since creation
	Frees        int     // Releases of non-nil pointers since creation
	Utilization  float64 // Ratio of PoolInUse to PoolCapacity (0.0-1.0)
}

// Stats returns a snapshot of allocator statistics.
func (a *Allocator) Stats() Stats {
	s := Stats{Allocs: a.allocs, Frees: a.frees}
	if a.initialized {
		s.PoolCapacity = a.pool.capacity()
		for h := a.pool.head; h != nil; h = h.next {
			s.PoolBlocks++
			if !h.free {
				s.PoolInUse += int(h.size)
				continue
			}
			s.FreeBlocks++
			s.PoolFree += int(h.size)
			if int(h.size) > s.LargestFree {
				s.LargestFree = int(h.size)
			}
		}
		s.Utilization = float64(s.PoolInUse) / float64(s.PoolCapacity)
	}
	for h := a.mapped.head; h != nil; h = h.next {
		s.MappedBlocks++
		s.MappedBytes += int(h.size)
	}
	return s
}

// InUse returns the payload bytes currently handed out, pool and mapped.
func (a *Allocator) InUse() int {
	s := a.Stats()
	return s.PoolInUse + s.MappedBytes
}
