//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package malloc

import "github.com/pkg/errors"

// Platforms without mmap get heap-backed regions, pinned here until they
// are released.
var regions = map[*byte][]byte{}

func mmap(n int) (b []byte, err error) {
	if n <= 0 {
		return nil, errors.Errorf("invalid mapping length %d", n)
	}
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, errors.Errorf("allocating %d bytes: %v", n, r)
		}
	}()
	b = make([]byte, n)
	regions[&b[0]] = b
	return b, nil
}

func munmap(b []byte) error {
	delete(regions, &b[0])
	return nil
}
