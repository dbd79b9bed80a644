//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package malloc

import "golang.org/x/sys/unix"

// mmap returns an anonymous, private, read/write mapping of n bytes.
func mmap(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

// munmap returns a mapping obtained from mmap to the OS. b must cover the
// whole mapping.
func munmap(b []byte) error {
	return unix.Munmap(b)
}
