package malloc

import "github.com/pkg/errors"

var (
	// ErrOutOfMemory is returned when no free arena block can hold a request.
	ErrOutOfMemory = errors.New("malloc: pool exhausted")
	// ErrMapFailed is returned when the OS refuses a mapping for a large request.
	ErrMapFailed = errors.New("malloc: mmap failed")
	// ErrInvalidSize is returned for negative sizes or counts.
	ErrInvalidSize = errors.New("malloc: invalid size")
	// ErrOverflow is returned by Calloc when count*size does not fit in an int.
	ErrOverflow = errors.New("malloc: size overflow")
	// ErrInvalidConfig is returned by NewWithConfig for unusable settings.
	ErrInvalidConfig = errors.New("malloc: invalid config")
)
