package malloc

import (
	"math"

	"github.com/pkg/errors"
)

// Alignment is the allocation unit. Every block size is a multiple of it
// and every payload starts on an Alignment boundary.
const Alignment = 8

const (
	// DefaultPoolSize is the capacity of the static arena (1 MiB).
	DefaultPoolSize = 1024 * 1024

	// DefaultMmapThreshold is the largest request served from the arena
	// (128 KiB). Anything larger is mapped directly from the OS.
	DefaultMmapThreshold = 128 * 1024

	// DefaultMinSplit is the smallest payload a split remainder may carry.
	DefaultMinSplit = 8
)

// Config holds the tunables of an Allocator.
type Config struct {
	PoolSize      int // arena capacity in bytes, headers included
	MmapThreshold int // requests above this go to the mapped path
	MinSplit      int // minimum payload of a block carved off by a split
}

// DefaultConfig returns the configuration used by New when no options are given.
func DefaultConfig() Config {
	return Config{
		PoolSize:      DefaultPoolSize,
		MmapThreshold: DefaultMmapThreshold,
		MinSplit:      DefaultMinSplit,
	}
}

// Option configures an Allocator created with New.
type Option func(*Config)

// WithPoolSize sets the arena capacity. Values <= 0 keep the default.
func WithPoolSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PoolSize = n
		}
	}
}

// WithMmapThreshold sets the size above which requests bypass the arena.
// Values <= 0 keep the default.
func WithMmapThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MmapThreshold = n
		}
	}
}

// WithMinSplit sets the smallest useful split remainder. Values <= 0 keep
// the default.
func WithMinSplit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MinSplit = n
		}
	}
}

// WithoutMapping routes every request to the arena, regardless of size.
func WithoutMapping() Option {
	return func(c *Config) {
		c.MmapThreshold = math.MaxInt
	}
}

func (c Config) validate() error {
	if c.PoolSize%Alignment != 0 {
		return errors.Wrapf(ErrInvalidConfig, "pool size %d is not a multiple of %d", c.PoolSize, Alignment)
	}
	if c.PoolSize < int(headerSize)+Alignment {
		return errors.Wrapf(ErrInvalidConfig, "pool size %d cannot hold a single block", c.PoolSize)
	}
	if c.MmapThreshold <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "mmap threshold %d must be positive", c.MmapThreshold)
	}
	if c.MinSplit <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "min split %d must be positive", c.MinSplit)
	}
	return nil
}
