package index

import (
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
)

// Outcome is the result of a single lookup.
type Outcome uint8

const (
	NotFound Outcome = iota
	Found
)

func (o Outcome) String() string {
	if o == Found {
		return "found"
	}
	return "not_found"
}

// Index answers whole-line membership queries against the backing file.
type Index interface {
	Lookup(query []byte) (Outcome, error)
	Mode() string
}

// Snapshot is an immutable set of file lines built once at startup.
// Safe for concurrent lookups without locking.
type Snapshot struct {
	lines map[string]struct{}
	bf    *bloom.BloomFilter
}

// LiveScan re-reads the backing file on every lookup.
type LiveScan struct {
	path string
}

// Swappable lets the admin API replace a Snapshot without blocking readers.
type Swappable struct {
	ptr atomic.Pointer[Snapshot]
}
