// Package index implements the file-backed lookup engine. Two variants
// share the Index contract: Snapshot caches the line set in memory at
// startup, LiveScan re-reads the file on every query.
package index

import "fmt"

// New selects the index variant from the reread flag. Snapshot build
// failure is returned to the caller and is fatal at startup.
func New(path string, rereadOnQuery bool) (Index, error) {
	if rereadOnQuery {
		return NewLiveScan(path), nil
	}
	s, err := BuildSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}
	return NewSwappable(s), nil
}

func NewSwappable(s *Snapshot) *Swappable {
	w := &Swappable{}
	w.ptr.Store(s)
	return w
}

func (w *Swappable) Lookup(query []byte) (Outcome, error) {
	return w.ptr.Load().Lookup(query)
}

func (w *Swappable) Mode() string { return "cached" }

// Swap installs a freshly built snapshot. In-flight lookups keep reading
// the old one.
func (w *Swappable) Swap(s *Snapshot) { w.ptr.Store(s) }

func (w *Swappable) Len() int { return w.ptr.Load().Len() }
