package index

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
)

// Lines above this count get a bloom filter in front of the map to make
// negative lookups cheap on large files.
const bloomThreshold = 10000

// Trim strips trailing line terminators and NUL padding from a line or
// query. Interior bytes, including spaces, are preserved: comparison
// stays byte-exact.
func Trim(b []byte) []byte {
	return bytes.TrimRight(b, "\x00\r\n")
}

// BuildSnapshot reads the whole file and builds the line set.
func BuildSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	raw := bytes.Split(data, []byte{'\n'})
	// A trailing newline is a terminator, not an empty final line; keep
	// the set in step with what a line scanner would see.
	if n := len(raw); n > 0 && len(raw[n-1]) == 0 {
		raw = raw[:n-1]
	}
	s := &Snapshot{
		lines: make(map[string]struct{}, len(raw)),
	}
	if len(raw) > bloomThreshold {
		s.bf = bloom.NewWithEstimates(uint(len(raw))*4, 1e-4)
	}

	for _, line := range raw {
		l := string(Trim(line))
		s.lines[l] = struct{}{}
		if s.bf != nil {
			s.bf.AddString(l)
		}
	}
	return s, nil
}

func (s *Snapshot) Lookup(query []byte) (Outcome, error) {
	q := string(Trim(query))
	if s.bf != nil && !s.bf.TestString(q) {
		return NotFound, nil
	}
	if _, ok := s.lines[q]; ok {
		return Found, nil
	}
	return NotFound, nil
}

func (s *Snapshot) Mode() string { return "cached" }

// Len reports the number of distinct lines in the set.
func (s *Snapshot) Len() int { return len(s.lines) }
