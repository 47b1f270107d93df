package index

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const scanBufSize = 64 * 1024

func NewLiveScan(path string) *LiveScan {
	return &LiveScan{path: path}
}

// Lookup opens the file and scans it line by line, stopping at the first
// exact match. Lines of any length are handled, keeping results in step
// with the snapshot, which reads the whole file. A read failure degrades
// to NotFound with the error attached; it is never fatal.
func (l *LiveScan) Lookup(query []byte) (Outcome, error) {
	q := Trim(query)

	f, err := os.Open(l.path)
	if err != nil {
		return NotFound, fmt.Errorf("opening %s: %w", l.path, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, scanBufSize)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 && bytes.Equal(Trim(line), q) {
			return Found, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return NotFound, nil
			}
			return NotFound, fmt.Errorf("scanning %s: %w", l.path, err)
		}
	}
}

func (l *LiveScan) Mode() string { return "live" }
