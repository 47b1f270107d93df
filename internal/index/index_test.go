package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testContent = "alpha\nbeta\nwith space inside\ncrline\r\n\ngamma delta\n"

func bothModes(t *testing.T, path string) map[string]Index {
	t.Helper()
	snap, err := BuildSnapshot(path)
	require.NoError(t, err)
	return map[string]Index{
		"cached": snap,
		"live":   NewLiveScan(path),
	}
}

func TestLookup(t *testing.T) {
	path := writeFile(t, testContent)

	tests := []struct {
		name  string
		query string
		want  Outcome
	}{
		{"exact match", "alpha", Found},
		{"other line", "beta", Found},
		{"line with interior spaces", "with space inside", Found},
		{"absent", "omega", NotFound},
		{"trailing space is not stripped", "alpha ", NotFound},
		{"substring of a line", "alph", NotFound},
		{"line is substring of query", "alphabet", NotFound},
		{"trailing newline stripped", "alpha\n", Found},
		{"crlf stripped", "alpha\r\n", Found},
		{"nul padding stripped", "alpha\x00\x00\x00", Found},
		{"file line had cr", "crline", Found},
		{"empty line in file", "", Found},
		{"case sensitive", "Alpha", NotFound},
		{"multi word line", "gamma delta", Found},
		{"partial multi word", "gamma", NotFound},
	}

	for mode, idx := range bothModes(t, path) {
		t.Run(mode, func(t *testing.T) {
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := idx.Lookup([]byte(tt.query))
					require.NoError(t, err)
					assert.Equal(t, tt.want, got, "query %q", tt.query)
				})
			}
		})
	}
}

func TestLookupIdempotent(t *testing.T) {
	path := writeFile(t, testContent)

	for mode, idx := range bothModes(t, path) {
		t.Run(mode, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				got, err := idx.Lookup([]byte("alpha"))
				require.NoError(t, err)
				assert.Equal(t, Found, got)

				got, err = idx.Lookup([]byte("omega"))
				require.NoError(t, err)
				assert.Equal(t, NotFound, got)
			}
		})
	}
}

func TestModesAgree(t *testing.T) {
	path := writeFile(t, testContent)
	modes := bothModes(t, path)

	queries := []string{"alpha", "beta", "omega", "alpha ", "", "with space inside", "crline", "Alpha"}
	for _, q := range queries {
		cached, err := modes["cached"].Lookup([]byte(q))
		require.NoError(t, err)
		live, err := modes["live"].Lookup([]byte(q))
		require.NoError(t, err)
		assert.Equal(t, cached, live, "modes disagree on %q", q)
	}
}

func TestModesAgreeOnVeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	path := writeFile(t, "alpha\n"+long+"\nomega\n")

	for mode, idx := range bothModes(t, path) {
		t.Run(mode, func(t *testing.T) {
			for _, q := range []string{"alpha", "omega", long} {
				got, err := idx.Lookup([]byte(q))
				require.NoError(t, err)
				assert.Equal(t, Found, got, "query of %d bytes", len(q))
			}
			got, err := idx.Lookup([]byte("missing"))
			require.NoError(t, err)
			assert.Equal(t, NotFound, got)
		})
	}
}

func TestSnapshotMissingFileFails(t *testing.T) {
	_, err := BuildSnapshot(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestLiveScanMissingFileDegrades(t *testing.T) {
	ls := NewLiveScan(filepath.Join(t.TempDir(), "nope.txt"))
	got, err := ls.Lookup([]byte("alpha"))
	assert.Equal(t, NotFound, got)
	require.Error(t, err)
}

func TestLiveScanSeesFileChanges(t *testing.T) {
	path := writeFile(t, "alpha\n")
	ls := NewLiveScan(path)

	got, err := ls.Lookup([]byte("omega"))
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)

	require.NoError(t, os.WriteFile(path, []byte("alpha\nomega\n"), 0o644))

	got, err = ls.Lookup([]byte("omega"))
	require.NoError(t, err)
	assert.Equal(t, Found, got)
}

func TestSnapshotIgnoresFileChanges(t *testing.T) {
	path := writeFile(t, "alpha\n")
	snap, err := BuildSnapshot(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("omega\n"), 0o644))

	got, err := snap.Lookup([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, Found, got, "snapshot is stale by design")

	got, err = snap.Lookup([]byte("omega"))
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)
}

func TestSwappableSwap(t *testing.T) {
	path := writeFile(t, "alpha\n")
	snap, err := BuildSnapshot(path)
	require.NoError(t, err)
	sw := NewSwappable(snap)

	got, err := sw.Lookup([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, Found, got)
	assert.Equal(t, "cached", sw.Mode())

	require.NoError(t, os.WriteFile(path, []byte("omega\n"), 0o644))
	fresh, err := BuildSnapshot(path)
	require.NoError(t, err)
	sw.Swap(fresh)

	got, err = sw.Lookup([]byte("omega"))
	require.NoError(t, err)
	assert.Equal(t, Found, got)

	got, err = sw.Lookup([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)
}

func TestSnapshotLargeFileUsesBloom(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < bloomThreshold+500; i++ {
		fmt.Fprintf(&sb, "line-%06d\n", i)
	}
	path := writeFile(t, sb.String())

	snap, err := BuildSnapshot(path)
	require.NoError(t, err)
	require.NotNil(t, snap.bf, "bloom filter expected above threshold")

	got, err := snap.Lookup([]byte("line-000000"))
	require.NoError(t, err)
	assert.Equal(t, Found, got)

	got, err = snap.Lookup([]byte(fmt.Sprintf("line-%06d", bloomThreshold+499)))
	require.NoError(t, err)
	assert.Equal(t, Found, got)

	got, err = snap.Lookup([]byte("line-999999"))
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)
}

func TestNewSelectsVariant(t *testing.T) {
	path := writeFile(t, "alpha\n")

	idx, err := New(path, false)
	require.NoError(t, err)
	assert.Equal(t, "cached", idx.Mode())
	assert.IsType(t, &Swappable{}, idx)

	idx, err = New(path, true)
	require.NoError(t, err)
	assert.Equal(t, "live", idx.Mode())
	assert.IsType(t, &LiveScan{}, idx)
}

func TestNewMissingFileCachedFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.txt"), false)
	require.Error(t, err)
}
