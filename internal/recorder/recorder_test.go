package recorder

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/loykin/cmdrec/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require Unix utilities")
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestNewIDFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := NewID(nil)
		require.NoError(t, err)
		assert.Regexp(t, idPattern, id)
	}
}

func TestNewIDsDiffer(t *testing.T) {
	a, err := NewID(nil)
	require.NoError(t, err)
	b, err := NewID(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "IDs are unique")
}

func TestNewIDDeterministicSource(t *testing.T) {
	seed := []byte{0xde, 0xad, 0xbe, 0xef, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	a, err := NewID(bytes.NewReader(seed))
	require.NoError(t, err)
	b, err := NewID(bytes.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", a)
	assert.Equal(t, a, b)
}

func TestNewIDShortSource(t *testing.T) {
	_, err := NewID(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestRecordWritesAllFiles(t *testing.T) {
	requireUnix(t)
	base := filepath.Join(t.TempDir(), "missing", "parents")
	rec := New(base)
	id, err := rec.Record([]string{"sh", "-c", "printf out; printf err >&2; exit 3"}, Options{})
	require.NoError(t, err)
	require.Regexp(t, idPattern, id)

	p := layout.For(base, id)
	assert.Equal(t, "3\n", readFile(t, p.Status))
	assert.Equal(t, "out", readFile(t, p.Stdout))
	assert.Equal(t, "err", readFile(t, p.Stderr))
}

func TestRecordExitStatus(t *testing.T) {
	requireUnix(t)
	tests := [][2]string{{"true", "0\n"}, {"false", "1\n"}}
	for _, tc := range tests {
		base := t.TempDir()
		id, err := New(base).Record([]string{tc[0]}, Options{})
		require.NoError(t, err)
		assert.Equal(t, tc[1], readFile(t, layout.StatusFile(base, id)))
	}
}

func TestRecordSignaled(t *testing.T) {
	requireUnix(t)
	base := t.TempDir()
	id, err := New(base).Record([]string{"sh", "-c", "kill -TERM $$"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "255\n", readFile(t, layout.StatusFile(base, id)))
}

func TestRecordUsesInjectedRandomness(t *testing.T) {
	requireUnix(t)
	base := t.TempDir()
	seed := bytes.Repeat([]byte{0xab}, 16)
	rec := &Recorder{BasePath: base, Rand: bytes.NewReader(seed)}
	id, err := rec.Record([]string{"true"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "abababab", id)
	assert.DirExists(t, layout.RecordDir(base, "abababab"))
}

func TestRecordCollisionOverwrites(t *testing.T) {
	requireUnix(t)
	// Same randomness twice: no collision check, the second run reuses the
	// directory and truncates the output files.
	base := t.TempDir()
	seed := bytes.Repeat([]byte{0x11}, 32)
	rec := &Recorder{BasePath: base, Rand: bytes.NewReader(seed)}
	first, err := rec.Record([]string{"echo", "first-longer-output"}, Options{})
	require.NoError(t, err)
	second, err := rec.Record([]string{"echo", "second"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "second\n", readFile(t, layout.StdoutFile(base, second)))
}

func TestRecordOptions(t *testing.T) {
	requireUnix(t)
	base := t.TempDir()
	work := t.TempDir()
	id, err := New(base).Record([]string{"sh", "-c", `printf "%s|" "$GREETING"; cat; pwd`}, Options{
		Env:     []string{"GREETING=hi", "PATH=/usr/bin:/bin"},
		WorkDir: work,
		Stdin:   strings.NewReader("in|"),
	})
	require.NoError(t, err)
	out := readFile(t, layout.StdoutFile(base, id))
	assert.True(t, strings.HasPrefix(out, "hi|in|"), out)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Base(work)), out)
}

func TestRecordEmptyCommand(t *testing.T) {
	base := t.TempDir()
	_, err := New(base).Record(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyCommand)
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "no record dir for an empty command")
}

func TestRecordSpawnFailureLeavesPartialRecord(t *testing.T) {
	base := t.TempDir()
	seed := bytes.Repeat([]byte{0x42}, 16)
	rec := &Recorder{BasePath: base, Rand: bytes.NewReader(seed)}
	_, err := rec.Record([]string{"cmdrec-definitely-missing-binary"}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound), "got %v", err)

	p := layout.For(base, "42424242")
	assert.FileExists(t, p.Stdout)
	assert.FileExists(t, p.Stderr)
	assert.NoFileExists(t, p.Status)
}

func TestRecordBasePathIsFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o600))
	_, err := New(base).Record([]string{"true"}, Options{})
	assert.Error(t, err)
}
