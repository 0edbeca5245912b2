package layout

import (
	"path/filepath"
	"testing"
)

func TestFileNames(t *testing.T) {
	base := filepath.Join("tmp", "cmdrec")
	cases := []struct {
		got  string
		want string
	}{
		{StatusFile(base, "RECORD"), "status"},
		{StdoutFile(base, "RECORD"), "stdout"},
		{StderrFile(base, "RECORD"), "stderr"},
	}
	for _, c := range cases {
		if filepath.Base(c.got) != c.want {
			t.Fatalf("file name: got %q want %q", filepath.Base(c.got), c.want)
		}
		if filepath.Dir(c.got) != RecordDir(base, "RECORD") {
			t.Fatalf("%s not inside record dir %s", c.got, RecordDir(base, "RECORD"))
		}
	}
}

func TestForMatchesIndividualHelpers(t *testing.T) {
	base := t.TempDir()
	p := For(base, "0a1b2c3d")
	if p.Dir != filepath.Join(base, "0a1b2c3d") {
		t.Fatalf("dir: %s", p.Dir)
	}
	if p.Status != StatusFile(base, "0a1b2c3d") || p.Stdout != StdoutFile(base, "0a1b2c3d") || p.Stderr != StderrFile(base, "0a1b2c3d") {
		t.Fatalf("paths mismatch: %+v", p)
	}
}

func TestIDIsNotValidated(t *testing.T) {
	// Sanitizing IDs is the caller's job; the mapping is purely lexical.
	if got := RecordDir("/base", "non-existing-record"); got != filepath.Join("/base", "non-existing-record") {
		t.Fatalf("unexpected dir %q", got)
	}
}
