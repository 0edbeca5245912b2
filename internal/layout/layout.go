// Package layout maps a base path and record ID to the on-disk locations of
// a record. Functions here never touch the filesystem.
package layout

import "path/filepath"

// File names inside a record directory.
const (
	StatusName = "status"
	StdoutName = "stdout"
	StderrName = "stderr"
)

// Paths holds every location belonging to one record.
type Paths struct {
	Dir    string // base/id
	Status string // base/id/status
	Stdout string // base/id/stdout
	Stderr string // base/id/stderr
}

// For returns the full set of paths for record id under base.
// id is treated as an opaque path segment; callers must not pass ".." or
// separators.
func For(base, id string) Paths {
	return Paths{
		Dir:    RecordDir(base, id),
		Status: StatusFile(base, id),
		Stdout: StdoutFile(base, id),
		Stderr: StderrFile(base, id),
	}
}

// RecordDir returns base/id.
func RecordDir(base, id string) string {
	return filepath.Join(base, id)
}

func StatusFile(base, id string) string { return child(base, id, StatusName) }

func StdoutFile(base, id string) string { return child(base, id, StdoutName) }

func StderrFile(base, id string) string { return child(base, id, StderrName) }

func child(base, id, name string) string {
	return filepath.Join(RecordDir(base, id), name)
}
