// Package store reads back and removes records created by the recorder.
//
// A Store holds nothing but its base path; every operation is resolved from
// the base path and a record ID alone. There is no locking: a delete or
// expire racing a read in another process may make the read fail.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/cmdrec/internal/layout"
	"github.com/loykin/cmdrec/internal/metrics"
)

type Store struct {
	BasePath string
}

func New(basePath string) *Store {
	return &Store{BasePath: basePath}
}

// Delete removes a record directory and everything in it.
// Deleting a record that does not exist succeeds.
func (s *Store) Delete(id string) error {
	metrics.IncDelete()
	dir := layout.RecordDir(s.BasePath, id)
	if _, err := os.Lstat(dir); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("record already absent", slog.String("id", id))
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		metrics.IncError("delete")
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	slog.Debug("record deleted", slog.String("id", id))
	return nil
}

// Expire removes every entry directly under the base path, treating each as
// a record directory, and returns how many were removed. A base path that
// cannot be stat'ed or is not a directory is a no-op. The first failure aborts.
func (s *Store) Expire() (int, error) {
	// any stat failure means there is no readable base directory
	fi, err := os.Stat(s.BasePath)
	if err != nil || !fi.IsDir() {
		slog.Debug("nothing to expire", slog.String("base_path", s.BasePath), slog.Any("error", err))
		return 0, nil
	}
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		metrics.IncError("expire")
		return 0, fmt.Errorf("expire records: %w", err)
	}
	n := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.BasePath, e.Name())); err != nil {
			metrics.AddExpired(n)
			metrics.IncError("expire")
			return n, fmt.Errorf("expire record %s: %w", e.Name(), err)
		}
		n++
	}
	metrics.AddExpired(n)
	slog.Debug("records expired", slog.String("base_path", s.BasePath), slog.Int("count", n))
	return n, nil
}

// Status returns the recorded exit code as text, without the trailing newline.
func (s *Store) Status(id string) (string, error) {
	metrics.IncRead(layout.StatusName)
	b, err := os.ReadFile(layout.StatusFile(s.BasePath, id))
	if err != nil {
		metrics.IncError("status")
		return "", fmt.Errorf("record %s: %w", id, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// PrintStatus writes the recorded exit code followed by a newline to w.
func (s *Store) PrintStatus(id string, w io.Writer) error {
	st, err := s.Status(id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, st)
	return err
}

// Stdout streams the recorded standard output to w.
func (s *Store) Stdout(id string, w io.Writer) error {
	return s.copy(id, layout.StdoutName, w)
}

// Stderr streams the recorded standard error to w.
func (s *Store) Stderr(id string, w io.Writer) error {
	return s.copy(id, layout.StderrName, w)
}

// Output streams stdout to out, then stderr to errOut. A stdout failure
// returns before stderr is read.
func (s *Store) Output(id string, out, errOut io.Writer) error {
	if err := s.Stdout(id, out); err != nil {
		return err
	}
	return s.Stderr(id, errOut)
}

func (s *Store) copy(id, stream string, w io.Writer) error {
	metrics.IncRead(stream)
	f, err := os.Open(filepath.Join(layout.RecordDir(s.BasePath, id), stream))
	if err != nil {
		metrics.IncError(stream)
		return fmt.Errorf("record %s: %w", id, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(w, f); err != nil {
		metrics.IncError(stream)
		return fmt.Errorf("record %s: copy %s: %w", id, stream, err)
	}
	return nil
}
