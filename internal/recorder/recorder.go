// Package recorder runs a command and persists its exit status and output
// streams as a record under a base path.
package recorder

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/loykin/cmdrec/internal/layout"
	"github.com/loykin/cmdrec/internal/metrics"
	"github.com/loykin/cmdrec/internal/process"
)

// IDLength is the number of characters in a generated record ID.
const IDLength = 8

// ErrEmptyCommand is returned when Record is called without a command.
var ErrEmptyCommand = process.ErrEmptyCommand

// Options tune the recorded command. The zero value records with the
// caller's environment and working directory and no stdin.
type Options struct {
	Env     []string  // full child environment (KEY=VALUE); nil inherits
	WorkDir string    // optional working dir
	Stdin   io.Reader // optional
}

// Recorder creates records under BasePath.
type Recorder struct {
	BasePath string
	// Rand is the randomness source for IDs; nil means crypto/rand.
	Rand io.Reader
}

func New(basePath string) *Recorder {
	return &Recorder{BasePath: basePath}
}

// NewID returns IDLength lowercase hexadecimal characters drawn from r.
// They are the leading digits of a version 4 UUID, whose first 32 bits are
// uniformly random. No uniqueness check is made against existing records.
func NewID(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate record id: %w", err)
	}
	return u.String()[:IDLength], nil
}

// Record runs argv and persists its status and output streams, returning the
// new record ID. It blocks until the command exits.
//
// The record directory and output files are created before the command is
// spawned. On failure nothing already created is removed.
func (r *Recorder) Record(argv []string, opts Options) (string, error) {
	if len(argv) == 0 || argv[0] == "" {
		return "", ErrEmptyCommand
	}
	id, err := NewID(r.Rand)
	if err != nil {
		return "", err
	}
	p := layout.For(r.BasePath, id)
	log := slog.With(slog.String("id", id))

	if err := os.MkdirAll(p.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create record dir: %w", err)
	}
	stdout, err := os.Create(p.Stdout)
	if err != nil {
		return "", fmt.Errorf("create stdout file: %w", err)
	}
	defer func() { _ = stdout.Close() }()
	stderr, err := os.Create(p.Stderr)
	if err != nil {
		return "", fmt.Errorf("create stderr file: %w", err)
	}
	defer func() { _ = stderr.Close() }()
	log.Debug("record prepared", slog.String("dir", p.Dir), slog.Any("args", argv))

	st, err := process.Run(process.Spec{
		Args:    argv,
		WorkDir: opts.WorkDir,
		Env:     opts.Env,
		Stdin:   opts.Stdin,
	}, stdout, stderr)
	if err != nil {
		return "", err
	}

	code := st.Code()
	if err := writeStatus(p.Status, code); err != nil {
		return "", err
	}
	metrics.IncRecord(code)
	metrics.ObserveRecordDuration(st.Duration().Seconds())
	attrs := []any{slog.Int("exit_code", code), slog.Duration("duration", st.Duration())}
	if st.Signal != "" {
		attrs = append(attrs, slog.String("signal", st.Signal))
	}
	log.Info("command recorded", attrs...)
	return id, nil
}

func writeStatus(path string, code int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create status file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", code); err != nil {
		_ = f.Close()
		return fmt.Errorf("write status file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close status file: %w", err)
	}
	return nil
}
