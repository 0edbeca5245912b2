package process

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Run starts the command described by spec with its output streams attached
// to stdout and stderr and blocks until it exits. There is no timeout.
//
// A non-zero exit or a terminating signal is not an error; it is reported in
// the returned Status. Errors are returned only when the process could not be
// started or waited for.
func Run(spec Spec, stdout, stderr io.Writer) (Status, error) {
	if err := spec.Validate(); err != nil {
		return Status{}, err
	}
	cmd := spec.BuildCommand()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Status{}, fmt.Errorf("start %s: %w", spec.Args[0], err)
	}
	st := Status{PID: cmd.Process.Pid, StartedAt: time.Now()}
	slog.Debug("process started", slog.String("command", spec.Args[0]), slog.Int("pid", st.PID))

	waitErr := cmd.Wait()
	st.StoppedAt = time.Now()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return st, fmt.Errorf("wait %s: %w", spec.Args[0], waitErr)
		}
	}
	st.ExitCode = cmd.ProcessState.ExitCode()
	st.Signal = terminatingSignal(cmd.ProcessState)
	slog.Debug("process exited",
		slog.Int("pid", st.PID),
		slog.Int("exit_code", st.ExitCode),
		slog.String("signal", st.Signal),
		slog.Duration("duration", st.Duration()))
	return st, nil
}
