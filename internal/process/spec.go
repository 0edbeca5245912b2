package process

import (
	"io"
	"os/exec"
)

// Spec describes a single command invocation.
type Spec struct {
	Args    []string  // argv; Args[0] is the executable name or path
	WorkDir string    // optional working dir
	Env     []string  // full environment in KEY=VALUE form; nil inherits the caller's
	Stdin   io.Reader // optional; nil reads from the null device
}

// Validate reports whether the spec can be turned into a command.
func (s *Spec) Validate() error {
	if len(s.Args) == 0 || s.Args[0] == "" {
		return ErrEmptyCommand
	}
	return nil
}

// BuildCommand constructs an *exec.Cmd for the spec. Args are passed to the
// executable verbatim; no shell is involved.
func (s *Spec) BuildCommand() *exec.Cmd {
	// ok: executing the user's command is the purpose of the tool
	// #nosec G204
	cmd := exec.Command(s.Args[0], s.Args[1:]...)
	if s.WorkDir != "" {
		cmd.Dir = s.WorkDir
	}
	if len(s.Env) > 0 {
		cmd.Env = s.Env
	}
	cmd.Stdin = s.Stdin
	return cmd
}
