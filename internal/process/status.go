package process

import "time"

// SignaledCode is the recorded exit code when a process has no exit code of
// its own, e.g. because it was killed by a signal.
const SignaledCode = 255

// Status describes a finished process.
type Status struct {
	PID       int       `json:"pid"`
	ExitCode  int       `json:"exit_code"`        // as reported by the OS; -1 when signaled
	Signal    string    `json:"signal,omitempty"` // terminating signal, if any
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
}

// Code returns the exit code to persist: always within 0..255.
func (s Status) Code() int {
	if s.ExitCode < 0 || s.ExitCode > 255 {
		return SignaledCode
	}
	return s.ExitCode
}

func (s Status) Duration() time.Duration {
	if s.StoppedAt.Before(s.StartedAt) {
		return 0
	}
	return s.StoppedAt.Sub(s.StartedAt)
}
