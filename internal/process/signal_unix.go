//go:build !windows

package process

import (
	"os"
	"syscall"
)

// terminatingSignal returns the name of the signal that killed the process,
// or "" when it exited on its own.
func terminatingSignal(ps *os.ProcessState) string {
	if ps == nil {
		return ""
	}
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return ws.Signal().String()
}
