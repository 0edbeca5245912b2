//go:build windows

package process

import "os"

// Windows processes have no terminating signal; ExitCode is always set.
func terminatingSignal(_ *os.ProcessState) string { return "" }
