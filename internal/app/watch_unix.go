//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals end the foreground watch loop and the background daemon.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// terminateProcess asks the watch daemon to shut down gracefully. The
// daemon's signal handler cancels its scan context, so an in-flight rescan
// finishes before exit.
func terminateProcess(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

// processExists reports whether the recorded watch PID is still alive.
// Signal 0 probes without delivering anything.
func processExists(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
