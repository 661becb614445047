//go:build windows

package app

import "os"

// shutdownSignals end the foreground watch loop and the background daemon.
var shutdownSignals = []os.Signal{os.Interrupt}

// terminateProcess stops the watch daemon. Windows has no graceful SIGTERM
// equivalent, so the daemon is killed outright; the next watch start cleans
// up whatever the interrupted cycle left behind.
func terminateProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

// processExists reports whether the recorded watch PID is still alive.
// FindProcess always succeeds on Windows, so liveness is probed with a
// nil signal instead.
func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(os.Signal(nil)) == nil
}
