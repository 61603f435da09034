//go:build unix

package replay

import (
	"os"
	"syscall"
)

// SIGUSR1 toggles pause, SIGUSR2 restarts at the start of the range
func controlSignals() map[os.Signal]controlAction {
	return map[os.Signal]controlAction{
		syscall.SIGUSR1: actionTogglePause,
		syscall.SIGUSR2: actionRestart,
	}
}
