//go:build windows

package process

import (
	"os"
	"os/exec"
)

var watchedSignals = []os.Signal{os.Interrupt}

func forwarded(os.Signal) bool {
	return false
}

func stop(p *os.Process) {
	_ = p.Kill()
}

func statusOf(err *exec.ExitError) int {
	return err.ExitCode()
}
